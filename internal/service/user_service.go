package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/cache"
	"github.com/Varun5711/attendly/internal/logger"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
	"github.com/Varun5711/attendly/internal/storage"
)

type UserService struct {
	users     storage.UserStore
	profiles  *cache.ProfileCache
	passwords auth.Passwords
	log       *logger.Logger
}

func NewUserService(users storage.UserStore, profiles *cache.ProfileCache, passwords auth.Passwords, log *logger.Logger) *UserService {
	return &UserService{
		users:     users,
		profiles:  profiles,
		passwords: passwords,
		log:       log,
	}
}

func (s *UserService) Signup(ctx context.Context, req *usermodel.SignupRequest) (*usermodel.User, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)

	if email == "" || req.Password == "" || name == "" {
		return nil, invalidInput("All fields are required")
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, invalidInput("Password must be at most %d bytes", auth.MaxPasswordBytes)
	}

	existingUser, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrAlreadyExists
	}

	passwordHash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &usermodel.SignupRequest{
		Email: email,
		Name:  name,
	}, passwordHash)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.cacheProfile(ctx, user.Profile())
	s.log.Info("User signed up: %s", user.ID)

	return user, nil
}

// Login returns the same error for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, req *usermodel.LoginRequest) (*usermodel.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, invalidInput("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !s.passwords.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) Profile(ctx context.Context, session *auth.Claims) (*usermodel.Profile, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}

	if profile, found := s.profiles.Get(ctx, session.UserID); found {
		return profile, nil
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	profile := user.Profile()
	s.cacheProfile(ctx, profile)

	return profile, nil
}

func (s *UserService) cacheProfile(ctx context.Context, profile *usermodel.Profile) {
	if err := s.profiles.Set(ctx, profile); err != nil {
		s.log.Warn("Failed to cache profile for %s: %v", profile.UserID, err)
	}
}
