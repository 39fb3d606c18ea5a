package storage

import (
	"context"
	"errors"

	"github.com/Varun5711/attendly/internal/models"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
)

// ErrDuplicate is returned when an insert collides with a unique key.
var ErrDuplicate = errors.New("duplicate key")

// UserStore persists accounts. Lookups return nil, nil when nothing matches.
type UserStore interface {
	CreateUser(ctx context.Context, req *usermodel.SignupRequest, passwordHash string) (*usermodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
}

// AttendanceStore persists daily records. Every lookup and mutation that
// takes a userID only ever matches records owned by that user.
type AttendanceStore interface {
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	FindByID(ctx context.Context, id, userID string) (*models.AttendanceRecord, error)
	FindByDate(ctx context.Context, userID, date string) (*models.AttendanceRecord, error)
	Update(ctx context.Context, record *models.AttendanceRecord) (bool, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	List(ctx context.Context, q models.AttendanceQuery) ([]*models.AttendanceRecord, error)
	Count(ctx context.Context, q models.AttendanceQuery) (int, error)
}
