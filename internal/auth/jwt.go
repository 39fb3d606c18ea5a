package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionDuration is the fixed validity window of every session token.
	SessionDuration = 24 * time.Hour

	// SigningAlgorithm is the only algorithm accepted on decode.
	SigningAlgorithm = "HS256"
)

var (
	ErrMissingClaims    = errors.New("token is missing required claims")
	ErrUnexpectedClaims = errors.New("token carries unexpected claims")
	ErrSessionExpired   = errors.New("session has expired")
)

// claim names that may appear in a session payload; all of them are required.
var sessionClaimNames = []string{"userId", "email", "name", "expiresAt", "iat", "exp"}

// Claims is the closed set of identity facts carried by a session token.
type Claims struct {
	UserID    string           `json:"userId"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	ExpiresAt time.Time        `json:"expiresAt"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	Expiry    *jwt.NumericDate `json:"exp"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.Expiry, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return c.UserID, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// JWTManager signs and verifies session tokens with a server-held HMAC
// secret.
type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
	now           func() time.Time
}

func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// GenerateToken issues a token for the given identity and returns it with
// its absolute expiry.
func (m *JWTManager) GenerateToken(userID, email, name string) (string, time.Time, error) {
	issuedAt := m.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.tokenDuration)

	claims := Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		ExpiresAt: expiresAt.UTC(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		Expiry:    jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken verifies signature, algorithm, expiry and claim shape. Any
// failure yields a nil claims value and a non-nil error.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{SigningAlgorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != SigningAlgorithm {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if err := checkClaimSet(tokenString); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.Email == "" || claims.Name == "" || claims.ExpiresAt.IsZero() {
		return nil, ErrMissingClaims
	}
	if !m.now().Before(claims.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return claims, nil
}

// checkClaimSet rejects payloads whose keys differ from sessionClaimNames.
// It runs after signature verification, so the segment is well formed.
func checkClaimSet(tokenString string) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return jwt.ErrTokenMalformed
	}

	payload, err := base64.RawURLEncoding.Strict().DecodeString(parts[1])
	if err != nil {
		return jwt.ErrTokenMalformed
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return jwt.ErrTokenMalformed
	}

	for _, name := range sessionClaimNames {
		if _, ok := fields[name]; !ok {
			return ErrMissingClaims
		}
	}
	if len(fields) != len(sessionClaimNames) {
		return ErrUnexpectedClaims
	}

	return nil
}
