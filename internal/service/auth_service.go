package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"anamnesis/internal/config"
	"anamnesis/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles staff and patient-session authentication
type AuthService struct {
	staffUsername string
	staffPassword string
	jwtSecret     []byte
	sessionTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		staffUsername: cfg.StaffUsername,
		staffPassword: cfg.StaffPassword,
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    cfg.SessionTTL,
	}
}

// Login validates staff credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.staffUsername || password != s.staffPassword {
		return nil, ErrInvalidCredentials
	}

	staffID := "staff_" + uuid.New().String()[:8]

	claims := &model.StaffClaims{
		StaffID: staffID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:   tokenString,
		StaffID: staffID,
	}, nil
}

// ValidateStaffToken validates a staff JWT and returns claims
func (s *AuthService) ValidateStaffToken(tokenString string) (*model.StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.StaffClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateSessionToken creates a session-scoped token for a patient
func (s *AuthService) GenerateSessionToken(sessionID, formID string) (string, error) {
	claims := &model.SessionClaims{
		SessionID: sessionID,
		FormID:    formID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
