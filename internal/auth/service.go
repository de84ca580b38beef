// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/platepicker/internal/database"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/models"
)

// DefaultBcryptCost is used for stored password hashes.
const DefaultBcryptCost = 12

var (
	ErrUserExists         = errors.New("auth: username already exists")
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrPasswordMismatch   = errors.New("auth: password confirmation does not match")
	ErrMissingFields      = errors.New("auth: username and password are required")
	ErrReservedUsername   = errors.New("auth: username is reserved")
)

// reservedUsernames are role names and may not be registered.
var reservedUsernames = map[string]bool{
	models.RoleAdmin: true,
	models.RoleUser:  true,
}

// Message returns the text shown on the login and register pages.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return "Mật khẩu không khớp"
	case errors.Is(err, ErrUserExists):
		return "Username already exists"
	case errors.Is(err, ErrReservedUsername):
		return "Username không hợp lệ"
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrMissingFields):
		return "Sai username hoặc password"
	default:
		return "Đã có lỗi xảy ra, vui lòng thử lại"
	}
}

func isUserError(err error) bool {
	return errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrReservedUsername)
}

// UserStore is satisfied by *database.Users.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, user *models.User) error
	SetPasswordHash(ctx context.Context, username, hash string) error
}

// Service registers and authenticates accounts.
type Service struct {
	users UserStore
	cost  int
}

// NewService creates an account service hashing at DefaultBcryptCost.
func NewService(users UserStore) *Service {
	return &Service{users: users, cost: DefaultBcryptCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// HashPassword hashes password at cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates an account with the next sequential id "u{count+1}".
func (s *Service) Register(ctx context.Context, username, password, confirm string) (user *models.User, err error) {
	defer func() { Registrations.WithLabelValues(outcomeOf(err)).Inc() }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if reservedUsernames[strings.ToLower(username)] {
		return nil, ErrReservedUsername
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	n, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		UserID:       fmt.Sprintf("u%d", n+1),
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("username", username).Str("user_id", user.UserID).Msg("Account registered")
	return user, nil
}

// Login checks password against the stored hash. A legacy plaintext
// password is accepted once and replaced by a hash.
func (s *Service) Login(ctx context.Context, username, password string) (user *models.User, err error) {
	defer func() { LoginAttempts.WithLabelValues(outcomeOf(err)).Inc() }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err = s.users.FindByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	switch {
	case user.PasswordHash != "":
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
	case user.Password != "":
		if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
			return nil, ErrInvalidCredentials
		}
		s.upgradeLegacy(ctx, user, password)
	default:
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// upgradeLegacy failures are logged; the login itself already succeeded.
func (s *Service) upgradeLegacy(ctx context.Context, user *models.User, password string) {
	hash, err := HashPassword(password, s.cost)
	if err == nil {
		err = s.users.SetPasswordHash(ctx, user.Username, hash)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("username", user.Username).Msg("Legacy password upgrade failed")
		return
	}
	user.PasswordHash = hash
	user.Password = ""
	PasswordUpgrades.Inc()
}
