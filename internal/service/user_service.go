package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"shoplist/internal/domain"
	"shoplist/internal/repo"
)

// ErrInvalidCredentials covers both unknown usernames and wrong
// passwords.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// UserService handles credential verification and user lookups.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ValidateCredentials checks username and password; returns the user
// if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByName resolves a token subject to its user. Unknown names come
// back as ErrInvalidCredentials so the caller cannot tell a stale
// token from a bad one.
func (s *UserService) GetByName(ctx context.Context, name string) (domain.User, error) {
	u, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return u, nil
}
