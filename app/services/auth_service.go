package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/apperr"
	"github.com/shashiranjanraj/logitrack/pkg/auth"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users  UserStore
	issuer *auth.Issuer
}

func NewAuthService(users UserStore, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Register creates a confirmed account whose username is its email.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("register", err)
	}
	if exists {
		return apperr.Conflict("User already exists.")
	}

	if problems := auth.PasswordProblems(password); len(problems) > 0 {
		return apperr.ValidationFields("One or more validation errors occurred.", map[string]string{
			"password": strings.Join(problems, " "),
		})
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Internal("hash password", err)
	}

	user := models.User{
		Email:          email,
		UserName:       email,
		PasswordHash:   hash,
		EmailConfirmed: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("User already exists.")
		}
		return apperr.Internal("register", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return nil
}

// Login verifies credentials and issues a bearer token carrying every role
// the account holds.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Unauthorized("Invalid credentials.")
	}
	if err != nil {
		return "", apperr.Internal("login", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", apperr.Unauthorized("Invalid credentials.")
	}

	token, err := s.issuer.Issue(auth.Identity{
		Subject: user.ID,
		Email:   user.Email,
		Name:    user.UserName,
		Roles:   user.RoleNames(),
	})
	if err != nil {
		return "", apperr.Internal("issue token", err)
	}
	return token, nil
}
