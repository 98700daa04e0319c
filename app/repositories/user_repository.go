package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/metrics"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by normalized email, with roles loaded.
// It returns an error wrapping gorm.ErrRecordNotFound when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	defer metrics.ObserveDBQuery("users.find_by_email", time.Now())

	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("normalized_email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return models.User{}, fmt.Errorf("users: find %q: %w", email, err)
	}
	return user, nil
}

// ExistsByEmail reports whether an account uses email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer metrics.ObserveDBQuery("users.exists", time.Now())

	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("normalized_email = ?", models.NormalizeEmail(email)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("users: exists %q: %w", email, err)
	}
	return n > 0, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("users.create", time.Now())

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}
