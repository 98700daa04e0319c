// Package seeders fills a fresh database with the rows the API expects at
// boot: the Manager role, a manager account and a sample inventory item.
package seeders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/auth"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
	"github.com/shashiranjanraj/logitrack/pkg/rbac"
)

// Seeder inserts rows that must exist. Every seeder is idempotent.
type Seeder struct {
	Name string
	Run  func(ctx context.Context, db *gorm.DB) error
}

// Default returns the boot seeders in order.
func Default(managerEmail, managerPassword string) []Seeder {
	return []Seeder{
		{Name: "roles", Run: Roles},
		{Name: "manager", Run: Manager(managerEmail, managerPassword)},
		{Name: "inventory", Run: Inventory},
	}
}

// Run executes seeders in order and stops on the first error.
func Run(ctx context.Context, db *gorm.DB, seeders []Seeder) error {
	for _, s := range seeders {
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seeder %q: %w", s.Name, err)
		}
		logger.Debug("seeder: done", "name", s.Name)
	}
	return nil
}

// Roles ensures the Manager role exists.
func Roles(ctx context.Context, db *gorm.DB) error {
	role := models.Role{Name: rbac.RoleManager}
	return db.WithContext(ctx).Where(models.Role{Name: rbac.RoleManager}).FirstOrCreate(&role).Error
}

// Manager ensures an account exists for email and holds the Manager role.
// An existing account keeps its password.
func Manager(email, password string) func(ctx context.Context, db *gorm.DB) error {
	return func(ctx context.Context, db *gorm.DB) error {
		db = db.WithContext(ctx)

		var role models.Role
		if err := db.Where("name = ?", rbac.RoleManager).First(&role).Error; err != nil {
			return fmt.Errorf("load role: %w", err)
		}

		var user models.User
		err := db.Where("normalized_email = ?", models.NormalizeEmail(email)).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user = models.User{
				Email:          email,
				UserName:       email,
				PasswordHash:   hash,
				EmailConfirmed: true,
			}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("create manager: %w", err)
			}
			logger.Info("seeder: manager account created", "email", email)
		case err != nil:
			return fmt.Errorf("load manager: %w", err)
		}

		if err := db.Model(&user).Association("Roles").Append(&role); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	}
}

// Inventory inserts one item when the table is empty.
func Inventory(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.InventoryItem{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.Create(&models.InventoryItem{Name: "Pallet Jack", Quantity: 12, Location: "Warehouse A"}).Error
}
