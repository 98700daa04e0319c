// Package migrations holds the LogiTrack schema history.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/pkg/migration"
)

// All returns every migration in the order it applies.
func All() []migration.Named {
	return []migration.Named{
		{Name: "20240101000000_create_identity_tables", Migration: createIdentityTables{}},
		{Name: "20240101000001_create_orders_and_inventory_items", Migration: createOrdersAndInventory{}},
	}
}

type createIdentityTables struct{}

func (createIdentityTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Role{}, &models.User{})
}

func (createIdentityTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("user_roles", "users", "roles")
}

// Items reference orders through a nullable order_id that is cleared when
// the order is deleted.
type createOrdersAndInventory struct{}

func (createOrdersAndInventory) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.InventoryItem{})
}

func (createOrdersAndInventory) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("inventory_items", "orders")
}
