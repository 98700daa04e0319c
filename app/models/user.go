package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can obtain bearer tokens.
type User struct {
	ID              string    `gorm:"primaryKey;size:36"                json:"id"`
	Email           string    `gorm:"size:256;not null"                 json:"email"`
	NormalizedEmail string    `gorm:"size:256;not null;uniqueIndex"     json:"-"`
	UserName        string    `gorm:"size:256;not null"                 json:"userName"`
	PasswordHash    string    `gorm:"size:255;not null"                 json:"-"`
	EmailConfirmed  bool      `gorm:"not null;default:false"            json:"emailConfirmed"`
	CreatedAt       time.Time `json:"createdAt"`
	Roles           []Role    `gorm:"many2many:user_roles;"             json:"roles,omitempty"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns a UUID and the normalized email.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.NormalizedEmail = NormalizeEmail(u.Email)
	return nil
}

// RoleNames returns the names of every assigned role.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role is a named permission group.
type Role struct {
	ID   uint   `gorm:"primaryKey"                   json:"id"`
	Name string `gorm:"size:256;not null;uniqueIndex" json:"name"`
}

func (Role) TableName() string { return "roles" }

// NormalizeEmail is the lookup form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}
