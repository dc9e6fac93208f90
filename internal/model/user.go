package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User is a staff member, an admin, or a customer portal login.
// Customers use their id-number as username.
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`   // bcrypt hash
	Role      string    `gorm:"type:varchar(50);not null" json:"role"` // admin, staff, customer
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
