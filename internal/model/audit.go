package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateFigurine      = "CREATE_FIGURINE"
	ActionDeleteFigurine      = "DELETE_FIGURINE"
	ActionCreateSale          = "CREATE_SALE"
	ActionRecordPayment       = "RECORD_PAYMENT"
	ActionRegisterUser        = "REGISTER_USER"
	ActionCreatePortalAccount = "CREATE_PORTAL_ACCOUNT"
)

// AuditLog tracks who changed what, and when
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:char(36);index" json:"user_id"` // nil for self-registration
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // JSON payload
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
