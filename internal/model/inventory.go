package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementType enum simulation
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// StockMovement records every stock change of a figurine
type StockMovement struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	FigurineID      uuid.UUID  `gorm:"type:char(36);not null;index" json:"figurine_id"`
	SaleID          *uuid.UUID `gorm:"type:char(36);index" json:"sale_id"` // nil for initial stock
	MovementType    string     `gorm:"type:varchar(10);not null" json:"movement_type"`
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
