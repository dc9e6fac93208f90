package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material enum simulation
const (
	MaterialResin      = "RESIN"
	MaterialGlassFiber = "GLASS_FIBER"
)

const (
	DefaultFigurineSize        = "40cm"
	DefaultFigurineDescription = "Artesanía Sacra - Calidad Premium"
)

// Figurine is a catalog item available for installment sale
type Figurine struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Size        string          `gorm:"type:varchar(50);not null" json:"size"`
	Material    string          `gorm:"type:varchar(20);not null" json:"material"` // RESIN, GLASS_FIBER
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"type:int;not null;default:0" json:"stock"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	ImageRef    string          `gorm:"type:varchar(255)" json:"image_ref"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (f *Figurine) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// IsMaterial reports whether v names a known material.
func IsMaterial(v string) bool {
	return v == MaterialResin || v == MaterialGlassFiber
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
