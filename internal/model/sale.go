package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentModality constants
const (
	ModalityInPerson = "IN_PERSON"
	ModalityTransfer = "TRANSFER"
	ModalityCash     = "CASH"
)

// SaleStatus constants
const (
	SaleStatusPaid    = "PAID"
	SaleStatusPending = "PENDING"
	// Accepted on read, never assigned by the API.
	SaleStatusCancelledThisMonth = "CANCELLED_THIS_MONTH"
)

// Sale is an installment contract for a single figurine
type Sale struct {
	ID              uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	CustomerName    string          `gorm:"type:varchar(150);not null" json:"customer_name"`
	IDNumber        string          `gorm:"column:id_number;type:varchar(20);index" json:"id_number"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"` // E.164
	Address         string          `gorm:"type:varchar(255)" json:"address"`
	Reference       string          `gorm:"type:varchar(255)" json:"reference"`
	FigurineID      uuid.UUID       `gorm:"type:char(36);not null;index" json:"figurine_id"`
	Figurine        *Figurine       `gorm:"foreignKey:FigurineID" json:"figurine,omitempty"`
	ContractNumber  *string         `gorm:"type:varchar(50);uniqueIndex" json:"contract_number"`
	PaymentModality string          `gorm:"type:varchar(20);not null" json:"payment_modality"`
	ContractFileRef string          `gorm:"type:varchar(255)" json:"contract_file_ref"`
	SoldAt          time.Time       `gorm:"<-:create;not null;index" json:"sold_at"`
	TotalDebt       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_debt"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`
	DueDate         time.Time       `gorm:"type:date;not null" json:"due_date"`
	Status          string          `gorm:"type:varchar(30);not null;index" json:"status"`
	AgentID         *uuid.UUID      `gorm:"type:char(36);index" json:"agent_id"`
	Agent           *User           `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Payments        []Payment       `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Balance is what the customer still owes. Negative after an overpayment.
func (s Sale) Balance() decimal.Decimal {
	return s.TotalDebt.Sub(s.AmountPaid)
}

// IsModality reports whether v names a known payment modality.
func IsModality(v string) bool {
	switch v {
	case ModalityInPerson, ModalityTransfer, ModalityCash:
		return true
	}
	return false
}

// Payment is one partial payment ("abono") against a sale
type Payment struct {
	ID       uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	SaleID   uuid.UUID       `gorm:"type:char(36);not null;index" json:"sale_id"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaidAt   time.Time       `gorm:"<-:create;not null;index" json:"paid_at"`
	ProofRef string          `gorm:"type:varchar(255)" json:"proof_ref"`
	Notes    string          `gorm:"type:varchar(255)" json:"notes"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
