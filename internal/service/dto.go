package service

import (
	"time"

	"sacra/internal/model"

	"github.com/shopspring/decimal"
)

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"
)

// EventPublisher pushes live events to connected dashboards.
type EventPublisher interface {
	Publish(event string, data interface{})
}

type FigurineResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Size        string          `json:"size"`
	Material    string          `json:"material"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	ImageRef    string          `json:"image_ref"`
	CreatedAt   string          `json:"created_at"`
}

type PaymentResponse struct {
	ID       string          `json:"id"`
	SaleID   string          `json:"sale_id"`
	Amount   decimal.Decimal `json:"amount"`
	PaidAt   string          `json:"paid_at"`
	ProofRef string          `json:"proof_ref,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

type SaleResponse struct {
	ID              string            `json:"id"`
	ContractNumber  *string           `json:"contract_number"`
	CustomerName    string            `json:"customer_name"`
	IDNumber        string            `json:"id_number"`
	Phone           string            `json:"phone"`
	Address         string            `json:"address"`
	Reference       string            `json:"reference"`
	FigurineID      string            `json:"figurine_id"`
	FigurineName    string            `json:"figurine_name,omitempty"`
	PaymentModality string            `json:"payment_modality"`
	ContractFileRef string            `json:"contract_file_ref,omitempty"`
	SoldAt          string            `json:"sold_at"`
	DueDate         string            `json:"due_date"`
	TotalDebt       decimal.Decimal   `json:"total_debt"`
	AmountPaid      decimal.Decimal   `json:"amount_paid"`
	Balance         decimal.Decimal   `json:"balance"`
	Status          string            `json:"status"`
	AgentID         string            `json:"agent_id,omitempty"`
	Payments        []PaymentResponse `json:"payments,omitempty"`
}

func toFigurineResponse(f model.Figurine) FigurineResponse {
	return FigurineResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Size:        f.Size,
		Material:    f.Material,
		Price:       f.Price,
		Stock:       f.Stock,
		Description: f.Description,
		ImageRef:    f.ImageRef,
		CreatedAt:   f.CreatedAt.Format(timeLayout),
	}
}

func toPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID.String(),
		SaleID:   p.SaleID.String(),
		Amount:   p.Amount,
		PaidAt:   p.PaidAt.Format(timeLayout),
		ProofRef: p.ProofRef,
		Notes:    p.Notes,
	}
}

func toSaleResponse(s model.Sale) SaleResponse {
	res := SaleResponse{
		ID:              s.ID.String(),
		ContractNumber:  s.ContractNumber,
		CustomerName:    s.CustomerName,
		IDNumber:        s.IDNumber,
		Phone:           s.Phone,
		Address:         s.Address,
		Reference:       s.Reference,
		FigurineID:      s.FigurineID.String(),
		PaymentModality: s.PaymentModality,
		ContractFileRef: s.ContractFileRef,
		SoldAt:          s.SoldAt.Format(timeLayout),
		DueDate:         s.DueDate.Format(dateLayout),
		TotalDebt:       s.TotalDebt,
		AmountPaid:      s.AmountPaid,
		Balance:         s.Balance(),
		Status:          s.Status,
	}
	if s.Figurine != nil {
		res.FigurineName = s.Figurine.Name
	}
	if s.AgentID != nil {
		res.AgentID = s.AgentID.String()
	}
	if len(s.Payments) > 0 {
		res.Payments = make([]PaymentResponse, 0, len(s.Payments))
		for _, p := range s.Payments {
			res.Payments = append(res.Payments, toPaymentResponse(p))
		}
	}
	return res
}
