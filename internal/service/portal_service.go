package service

import (
	"context"
	"fmt"
	"strings"

	"sacra/internal/repository"
)

const NoActiveContractMessage = "no active contract"

// PortalView is what a customer sees after signing in. Contract is the
// oldest sale for their id-number; Contracts lists all of them.
type PortalView struct {
	Found     bool           `json:"found"`
	Message   string         `json:"message,omitempty"`
	Contract  *SaleResponse  `json:"contract,omitempty"`
	Contracts []SaleResponse `json:"contracts"`
}

type PortalService interface {
	GetContract(ctx context.Context, idNumber string) (PortalView, error)
}

type portalService struct {
	saleRepo repository.SaleRepository
}

func NewPortalService(saleRepo repository.SaleRepository) PortalService {
	return &portalService{saleRepo: saleRepo}
}

func (s *portalService) GetContract(ctx context.Context, idNumber string) (PortalView, error) {
	idNumber = strings.TrimSpace(idNumber)
	if idNumber == "" {
		return PortalView{Found: false, Message: NoActiveContractMessage, Contracts: []SaleResponse{}}, nil
	}

	sales, err := s.saleRepo.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return PortalView{}, fmt.Errorf("failed to look up contracts: %w", err)
	}
	if len(sales) == 0 {
		return PortalView{Found: false, Message: NoActiveContractMessage, Contracts: []SaleResponse{}}, nil
	}

	view := PortalView{Found: true, Contracts: make([]SaleResponse, 0, len(sales))}
	for _, sale := range sales {
		view.Contracts = append(view.Contracts, toSaleResponse(sale))
	}
	view.Contract = &view.Contracts[0]
	return view, nil
}
