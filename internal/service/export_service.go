package service

import (
	"context"
	"fmt"
	"io"

	"sacra/internal/repository"

	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

var salesHeader = []interface{}{
	"Contract", "Customer", "ID number", "Phone", "Figurine", "Sold at", "Due date",
	"Total debt", "Amount paid", "Balance", "Status",
}

type ExportService interface {
	// ExportSales writes every sale as an .xlsx workbook to w.
	ExportSales(ctx context.Context, w io.Writer) error
}

type exportService struct {
	saleRepo repository.SaleRepository
}

func NewExportService(saleRepo repository.SaleRepository) ExportService {
	return &exportService{saleRepo: saleRepo}
}

func (s *exportService) ExportSales(ctx context.Context, w io.Writer) error {
	sales, err := s.saleRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sales: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(salesSheet, "A1", &salesHeader); err != nil {
		return err
	}

	for i, sale := range sales {
		contract := ""
		if sale.ContractNumber != nil {
			contract = *sale.ContractNumber
		}
		figurine := ""
		if sale.Figurine != nil {
			figurine = sale.Figurine.Name
		}
		row := []interface{}{
			contract,
			sale.CustomerName,
			sale.IDNumber,
			sale.Phone,
			figurine,
			sale.SoldAt.Format("2006-01-02 15:04"),
			sale.DueDate.Format(dateLayout),
			sale.TotalDebt.InexactFloat64(),
			sale.AmountPaid.InexactFloat64(),
			sale.Balance().InexactFloat64(),
			sale.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(salesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
