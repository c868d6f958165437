package product

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/shopspring/decimal"
)

var ExportHeader = []string{
	"Name", "Description", "SKU", "Category", "Cost Price", "Selling Price",
	"Current Stock", "Min Stock Level", "Is Perishable", "Expiry Date",
}

var requiredImportColumns = []string{"name", "sku", "cost_price", "selling_price", "current_stock"}

// ExportCSV writes every product as one CSV row under ExportHeader.
func (s *Service) ExportCSV(ctx context.Context, actor *user.Actor, w io.Writer) error {
	if err := internal.RequireStaff(actor); err != nil {
		return err
	}

	rows, err := s.repo.All(ctx)
	if err != nil {
		return internal.NewInternalError("failed to load products", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		p := FromDataModel(row)
		if err := cw.Write(exportRecord(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.logger.Info("products exported", "count", len(rows), "actor_id", actor.ID)
	return nil
}

func exportRecord(p *Product) []string {
	perishable := "No"
	if p.IsPerishable {
		perishable = "Yes"
	}
	return []string{
		p.Name,
		p.Description,
		p.SKU,
		p.CategoryName,
		p.CostPrice.StringFixed(2),
		p.SellingPrice.StringFixed(2),
		strconv.Itoa(p.CurrentStock),
		strconv.Itoa(p.MinStockLevel),
		perishable,
		p.ExpiryString(),
	}
}

// ImportCSV creates one product per row. Each row commits on its own; rows that
// fail to parse or save are skipped and the import carries on.
func (s *Service) ImportCSV(ctx context.Context, actor *user.Actor, r io.Reader) (ImportResult, error) {
	var result ImportResult
	if err := internal.RequireStaff(actor); err != nil {
		return result, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return result, internal.NewValidationFieldError("csv_file", "The file is empty or is not a CSV file.", internal.ErrCodeInvalidFile)
	}
	columns := indexColumns(header)
	for _, name := range requiredImportColumns {
		if _, ok := columns[name]; !ok {
			return result, internal.NewValidationFieldError("csv_file", fmt.Sprintf("missing column %q", name), internal.ErrCodeInvalidFile)
		}
	}

	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			s.logger.Warn("skipping unreadable csv row", "line", line, "error", err)
			result.Skipped++
			continue
		}

		if err := s.importRow(ctx, actor, columns, record); err != nil {
			s.logger.Warn("skipping csv row", "line", line, "error", err)
			result.Skipped++
			continue
		}
		result.Imported++
	}

	s.logger.Info("products imported", "imported", result.Imported, "skipped", result.Skipped, "actor_id", actor.ID)
	return result, nil
}

func (s *Service) importRow(ctx context.Context, actor *user.Actor, columns map[string]int, record []string) error {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	p := NewProduct(field("name"), field("sku"), actor.ID)
	if p.Name == "" || p.SKU == "" {
		return errors.New("name and sku are required")
	}
	p.Description = field("description")

	var err error
	if p.CostPrice, err = decimal.NewFromString(field("cost_price")); err != nil {
		return fmt.Errorf("cost_price: %w", err)
	}
	if p.SellingPrice, err = decimal.NewFromString(field("selling_price")); err != nil {
		return fmt.Errorf("selling_price: %w", err)
	}
	if p.CurrentStock, err = strconv.Atoi(field("current_stock")); err != nil {
		return fmt.Errorf("current_stock: %w", err)
	}
	if raw := field("min_stock_level"); raw != "" {
		if p.MinStockLevel, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("min_stock_level: %w", err)
		}
	}
	if p.CostPrice.IsNegative() || p.SellingPrice.IsNegative() || p.CurrentStock < 0 || p.MinStockLevel < 0 {
		return errors.New("prices and stock levels must not be negative")
	}
	p.IsPerishable = strings.EqualFold(field("is_perishable"), "yes")
	if p.ExpiryDate, err = ParseDate(field("expiry_date")); err != nil {
		return fmt.Errorf("expiry_date: %w", err)
	}

	categoryName := field("category")
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetBySKU(txCtx, p.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("sku %q already exists", p.SKU)
		}
		if categoryName != "" {
			cat, err := s.categories.GetOrCreate(txCtx, categoryName)
			if err != nil {
				return err
			}
			p.CategoryID = &cat.ID
		}
		return s.repo.Create(txCtx, ToDataModel(p), nil)
	})
}

// indexColumns maps normalised header names ("Cost Price" -> "cost_price") to their position.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	return columns
}
