package invoices

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	invoicesSheet = "Invoices"
	itemsSheet    = "Items"
	dateLayout    = "2006-01-02"
)

var (
	invoicesHeader = []any{"Number", "Customer ID", "Status", "Issued", "Due", "Total (cents)", "Total", "Notes"}
	itemsHeader    = []any{"Invoice", "Description", "Quantity", "Unit price (cents)", "Amount (cents)"}
)

// WriteSpreadsheet renders the invoices into an xlsx workbook with one
// sheet for invoices and one for their line items.
func WriteSpreadsheet(w io.Writer, invoices []*Invoice) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close invoices workbook: %s", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	if err := f.SetSheetRow(invoicesSheet, "A1", &invoicesHeader); err != nil {
		return err
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &itemsHeader); err != nil {
		return err
	}

	itemRow := 2
	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			inv.Number,
			inv.CustomerID,
			string(inv.Status),
			inv.IssuedAt.Format(dateLayout),
			inv.DueAt.Format(dateLayout),
			inv.TotalCents,
			FormatCents(inv.TotalCents),
			inv.Notes,
		}
		if err := f.SetSheetRow(invoicesSheet, cell, &row); err != nil {
			return fmt.Errorf("invoice %s row: %w", inv.Number, err)
		}

		for _, item := range inv.Items {
			cell, err := excelize.CoordinatesToCellName(1, itemRow)
			if err != nil {
				return err
			}
			row := []any{
				inv.Number,
				item.Description,
				item.Quantity,
				item.UnitPriceCents,
				int64(item.Quantity) * item.UnitPriceCents,
			}
			if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
				return fmt.Errorf("invoice %s item row: %w", inv.Number, err)
			}
			itemRow++
		}
	}

	if err := f.SetColWidth(invoicesSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(itemsSheet, "B", "B", 40); err != nil {
		return err
	}

	return f.Write(w)
}

// FormatCents renders an amount in cents as a decimal string, e.g. 12345 -> "123.45".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
