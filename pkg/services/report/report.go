// Package report serializes extraction results into a two-sheet xlsx
// workbook. Output is deterministic: identical inputs produce identical
// bytes, with no embedded timestamps.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"invoice-scan/pkg/models"
)

// Fixed sheet names of the generated workbook.
const (
	SummarySheet   = "Summary"
	LineItemsSheet = "LineItems"
)

// Filename is the suggested download name for the workbook.
const Filename = "invoice_extraction.xlsx"

var (
	summaryHeader   = []interface{}{"Vendor", "Invoice Number", "Date", "Total Amount"}
	lineItemsHeader = []interface{}{"Description", "Quantity", "Unit Price", "Line Total"}
)

// Build assembles the Summary sheet (exactly one data row, nil fields left
// blank) and the LineItems sheet (zero or more rows; zero leaves a valid
// header-only sheet) and returns the serialized workbook.
func Build(fields models.Fields, items []models.LineItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(LineItemsSheet); err != nil {
		return nil, fmt.Errorf("create line items sheet: %w", err)
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return nil, fmt.Errorf("write summary header: %w", err)
	}
	summaryRow := []interface{}{
		cellString(fields.Vendor),
		cellString(fields.InvoiceNumber),
		cellString(fields.Date),
		cellDecimal(fields.Total),
	}
	if err := f.SetSheetRow(SummarySheet, "A2", &summaryRow); err != nil {
		return nil, fmt.Errorf("write summary row: %w", err)
	}

	if err := f.SetSheetRow(LineItemsSheet, "A1", &lineItemsHeader); err != nil {
		return nil, fmt.Errorf("write line items header: %w", err)
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("line item row %d: %w", i+1, err)
		}
		row := []interface{}{
			cellString(item.Description),
			cellDecimal(item.Quantity),
			cellDecimal(item.UnitPrice),
			cellDecimal(item.LineTotal),
		}
		if err := f.SetSheetRow(LineItemsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write line item row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellString renders an optional string; nil stays a blank cell.
func cellString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// cellDecimal renders an optional amount; nil stays a blank cell, never
// zero.
func cellDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}
