package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoice-scan/pkg/models"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleFields() models.Fields {
	return models.Fields{
		Vendor:        strPtr("ACME CORP"),
		InvoiceNumber: strPtr("INV-100"),
		Date:          strPtr("2024-01-05"),
		Total:         decPtr("123.45"),
	}
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBuild_SummarySheet(t *testing.T) {
	out, err := Build(sampleFields(), nil)
	require.NoError(t, err)

	f := open(t, out)
	assert.Equal(t, []string{SummarySheet, LineItemsSheet}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Vendor", "Invoice Number", "Date", "Total Amount"}, rows[0])
	assert.Equal(t, []string{"ACME CORP", "INV-100", "2024-01-05", "123.45"}, rows[1])
}

func TestBuild_AbsentFieldsLeaveBlankCells(t *testing.T) {
	out, err := Build(models.Fields{}, nil)
	require.NoError(t, err)

	f := open(t, out)
	for _, cell := range []string{"A2", "B2", "C2", "D2"} {
		v, err := f.GetCellValue(SummarySheet, cell)
		require.NoError(t, err)
		assert.Empty(t, v, "cell %s", cell)
	}
}

func TestBuild_MissingTotalIsBlankNotZero(t *testing.T) {
	fields := sampleFields()
	fields.Total = nil
	out, err := Build(fields, nil)
	require.NoError(t, err)

	f := open(t, out)
	v, err := f.GetCellValue(SummarySheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestBuild_LineItems(t *testing.T) {
	items := []models.LineItem{
		{Description: strPtr("Widget A"), Quantity: decPtr("2"), UnitPrice: decPtr("10"), LineTotal: decPtr("20")},
		{Description: strPtr("Gadget"), Quantity: decPtr("1"), LineTotal: decPtr("5.5")},
	}
	out, err := Build(sampleFields(), items)
	require.NoError(t, err)

	f := open(t, out)
	rows, err := f.GetRows(LineItemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Description", "Quantity", "Unit Price", "Line Total"}, rows[0])
	assert.Equal(t, []string{"Widget A", "2", "10", "20"}, rows[1])

	// Missing unit price leaves C3 blank.
	assert.Equal(t, "Gadget", rows[2][0])
	unit, err := f.GetCellValue(LineItemsSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "", unit)
}

func TestBuild_NoItemsYieldsHeaderOnlySheet(t *testing.T) {
	out, err := Build(sampleFields(), nil)
	require.NoError(t, err)

	f := open(t, out)
	rows, err := f.GetRows(LineItemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Description", "Quantity", "Unit Price", "Line Total"}, rows[0])
}

func TestBuild_Deterministic(t *testing.T) {
	items := []models.LineItem{
		{Description: strPtr("Widget A"), Quantity: decPtr("2"), UnitPrice: decPtr("10"), LineTotal: decPtr("20")},
	}
	first, err := Build(sampleFields(), items)
	require.NoError(t, err)
	second, err := Build(sampleFields(), items)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "identical inputs must produce identical bytes")
}
