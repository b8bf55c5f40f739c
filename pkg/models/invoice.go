package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kind identifies the content type of an uploaded document.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindPNG  Kind = "png"
	KindJPEG Kind = "jpeg"
)

// Document is one uploaded invoice. It is immutable for the duration of a
// single scan request.
type Document struct {
	Name string
	Kind Kind
	Data []byte
}

// PageImage is a single rasterized page in encoded (PNG or JPEG) form.
// Index is the zero-based page position within the source document.
type PageImage struct {
	Index int
	Data  []byte
}

// Fields holds the summary values recovered from OCR text. Every field is
// optional; nil means the matching heuristic found nothing, which is an
// expected outcome rather than an error.
type Fields struct {
	Vendor        *string
	InvoiceNumber *string
	Date          *string
	Total         *decimal.Decimal
}

// LineItem is one row of the naive itemized breakdown. All fields are
// best-effort and may be nil.
type LineItem struct {
	Description *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	LineTotal   *decimal.Decimal
}

// Invoice is the persisted summary of one processed upload.
type Invoice struct {
	gorm.Model
	SourceFile    string
	VendorName    string
	InvoiceNumber string
	Date          string
	TotalAmount   float64
	LineItemCount int
}
