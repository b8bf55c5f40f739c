// Package handlers wires the scan pipeline into HTTP routes: upload,
// spreadsheet/raw-text download, and the persisted scan listing.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoice-scan/pkg/models"
	"invoice-scan/pkg/services/extract"
	"invoice-scan/pkg/services/ocr"
	"invoice-scan/pkg/services/rasterize"
	"invoice-scan/pkg/services/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler holds the pipeline dependencies for the HTTP shell.
type Handler struct {
	db         *gorm.DB // nil disables persistence and the listing route
	recognizer *ocr.Recognizer
	logger     *slog.Logger
}

// New creates a handler. db may be nil when no DATABASE_URL is configured.
func New(db *gorm.DB, recognizer *ocr.Recognizer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{db: db, recognizer: recognizer, logger: logger}
}

// Register attaches the routes to the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.index)
	r.POST("/scan-invoice", h.scanInvoice)
	if h.db != nil {
		r.GET("/invoices", h.listInvoices)
	}
}

type lineItemJSON struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	LineTotal   *float64 `json:"line_total"`
}

type scanResponse struct {
	Vendor        *string        `json:"vendor"`
	InvoiceNumber *string        `json:"invoice_number"`
	Date          *string        `json:"invoice_date"`
	Total         *float64       `json:"total"`
	LineItems     []lineItemJSON `json:"line_items"`
	RawText       string         `json:"raw_text"`
}

// scanInvoice runs one upload through rasterize -> OCR -> extract and
// answers with the xlsx workbook (default), a JSON summary (?format=json),
// or the raw OCR text (?format=text). Rasterization and OCR failures abort
// the request with a user-visible message; extraction never fails.
func (h *Handler) scanInvoice(c *gin.Context) {
	file, err := c.FormFile("invoice")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'invoice' file field"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	kind, ok := rasterize.SniffKind(data)
	if !ok {
		kind, ok = kindFromName(file.Filename)
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unsupported file type, please upload a PDF, PNG, or JPEG invoice"})
		return
	}
	doc := models.Document{Name: file.Filename, Kind: kind, Data: data}

	pages, err := rasterize.Pages(doc)
	if err != nil {
		var rerr *rasterize.Error
		if errors.As(err, &rerr) {
			h.logger.Warn("rasterization failed", "file", doc.Name, "kind", doc.Kind, "error", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not read the uploaded file, please re-upload a valid PDF or image"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	text, err := h.recognizer.Text(c.Request.Context(), pages)
	if err != nil {
		h.logger.Error("ocr failed", "file", doc.Name, "pages", len(pages), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "OCR failed, please retry or check the OCR backend credentials and quota"})
		return
	}

	fields := extract.Summary(text)
	items := extract.Items(text)
	h.persist(c, doc, fields, items)

	switch c.Query("format") {
	case "json":
		c.JSON(http.StatusOK, toResponse(fields, items, text))
	case "text":
		c.Header("Content-Disposition", `attachment; filename="invoice_ocr.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
	default:
		out, err := report.Build(fields, items)
		if err != nil {
			h.logger.Error("report build failed", "file", doc.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build the spreadsheet"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
		c.Data(http.StatusOK, xlsxContentType, out)
	}
}

// persist stores the scan summary when a database is configured. Failures
// are logged, not surfaced; the report is still returned.
func (h *Handler) persist(c *gin.Context, doc models.Document, fields models.Fields, items []models.LineItem) {
	if h.db == nil {
		return
	}
	inv := models.Invoice{
		SourceFile:    doc.Name,
		VendorName:    derefString(fields.Vendor),
		InvoiceNumber: derefString(fields.InvoiceNumber),
		Date:          derefString(fields.Date),
		LineItemCount: len(items),
	}
	if fields.Total != nil {
		inv.TotalAmount, _ = fields.Total.Float64()
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&inv).Error; err != nil {
		h.logger.Error("failed to persist scan", "file", doc.Name, "error", err)
	}
}

func (h *Handler) listInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := h.db.WithContext(c.Request.Context()).Order("created_at desc").Find(&invoices).Error; err != nil {
		h.logger.Error("failed to list invoices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func toResponse(fields models.Fields, items []models.LineItem, text string) scanResponse {
	resp := scanResponse{
		Vendor:        fields.Vendor,
		InvoiceNumber: fields.InvoiceNumber,
		Date:          fields.Date,
		LineItems:     make([]lineItemJSON, 0, len(items)),
		RawText:       text,
	}
	if fields.Total != nil {
		f, _ := fields.Total.Float64()
		resp.Total = &f
	}
	for _, item := range items {
		resp.LineItems = append(resp.LineItems, lineItemJSON{
			Description: item.Description,
			Quantity:    floatPtr(item.Quantity),
			UnitPrice:   floatPtr(item.UnitPrice),
			LineTotal:   floatPtr(item.LineTotal),
		})
	}
	return resp
}

func kindFromName(name string) (models.Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return models.KindPDF, true
	case ".png":
		return models.KindPNG, true
	case ".jpg", ".jpeg":
		return models.KindJPEG, true
	}
	return "", false
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>Invoice OCR &rarr; Excel</title></head>
<body>
<h1>Basic Invoice OCR &rarr; Excel</h1>
<p>Upload a PDF or image invoice. The service will OCR it, extract basic
invoice fields and a naive line-item table, and return an Excel workbook.</p>
<form action="/scan-invoice" method="post" enctype="multipart/form-data">
  <input type="file" name="invoice" accept=".pdf,.png,.jpg,.jpeg" required>
  <button type="submit">Scan invoice</button>
</form>
</body>
</html>`
