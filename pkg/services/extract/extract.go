// Package extract recovers invoice summary fields and naive line items
// from OCR text. Matching is first-match-wins over a fixed pattern chain;
// every field independently degrades to nil when its pattern fails, so
// extraction never returns an error.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"invoice-scan/pkg/models"
)

var (
	// Label synonyms immediately followed by an alphanumeric token.
	invoiceNumberRe = regexp.MustCompile(`(?i)(?:invoice\s*(?:no|number|#)|inv\s*(?:no|#)|bill\s*no)[.:#\s]*([A-Za-z0-9][A-Za-z0-9\-/]*)`)

	// Numeric slash/dash/dot dates (d-m-y or y-m-d) and month-name forms.
	dateRe = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}` +
		`|\d{4}[/.\-]\d{1,2}[/.\-]\d{1,2}` +
		`|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{2,4}` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{2,4})\b`)

	// Total labels followed by a currency-like token. Word boundaries keep
	// "Subtotal" from matching the bare "total" synonym.
	totalRe = regexp.MustCompile(`(?i)\b(?:grand\s+total|amount\s+due|total)\b\s*[:\-]?\s*([$€£¥]?\s?\d[\d,]*(?:\.\d+)?)`)

	// A whitespace-separated token that looks like a quantity or amount.
	numericTokenRe = regexp.MustCompile(`^[$€£¥]?\d[\d,]*(?:\.\d+)?$`)

	// Header/footer lines that are unlikely to be item rows.
	skipLineRe = regexp.MustCompile(`(?i)\b(?:invoice|subtotal|total|amount\s+due|tax|date|bill\s+to|ship\s+to)\b`)
)

// Summary extracts vendor, invoice number, date, and total amount from OCR
// text. Absent fields are nil, never an error.
func Summary(text string) models.Fields {
	var fields models.Fields

	if v := vendorLine(text); v != "" {
		fields.Vendor = &v
	}
	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		n := m[1]
		fields.InvoiceNumber = &n
	}
	if d := dateRe.FindString(text); d != "" {
		fields.Date = &d
	}
	if m := totalRe.FindStringSubmatch(text); m != nil {
		fields.Total = parseAmount(m[1])
	}
	return fields
}

// vendorLine returns the first non-empty, non-numeric line of the text,
// commonly the letterhead. A line counts as numeric when it contains no
// letters at all.
func vendorLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ContainsFunc(line, unicode.IsLetter) {
			return line
		}
	}
	return ""
}

// Items splits the text into lines and keeps those that look like item
// rows: at least two numeric tokens, with the leading non-numeric portion
// as the description. The first numeric token is taken as the quantity,
// the last as the line total, and the one before the total (when present)
// as the unit price. Everything else is silently dropped.
func Items(text string) []models.LineItem {
	var items []models.LineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || skipLineRe.MatchString(line) {
			continue
		}

		tokens := strings.Fields(line)
		var descTokens []string
		var numeric []string
		for _, tok := range tokens {
			if numericTokenRe.MatchString(tok) {
				numeric = append(numeric, tok)
				continue
			}
			if len(numeric) == 0 {
				descTokens = append(descTokens, tok)
			}
		}
		if len(numeric) < 2 {
			continue
		}

		item := models.LineItem{
			Quantity:  parseAmount(numeric[0]),
			LineTotal: parseAmount(numeric[len(numeric)-1]),
		}
		if len(numeric) >= 3 {
			item.UnitPrice = parseAmount(numeric[len(numeric)-2])
		}
		if len(descTokens) > 0 {
			desc := strings.Join(descTokens, " ")
			item.Description = &desc
		}
		items = append(items, item)
	}
	return items
}

// parseAmount strips currency symbols and thousands separators and parses
// the remainder as a decimal. Unparsable input yields nil, not an error.
func parseAmount(tok string) *decimal.Decimal {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',', ' ':
			return -1
		}
		return r
	}, tok)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return nil
	}
	return &d
}
