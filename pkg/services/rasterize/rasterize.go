// Package rasterize converts an uploaded document into an ordered list of
// page images. PDF pages are rendered through MuPDF; native image uploads
// pass through unchanged after a decode check.
package rasterize

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"invoice-scan/pkg/models"
)

// RenderDPI is the fixed resolution for rendering PDF pages. 144 dpi is a
// 2x zoom over the 72 dpi PDF user-space default.
const RenderDPI = 144.0

// Error reports an upload whose bytes could not be parsed as the declared
// kind (corrupt file, wrong extension). It must reach the user as a
// re-upload message.
type Error struct {
	Kind models.Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rasterize %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SniffKind inspects magic bytes and reports the detected document kind.
func SniffKind(data []byte) (models.Kind, bool) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return models.KindPDF, true
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return models.KindPNG, true
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return models.KindJPEG, true
	}
	return "", false
}

// Pages produces one page image per PDF page, or a single element holding
// the unmodified upload for native image kinds.
func Pages(doc models.Document) ([]models.PageImage, error) {
	switch doc.Kind {
	case models.KindPDF:
		return pdfPages(doc.Data)
	case models.KindPNG, models.KindJPEG:
		if _, err := imaging.Decode(bytes.NewReader(doc.Data)); err != nil {
			return nil, &Error{Kind: doc.Kind, Err: fmt.Errorf("decode image: %w", err)}
		}
		return []models.PageImage{{Index: 0, Data: doc.Data}}, nil
	default:
		return nil, &Error{Kind: doc.Kind, Err: fmt.Errorf("unsupported document kind")}
	}
}

func pdfPages(data []byte) ([]models.PageImage, error) {
	d, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &Error{Kind: models.KindPDF, Err: fmt.Errorf("open pdf: %w", err)}
	}
	defer d.Close()

	pages := make([]models.PageImage, 0, d.NumPage())
	for i := 0; i < d.NumPage(); i++ {
		png, err := d.ImagePNG(i, RenderDPI)
		if err != nil {
			return nil, &Error{Kind: models.KindPDF, Err: fmt.Errorf("render page %d: %w", i+1, err)}
		}
		pages = append(pages, models.PageImage{Index: i, Data: png})
	}
	return pages, nil
}
