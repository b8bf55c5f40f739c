package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"invoice-scan/pkg/models"
)

// TesseractEngine recognizes text with a locally installed Tesseract via
// the gosseract client. A fresh client is created per call; the bindings
// are not safe for reuse across images.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseractEngine constructs a Tesseract-backed engine. languages are
// trained-data names such as "eng"; empty defaults to "eng".
func NewTesseractEngine(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{clientFactory: gosseract.NewClient, languages: languages}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single page image. The native call cannot be
// interrupted, so the context is only checked up front.
func (e *TesseractEngine) Recognize(ctx context.Context, page models.PageImage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(page.Data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
