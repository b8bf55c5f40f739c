// Package ocr recognizes printed text in page images behind a single
// engine interface. Two backends satisfy it: a local Tesseract engine and
// the Azure Computer Vision API. Callers depend only on Engine, never on
// backend-specific types.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invoice-scan/pkg/models"
)

// PageSeparator joins per-page results so downstream heuristics can still
// detect page boundaries.
const PageSeparator = "\n\n"

// Error reports an OCR backend failure: engine unreachable, authentication
// or quota rejection, or a per-call timeout. It is fatal for the current
// document; there is no partial-result fallback.
type Error struct {
	Engine string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ocr (%s): %v", e.Engine, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Engine recognizes printed text in a single page image. The returned text
// may be empty, never an error by itself.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, page models.PageImage) (string, error)
}

// Recognizer runs an engine over every page of a document in order and
// joins the results.
type Recognizer struct {
	engine  Engine
	timeout time.Duration
	enhance bool
	logger  *slog.Logger
}

// NewRecognizer wraps an engine with a per-call timeout and optional image
// pre-enhancement. A zero timeout disables the bound.
func NewRecognizer(engine Engine, timeout time.Duration, enhance bool, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{engine: engine, timeout: timeout, enhance: enhance, logger: logger}
}

// Text recognizes every page in order and joins the per-page output with
// PageSeparator. Any backend failure aborts the whole document with *Error.
func (r *Recognizer) Text(ctx context.Context, pages []models.PageImage) (string, error) {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		if r.enhance {
			if data, err := EnhanceForOCR(page.Data); err == nil {
				page.Data = data
			} else {
				r.logger.Warn("image enhancement failed, using original page",
					"page", page.Index+1, "error", err)
			}
		}

		text, err := r.recognizePage(ctx, page)
		if err != nil {
			return "", &Error{Engine: r.engine.Name(), Err: fmt.Errorf("page %d: %w", page.Index+1, err)}
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, PageSeparator), nil
}

func (r *Recognizer) recognizePage(ctx context.Context, page models.PageImage) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.engine.Recognize(ctx, page)
}
