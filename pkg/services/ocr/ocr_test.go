package ocr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-scan/pkg/models"
)

// stubEngine fakes a backend with per-page canned text, an optional error,
// and an optional artificial delay for timeout tests.
type stubEngine struct {
	texts map[int]string
	err   error
	delay time.Duration
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(ctx context.Context, page models.PageImage) (string, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.texts[page.Index], nil
}

func pages(n int) []models.PageImage {
	out := make([]models.PageImage, n)
	for i := range out {
		out[i] = models.PageImage{Index: i, Data: []byte{0x01}}
	}
	return out
}

func TestRecognizer_JoinsPagesInOrder(t *testing.T) {
	engine := &stubEngine{texts: map[int]string{0: "page one", 1: "page two", 2: "page three"}}
	r := NewRecognizer(engine, 0, false, nil)

	text, err := r.Text(context.Background(), pages(3))
	require.NoError(t, err)
	assert.Equal(t, "page one"+PageSeparator+"page two"+PageSeparator+"page three", text)
}

func TestRecognizer_EmptyTextIsNotAnError(t *testing.T) {
	engine := &stubEngine{texts: map[int]string{}}
	r := NewRecognizer(engine, 0, false, nil)

	text, err := r.Text(context.Background(), pages(1))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestRecognizer_NoPages(t *testing.T) {
	r := NewRecognizer(&stubEngine{}, 0, false, nil)
	text, err := r.Text(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestRecognizer_WrapsBackendFailure(t *testing.T) {
	backendErr := fmt.Errorf("service unavailable")
	engine := &stubEngine{err: backendErr}
	r := NewRecognizer(engine, 0, false, nil)

	_, err := r.Text(context.Background(), pages(2))
	var ocrErr *Error
	require.ErrorAs(t, err, &ocrErr)
	assert.Equal(t, "stub", ocrErr.Engine)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "page 1")
}

func TestRecognizer_Timeout(t *testing.T) {
	engine := &stubEngine{texts: map[int]string{0: "never"}, delay: 200 * time.Millisecond}
	r := NewRecognizer(engine, 10*time.Millisecond, false, nil)

	_, err := r.Text(context.Background(), pages(1))
	var ocrErr *Error
	require.ErrorAs(t, err, &ocrErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
