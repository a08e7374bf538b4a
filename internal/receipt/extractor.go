// Package receipt extracts merchant and total from receipt photos through
// an external OCR endpoint. The result seeds a draft directly, so OCR
// accuracy is the endpoint's concern, not ours.
package receipt

import (
	"context"
	"errors"
	"io"
)

// ErrUnavailable means no OCR backend is configured.
var ErrUnavailable = errors.New("receipt extraction unavailable")

// Extraction is what OCR recovered from one receipt image. Total is in
// whole soums; Merchant and RawText may be empty when unreadable.
type Extraction struct {
	Merchant string
	RawText  string
	Total    int64
}

// Extractor reads a receipt image into an Extraction.
type Extractor interface {
	Extract(ctx context.Context, image io.Reader, filename string) (Extraction, error)
}

// Disabled is the stub used when no OCR backend is configured.
type Disabled struct{}

// Extract always reports ErrUnavailable.
func (Disabled) Extract(_ context.Context, _ io.Reader, _ string) (Extraction, error) {
	return Extraction{}, ErrUnavailable
}
