// Package doctext turns uploaded offer documents into plain text. The
// extraction core consumes text only; when nothing extractable comes out, the
// core is never invoked.
package doctext

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/prokura/procure-backend/constants"
)

var (
	// ErrNoText means the document produced no extractable text, e.g. a
	// scanned PDF without a text layer.
	ErrNoText = errors.New("document has no extractable text")
	// ErrUnsupportedFormat means the file extension is not a supported offer type.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// FromFile picks a strategy based on file extension.
func FromFile(path string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch ext {
	case "txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			return "", ErrNoText
		}
		return text, nil
	case "pdf":
		return fromPDF(path, logger)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// fromPDF concatenates per-page text with blank-line separators.
func fromPDF(path string, logger *slog.Logger) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil {
			logger.Warn("doctext.close_error", "path", path, "error", cErr)
		}
	}()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			logger.Warn("doctext.page_failed", "path", path, "page", i, "error", err)
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}

	out := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if out == "" {
		return "", ErrNoText
	}
	logger.Debug("doctext.pdf_ok", "path", path, "pages", len(pages), "text_len", len(out))
	return out, nil
}
