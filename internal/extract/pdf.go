// Package extract converts uploaded PDF bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Text extracts the plain text of every page, joined by newlines.
// A parse failure returns domain.ErrExtraction wrapping the cause; a parsable
// document with no extractable text (e.g. a scan without an OCR layer)
// returns domain.ErrEmptyDocument. The two are distinct so callers can give
// distinct feedback.
func Text(data []byte) (string, error) {
	pages, err := pageTexts(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}

// pageTexts reads per-page text. The pdf package panics on some malformed
// cross-reference tables, so parsing runs under recover.
func pageTexts(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not void the document.
			continue
		}
		pages = append(pages, content)
	}

	return pages, nil
}
