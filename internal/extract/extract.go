// Package extract turns raw document bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/askdoc-io/askdoc/internal/domain"
)

var pdfMagic = []byte("%PDF")

// Text extracts plain text from raw document bytes. PDF input is read page
// by page and concatenated with newlines; pages that fail extraction
// contribute empty text instead of aborting the document. Non-PDF input is
// treated as UTF-8 plain text.
func Text(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, pdfMagic) {
		return pdfText(raw)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("not valid UTF-8 text: %w", domain.ErrDocumentUnreadable)
	}
	return string(raw), nil
}

func pdfText(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w: %w", err, domain.ErrDocumentUnreadable)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		pages = append(pages, pageText(r, i))
	}
	return strings.Join(pages, "\n"), nil
}

// pageText extracts one page, recovering from panics: the pdf library panics
// on some malformed font tables, and a bad page must degrade to empty text.
func pageText(r *pdf.Reader, n int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
		}
	}()

	page := r.Page(n)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}
