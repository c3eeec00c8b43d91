package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// extractPDF concatenates per-page text with newline separators. Pages
// whose extraction fails are skipped silently; losing an unparsable page
// beats losing the document.
func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files; turn that into a
	// typed error instead of taking down the host.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = zerrors.ExtractError("malformed PDF", nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", zerrors.ExtractError("cannot open PDF", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if pageText, ok := extractPDFPage(reader, i); ok {
			if pageText = strings.TrimSpace(pageText); pageText != "" {
				pages = append(pages, pageText)
			}
		}
	}

	return strings.Join(pages, "\n"), nil
}

// extractPDFPage extracts one page, absorbing both errors and panics.
func extractPDFPage(reader *pdf.Reader, n int) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", false
	}

	pageText, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return pageText, true
}
