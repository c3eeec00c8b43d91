package extract

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// extractPlainText decodes text bytes as UTF-8, falling back to Latin-1
// when the bytes are not valid UTF-8. The fallback maps every byte to a
// code point, so decoding is best-effort and never fails.
func extractPlainText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 decoding cannot fail, but keep the degraded path
		// explicit: replace invalid sequences rather than erroring.
		return string(data), nil
	}
	return string(decoded), nil
}
