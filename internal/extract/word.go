package extract

import (
	"bytes"
	"strings"

	docx "github.com/fumiama/go-docx"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// extractWord concatenates paragraph texts, then non-empty table cell
// texts, each as its own line. Legacy binary .doc files are not valid
// OOXML archives and fail the parse with a typed error.
func extractWord(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", zerrors.ExtractError("cannot parse Word document", err)
	}

	var lines []string
	var tables []*docx.Table

	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if s := strings.TrimSpace(it.String()); s != "" {
				lines = append(lines, s)
			}
		case *docx.Table:
			tables = append(tables, it)
		}
	}

	for _, tbl := range tables {
		for _, row := range tbl.TableRows {
			for _, cell := range row.TableCells {
				for _, p := range cell.Paragraphs {
					if s := strings.TrimSpace(p.String()); s != "" {
						lines = append(lines, s)
					}
				}
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
