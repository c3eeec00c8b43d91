package extract

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// extractSpreadsheet renders each sheet as a delimiter line followed by
// tab-joined rows. Missing cell values come through as empty strings. A
// sheet whose rows cannot be read is skipped; the workbook survives.
func extractSpreadsheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", zerrors.ExtractError("cannot open spreadsheet", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		b.WriteString("--- Sheet: ")
		b.WriteString(sheet)
		b.WriteString(" ---\n")

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}

	return b.String(), nil
}
