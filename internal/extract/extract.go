// Package extract converts raw document bytes into plain text. One
// extractor exists per supported format; dispatch is by filename
// extension over a closed format set, with Unsupported as an explicit
// terminal case.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
	"github.com/zero-assistant/zeroindex/internal/ocr"
)

// Format identifies a supported document family.
type Format int

const (
	FormatUnsupported Format = iota
	FormatPDF
	FormatWord
	FormatPresentation
	FormatSpreadsheet
	FormatPlainText
	FormatImage
)

// String returns the format name for logging.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatWord:
		return "word"
	case FormatPresentation:
		return "presentation"
	case FormatSpreadsheet:
		return "spreadsheet"
	case FormatPlainText:
		return "text"
	case FormatImage:
		return "image"
	default:
		return "unsupported"
	}
}

// formatByExtension maps lowercase filename extensions to formats.
var formatByExtension = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatWord,
	".doc":  FormatWord,
	".pptx": FormatPresentation,
	".xlsx": FormatSpreadsheet,
	".xlsm": FormatSpreadsheet,
	".xls":  FormatSpreadsheet,
	".txt":  FormatPlainText,
	".md":   FormatPlainText,
	".csv":  FormatPlainText,
	".json": FormatPlainText,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".png":  FormatImage,
	".gif":  FormatImage,
	".bmp":  FormatImage,
	".webp": FormatImage,
	".tif":  FormatImage,
	".tiff": FormatImage,
}

// DetectFormat returns the format for a filename, or FormatUnsupported.
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := formatByExtension[ext]; ok {
		return f
	}
	return FormatUnsupported
}

// IsSupported reports whether the filename maps to a known format.
func IsSupported(filename string) bool {
	return DetectFormat(filename) != FormatUnsupported
}

// Extractor converts documents of any supported format into text.
type Extractor struct {
	ocr ocr.Engine
}

// New creates an Extractor. ocrEngine may be nil, in which case image
// files fail with a typed OCR-unavailable error.
func New(ocrEngine ocr.Engine) *Extractor {
	return &Extractor{ocr: ocrEngine}
}

// Extract converts raw file bytes into a single plain-text string.
// Partial failures inside a document (a bad PDF page, an unparsable
// slide) are absorbed; only a totally empty result escalates, as the
// ExtractEmpty error every caller must treat as a hard per-document
// failure.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch DetectFormat(filename) {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatWord:
		text, err = extractWord(data)
	case FormatPresentation:
		text, err = extractPresentation(data)
	case FormatSpreadsheet:
		text, err = extractSpreadsheet(data)
	case FormatPlainText:
		text, err = extractPlainText(data)
	case FormatImage:
		text, err = e.extractImage(ctx, data)
	default:
		return "", zerrors.UnsupportedFormat(filename)
	}

	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", zerrors.ExtractEmpty(filename)
	}
	return text, nil
}

// extractImage runs the OCR chain; the chain itself handles local and
// remote fallback, so any text (or lack of it) at this point is final.
func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	if e.ocr == nil {
		return "", zerrors.New(zerrors.ErrCodeOCRUnavailable,
			"image ingestion requires an OCR engine", nil)
	}
	return e.ocr.Text(ctx, data)
}
