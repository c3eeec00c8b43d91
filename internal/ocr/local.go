package ocr

import (
	"bytes"
	"context"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// binarizeCutoff separates dark glyphs from light background after the
// grayscale/contrast pass.
const binarizeCutoff = 128

// TesseractEngine runs the local tesseract OCR engine with an image
// preprocessing step (grayscale, contrast, threshold) and automatic
// rotation correction: if the upright pass yields fewer than minChars
// characters, the image is retried at 90, 180, and 270 degrees and the
// longest output wins.
type TesseractEngine struct {
	languages []string
	minChars  int
}

// NewTesseractEngine creates a local OCR engine for the given languages
// (tesseract language codes, e.g. "eng", "spa").
func NewTesseractEngine(languages []string, minChars int) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{languages: languages, minChars: minChars}
}

// Text implements Engine.
func (e *TesseractEngine) Text(ctx context.Context, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", zerrors.ExtractError("cannot decode image", err)
	}

	prepped := preprocess(img)

	best, err := e.recognize(prepped)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(strings.TrimSpace(best)) >= e.minChars {
		return best, nil
	}

	// Near-empty output often means the photo is sideways or upside
	// down: retry each rotation and keep the longest result.
	rotations := []func(image.Image) *image.NRGBA{
		imaging.Rotate90,
		imaging.Rotate180,
		imaging.Rotate270,
	}
	for _, rotate := range rotations {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := e.recognize(rotate(prepped))
		if err != nil {
			continue
		}
		if len(strings.TrimSpace(text)) > len(strings.TrimSpace(best)) {
			best = text
		}
	}

	return strings.TrimSpace(best), nil
}

// recognize runs one tesseract pass over the prepared image.
func (e *TesseractEngine) recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", zerrors.ExtractError("cannot encode preprocessed image", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", zerrors.New(zerrors.ErrCodeOCRUnavailable, "cannot set OCR language", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", zerrors.New(zerrors.ErrCodeOCRUnavailable, "cannot load image into OCR engine", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", zerrors.New(zerrors.ErrCodeOCRUnavailable, "OCR recognition failed", err)
	}
	return text, nil
}

// preprocess boosts glyph/background separation before recognition:
// grayscale, contrast stretch, then a hard threshold.
func preprocess(img image.Image) *image.NRGBA {
	out := imaging.AdjustContrast(imaging.Grayscale(img), 20)

	bounds := out.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := out.PixOffset(x, y)
			v := uint8(0)
			if out.Pix[i] >= binarizeCutoff {
				v = 255
			}
			out.Pix[i] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
		}
	}
	return out
}
