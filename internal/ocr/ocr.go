// Package ocr extracts text from images through a two-stage fallback
// chain: a local tesseract engine first, then a remote vision model.
// Either stage may legitimately return empty text; that is not an error,
// it means the image holds no legible text.
package ocr

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Engine turns image bytes into plain text. Implementations return the
// recognized text with no structured metadata; empty output is valid.
type Engine interface {
	Text(ctx context.Context, image []byte) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, image []byte) (string, error)

// Text implements Engine.
func (f EngineFunc) Text(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// Chain runs the local engine and falls back to the remote one when the
// local stage is unavailable or produces near-empty output. Stage
// failures degrade rather than propagate: the chain only errors when the
// caller's context is done.
type Chain struct {
	local    Engine
	remote   Engine
	minChars int
}

// NewChain builds an OCR chain. Either engine may be nil, in which case
// that stage is skipped. minChars is the threshold under which local
// output counts as near-empty.
func NewChain(local, remote Engine, minChars int) *Chain {
	return &Chain{local: local, remote: remote, minChars: minChars}
}

// Text implements Engine over the full chain.
func (c *Chain) Text(ctx context.Context, image []byte) (string, error) {
	var localText string
	if c.local != nil {
		text, err := c.local.Text(ctx, image)
		if err != nil {
			slog.Warn("local_ocr_failed", slog.String("error", err.Error()))
		} else {
			localText = strings.TrimSpace(text)
		}
	}

	if utf8.RuneCountInString(localText) >= c.minChars {
		return localText, nil
	}

	if c.remote != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := c.remote.Text(ctx, image)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Warn("vision_ocr_failed", slog.String("error", err.Error()))
			return localText, nil
		}
		if remoteText := strings.TrimSpace(text); remoteText != "" {
			return remoteText, nil
		}
	}

	return localText, nil
}
