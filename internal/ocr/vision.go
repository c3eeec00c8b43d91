package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// visionPrompt instructs the model to behave as a plain OCR engine.
const visionPrompt = "Extract all legible text from this image. " +
	"Respond with the extracted text only, no commentary or description. " +
	"If the image contains no legible text, respond with nothing."

// VisionEngine extracts text via a vision-capable chat model over an
// OpenAI-compatible API. Calls are bounded by a timeout and retried on
// transient failures; persistent failure surfaces as a retryable typed
// error which the chain degrades to empty text.
type VisionEngine struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	retry   zerrors.RetryConfig
}

// NewVisionEngine creates the remote OCR fallback. baseURL may be empty
// for the default API endpoint.
func NewVisionEngine(apiKey, baseURL, model string, timeout time.Duration) (*VisionEngine, error) {
	if apiKey == "" {
		return nil, errors.New("vision OCR requires an API key")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &VisionEngine{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		retry:   zerrors.DefaultRetryConfig(),
	}, nil
}

// Text implements Engine.
func (e *VisionEngine) Text(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	dataURL := "data:" + http.DetectContentType(image) + ";base64," +
		base64.StdEncoding.EncodeToString(image)

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   1024,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPrompt,
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	}

	resp, err := zerrors.RetryWithResult(ctx, e.retry, func() (openai.ChatCompletionResponse, error) {
		return e.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", zerrors.New(zerrors.ErrCodeVisionTimeout, "vision OCR timed out", err)
		}
		return "", zerrors.New(zerrors.ErrCodeVisionFailed, "vision OCR call failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
