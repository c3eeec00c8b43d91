package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
	}{
		{"config code", ErrCodeConfigInvalid, CategoryConfig},
		{"extract code", ErrCodeExtractEmpty, CategoryExtract},
		{"network code", ErrCodeVisionTimeout, CategoryNetwork},
		{"validation code", ErrCodeInvalidNamespace, CategoryValidation},
		{"index code", ErrCodeIndexWrite, CategoryIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := New(ErrCodeIndexWrite, "disk full", nil)
	assert.Equal(t, "[ERR_502_INDEX_WRITE] disk full", err.Error())
}

func TestIs_MatchesByCode(t *testing.T) {
	err := ExtractEmpty("scan.pdf")

	assert.True(t, stderrors.Is(err, New(ErrCodeExtractEmpty, "", nil)))
	assert.False(t, stderrors.Is(err, New(ErrCodeExtractFailed, "", nil)))
}

func TestUnwrap_ExposesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(ErrCodeIndexRead, fmt.Errorf("load index: %w", cause))

	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilIsNil(t *testing.T) {
	var got *IndexError = Wrap(ErrCodeIndexRead, nil)
	assert.Nil(t, got)
}

func TestIsExtractEmpty(t *testing.T) {
	assert.True(t, IsExtractEmpty(ExtractEmpty("a.txt")))
	assert.False(t, IsExtractEmpty(ExtractError("bad pdf", nil)))
	assert.False(t, IsExtractEmpty(stderrors.New("plain")))
	assert.False(t, IsExtractEmpty(nil))
}

func TestIsRetryable_VisionErrors(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeVisionTimeout, "timeout", nil)))
	assert.True(t, IsRetryable(New(ErrCodeVisionFailed, "502", nil)))
	assert.False(t, IsRetryable(New(ErrCodeExtractEmpty, "empty", nil)))
	assert.False(t, IsRetryable(nil))
}

func TestWithDetail_Chains(t *testing.T) {
	err := ExtractEmpty("a.txt").WithDetail("namespace", "user-1")

	require.NotNil(t, err.Details)
	assert.Equal(t, "a.txt", err.Details["filename"])
	assert.Equal(t, "user-1", err.Details["namespace"])
}

func TestRetryWithResult_SucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2.0}

	calls := 0
	got, err := RetryWithResult(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryWithResult_ExhaustsRetries(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1.0}

	_, err := RetryWithResult(context.Background(), cfg, func() (int, error) {
		return 0, fmt.Errorf("always fails")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 1 retries")
}

func TestRetryWithResult_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryWithResult(ctx, DefaultRetryConfig(), func() (int, error) {
		return 0, fmt.Errorf("should not matter")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
