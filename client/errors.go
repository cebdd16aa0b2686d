package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/famomatic/ytplay/internal/credentials"
	"github.com/famomatic/ytplay/internal/link"
)

var (
	// ErrInvalidInput indicates malformed input (not a video, playlist or query).
	ErrInvalidInput = link.ErrInvalidInput
	// ErrNoResults indicates the metadata search returned nothing usable.
	ErrNoResults = errors.New("no search results")
	// ErrNoSuitableRendition indicates no rendition matched the selection chain.
	ErrNoSuitableRendition = errors.New("no suitable stream found")
	// ErrCredentialPoolEmpty indicates the credential pool has no bundles.
	ErrCredentialPoolEmpty = credentials.ErrNoCredentialsAvailable
	// ErrTranscoderNotConfigured indicates audio needs re-encoding but no transcoder is set.
	ErrTranscoderNotConfigured = errors.New("transcoder not configured")
)

// InvalidInputDetailError carries why an input was rejected.
type InvalidInputDetailError struct {
	Input  string
	Reason string
}

func (e *InvalidInputDetailError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

func (e *InvalidInputDetailError) Unwrap() error { return ErrInvalidInput }

// ProviderError wraps a failure reported by an external provider.
type ProviderError struct {
	Provider string // "search", "stream" or "playlist"
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TranscodeError wraps a transcoder failure.
type TranscodeError struct {
	Input  string
	Output string
	Err    error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode %s -> %s: %v", e.Input, e.Output, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// ErrorCategory is a coarse classification of errors returned by Client.
type ErrorCategory string

const (
	ErrorCategoryNone                    ErrorCategory = ""
	ErrorCategoryInvalidInput            ErrorCategory = "invalid_input"
	ErrorCategoryNoResults               ErrorCategory = "no_results"
	ErrorCategoryNoSuitableRendition     ErrorCategory = "no_suitable_rendition"
	ErrorCategoryCredentialsUnavailable  ErrorCategory = "credentials_unavailable"
	ErrorCategoryTranscoderNotConfigured ErrorCategory = "transcoder_not_configured"
	ErrorCategoryTranscodeFailed         ErrorCategory = "transcode_failed"
	ErrorCategoryProviderFailure         ErrorCategory = "provider_failure"
	ErrorCategoryCanceled                ErrorCategory = "canceled"
	ErrorCategoryUnknown                 ErrorCategory = "unknown"
)

// ClassifyError maps err onto an ErrorCategory.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}
	var (
		providerErr  *ProviderError
		transcodeErr *TranscodeError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryCanceled
	case errors.Is(err, ErrInvalidInput):
		return ErrorCategoryInvalidInput
	case errors.Is(err, ErrCredentialPoolEmpty):
		return ErrorCategoryCredentialsUnavailable
	case errors.Is(err, ErrNoResults):
		return ErrorCategoryNoResults
	case errors.Is(err, ErrNoSuitableRendition):
		return ErrorCategoryNoSuitableRendition
	case errors.Is(err, ErrTranscoderNotConfigured):
		return ErrorCategoryTranscoderNotConfigured
	case errors.As(err, &transcodeErr):
		return ErrorCategoryTranscodeFailed
	case errors.As(err, &providerErr):
		return ErrorCategoryProviderFailure
	default:
		return ErrorCategoryUnknown
	}
}
