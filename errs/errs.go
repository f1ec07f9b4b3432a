// Package errs defines the error taxonomy shared by the generation pipeline.
// Callers dispatch on Kind instead of concrete error types.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// AIUnavailable: retries against the generative provider were exhausted.
	AIUnavailable Kind = "ai_unavailable"
	// AIUnauthenticated: bad or missing API key; the install must be reconfigured.
	AIUnauthenticated Kind = "ai_unauthenticated"
	// ContentGenerationFailed: the model returned empty or unparseable content.
	ContentGenerationFailed Kind = "content_generation_failed"

	StyleGuideRequired Kind = "style_guide_required"
	QuotaExceeded      Kind = "quota_exceeded"
	IdeaNotFound       Kind = "idea_not_found"
	AlreadyClaimed     Kind = "already_claimed"

	// Image acquisition kinds are never fatal to draft creation.
	ImageRejected              Kind = "image_rejected"
	NoImageFound               Kind = "no_image_found"
	ImageGenerationUnsupported Kind = "image_generation_unsupported"

	TransactionFailed Kind = "transaction_failed"
)

// Error carries a kind plus optional context for logging and API mapping.
type Error struct {
	Kind    Kind
	Msg     string
	Err     error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a tagged error.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap tags an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// With attaches a context value and returns the error for chaining.
func (e *Error) With(key string, val any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = val
	return e
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is tagged with kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the pipeline may retry the failed call later.
// Only provider overload counts; everything else needs operator action.
func Retryable(err error) bool {
	return Is(err, AIUnavailable)
}
