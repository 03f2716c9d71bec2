// Package codewikierr defines the typed error kinds the pipeline and its
// adapters raise, matching the recovery policy of each kind rather than
// leaving callers to sniff error strings.
package codewikierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by its recovery policy.
type Kind string

const (
	// KindConfig covers missing LLM/vector configuration or a bad template path.
	// Surfaced immediately; the pipeline fails.
	KindConfig Kind = "ConfigError"
	// KindNotFound covers a missing repository, document, or catalog.
	KindNotFound Kind = "NotFound"
	// KindConflict covers duplicate registration.
	KindConflict Kind = "Conflict"
	// KindValidation covers a bad URL, bad path, or an unrecognized classification value.
	KindValidation Kind = "ValidationError"
	// KindIO covers filesystem and archive-extraction failures. The stage fails
	// and is retried once by the orchestrator.
	KindIO Kind = "IOError"
	// KindTransientRemote covers a rate limit, 5xx, or timeout from the LLM or
	// vector store. The adapter retries with backoff before the stage fails.
	KindTransientRemote Kind = "TransientRemote"
	// KindParse covers an absent structured-output tag, an unknown
	// classification, or malformed minimap/changelog JSON. Never aborts the
	// pipeline: callers fall back to a looser parse or a zero value.
	KindParse Kind = "ParseError"
	// KindCancelled covers user-initiated cancellation.
	KindCancelled Kind = "Cancelled"
)

// Error is a typed, wrapped error carrying a Kind alongside the usual message
// and cause chain.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a Kind-tagged error with no underlying cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a Kind-tagged error wrapping cause. Returns nil if cause is nil.
func Wrap(kind Kind, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Of reports the Kind of err, and whether err (or something it wraps) is a
// *Error at all.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := Of(err)
	return ok && k == kind
}

// Retryable reports whether errors of this kind are recovered by retrying
// the operation that produced them, per the §7 policy table: IOError is
// retried once by the orchestrator, TransientRemote is retried by the
// adapter with backoff; every other kind surfaces immediately.
func Retryable(kind Kind) bool {
	switch kind {
	case KindIO, KindTransientRemote:
		return true
	default:
		return false
	}
}
