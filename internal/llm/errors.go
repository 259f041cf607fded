package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrNotConfigured is returned when no provider is selected and no API key
// can be discovered.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network errors and 5xx answers.
	KindUnavailable Kind = iota
	// KindRateLimited is a 429.
	KindRateLimited
	// KindRejected is any other 4xx; sending the same prompt again will not help.
	KindRejected
	// KindEmpty means the call succeeded but carried no text.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindEmpty:
		return "empty answer"
	default:
		return "unavailable"
	}
}

// Error is a failed completion.
type Error struct {
	Provider   string
	Kind       Kind
	Status     int // HTTP status, 0 when none was received
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Temporary reports whether the same prompt may succeed later.
func (e *Error) Temporary() bool {
	return e.Kind == KindUnavailable || e.Kind == KindRateLimited
}

// classify wraps an SDK error given the HTTP status it carried (0 if none).
func classify(provider string, status int, err error) *Error {
	e := &Error{Provider: provider, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	default:
		e.Kind = KindUnavailable
	}
	return e
}

func emptyAnswer(provider string) *Error {
	return &Error{Provider: provider, Kind: KindEmpty}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
