package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies a failed provider call for logs and the turn log.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindRateLimit   ErrorKind = "rate_limit"
	KindUnavailable ErrorKind = "unavailable"
	KindInvalid     ErrorKind = "invalid_response"
	KindTruncated   ErrorKind = "truncated"
	KindRefused     ErrorKind = "refused"
	KindOther       ErrorKind = "other"
)

// KindOf returns the kind of the first provider error in err's chain, or
// KindOther when err carries none.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		rateLimit   *ErrRateLimit
		unavailable *ErrProviderUnavailable
		invalid     *ErrInvalidResponse
		truncated   *ErrMaxTokensExceeded
		refused     *ErrRefused
	)
	switch {
	case errors.As(err, &rateLimit):
		return KindRateLimit
	case errors.As(err, &unavailable):
		return KindUnavailable
	case errors.As(err, &invalid):
		return KindInvalid
	case errors.As(err, &truncated):
		return KindTruncated
	case errors.As(err, &refused):
		return KindRefused
	}
	return KindOther
}

// ErrRateLimit means the provider answered 429. RetryAfter is zero when the
// provider did not say.
type ErrRateLimit struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := withProvider(e.Provider, "rate limited")
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg + ": " + fmt.Sprint(e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the reply was empty, unparseable or did not
// match the requested schema.
type ErrInvalidResponse struct {
	Provider string
	Content  json.RawMessage
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	return withProvider(e.Provider, "invalid LLM response") + ": " + fmt.Sprint(e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable means the provider could not be reached, failed
// server side or did not answer in time.
type ErrProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrProviderUnavailable) Error() string {
	msg := withProvider(e.Provider, "LLM provider unavailable")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means structured output was cut off at MaxTokens.
// Free text that hits the limit is returned as is.
type ErrMaxTokensExceeded struct {
	Provider string
	Content  json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return withProvider(e.Provider, "LLM response truncated: max tokens exceeded")
}

// ErrRefused means the model declined to answer or the provider's safety
// filter blocked the prompt or the reply.
type ErrRefused struct {
	Provider string
	Reason   string
}

func (e *ErrRefused) Error() string {
	msg := withProvider(e.Provider, "LLM refused to answer")
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func withProvider(provider, msg string) string {
	if provider == "" {
		return msg
	}
	return provider + ": " + msg
}

// fromStatus maps the HTTP status of a failed SDK call. Anything that is not
// a rate limit counts as the provider being unavailable.
func fromStatus(provider string, status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Provider: provider, RetryAfter: retryAfter(header), Err: err}
	}
	return &ErrProviderUnavailable{Provider: provider, Err: err}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
