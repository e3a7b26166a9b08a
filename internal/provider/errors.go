package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request. The string values are part of the
// public JSON error shape.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "InvalidInput"
	KindNotFound     ErrorKind = "NotFound"
	KindRateLimited  ErrorKind = "RateLimited"
	KindUpstream     ErrorKind = "UpstreamError"
	KindNetwork      ErrorKind = "NetworkError"
	KindKeyRequired  ErrorKind = "KeyRequired"
)

// Error is the single error type returned by provider clients.
type Error struct {
	Kind     ErrorKind
	Provider string // e.g., "alphavantage"; empty for locally raised errors
	Message  string // safe to show to the end user
	Status   int    // upstream HTTP status, when one was received
	Timeout  bool   // transport failure was a timeout
	Err      error  // underlying cause, if any
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput reports a malformed symbol or keyword.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// KeyRequired reports that no API key is available for the caller.
func KeyRequired() *Error {
	return &Error{Kind: KindKeyRequired, Message: "API key not configured; visit /setup to enter one"}
}

// NotFound reports an empty upstream payload.
func NotFound(provider, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Provider: provider, Message: fmt.Sprintf(format, args...)}
}

// RateLimited reports quota exhaustion. note is the provider's own text.
func RateLimited(provider, note string) *Error {
	msg := "request quota exceeded; wait a minute before trying again"
	if note != "" {
		msg += " (" + note + ")"
	}
	return &Error{Kind: KindRateLimited, Provider: provider, Message: msg}
}

// Upstream reports an unexpected status or payload shape.
func Upstream(provider string, status int, cause error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Provider: provider, Status: status, Err: cause, Message: fmt.Sprintf(format, args...)}
}

// Network reports a transport failure reaching the provider.
func Network(provider string, timeout bool, cause error) *Error {
	msg := "could not reach the market data provider"
	if timeout {
		msg = "market data provider timed out"
	}
	return &Error{Kind: KindNetwork, Provider: provider, Timeout: timeout, Err: cause, Message: msg}
}

// KindOf classifies any error. Unknown errors are treated as upstream faults.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindNetwork
	}
	return KindUpstream
}

// AsError converts any error to *Error, classifying foreign errors with KindOf.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	kind := KindOf(err)
	if kind == KindNetwork {
		return Network("", errors.Is(err, context.DeadlineExceeded), err)
	}
	return &Error{Kind: kind, Message: "unexpected failure", Err: err}
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}
