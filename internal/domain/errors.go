package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedContent is returned for links that point at content the bot refuses,
	// such as Facebook stories. No provider is called.
	ErrUnsupportedContent = errors.New("unsupported content: stories are not supported")

	// ErrUnrecognizedLink is returned for URLs that belong to no supported platform.
	ErrUnrecognizedLink = errors.New("unrecognized link")

	// ErrNoMedia means a provider answered but the response held no usable media.
	ErrNoMedia = errors.New("provider response contains no media")

	// ErrNoProviderConfigured is matched by NoProviderConfiguredError.
	ErrNoProviderConfigured = errors.New("no provider configured")

	// ErrAllProvidersFailed is matched by AllProvidersFailedError.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// FailureKind categorizes a single provider call failure.
type FailureKind string

const (
	FailureInvalidLink        FailureKind = "invalid_link"
	FailureAccessDenied       FailureKind = "access_denied"
	FailureRateLimited        FailureKind = "rate_limited"
	FailureUpstreamOverloaded FailureKind = "upstream_overloaded"
	FailureTimeout            FailureKind = "timeout"
	FailureUpstream           FailureKind = "upstream_error"
	FailureEmpty              FailureKind = "empty_response"
)

// FailureKindForStatus maps a provider HTTP status to a FailureKind.
func FailureKindForStatus(status int) FailureKind {
	switch status {
	case http.StatusBadRequest:
		return FailureInvalidLink
	case http.StatusForbidden:
		return FailureAccessDenied
	case http.StatusTooManyRequests:
		return FailureRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return FailureUpstreamOverloaded
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return FailureTimeout
	default:
		return FailureUpstream
	}
}

// ProviderCallError is a failed attempt against one provider.
// The orchestrator records it and moves on to the next candidate.
type ProviderCallError struct {
	Provider   string
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *ProviderCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

// NewProviderCallError wraps err, deriving the failure kind from the status code or
// from context deadline errors.
func NewProviderCallError(provider string, status int, err error) *ProviderCallError {
	kind := FailureUpstream
	switch {
	case errors.Is(err, ErrNoMedia):
		kind = FailureEmpty
	case status > 0:
		kind = FailureKindForStatus(status)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		kind = FailureTimeout
	}

	return &ProviderCallError{Provider: provider, Kind: kind, StatusCode: status, Err: err}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return true
	}

	return err != nil && strings.Contains(err.Error(), "Client.Timeout")
}

// NoProviderConfiguredError is returned when the strategy table yields no provider.
type NoProviderConfiguredError struct {
	Platform    Platform
	ContentType ContentType
}

func (e *NoProviderConfiguredError) Error() string {
	return fmt.Sprintf("no provider configured for %s/%s", e.Platform, e.ContentType)
}

func (e *NoProviderConfiguredError) Is(target error) bool {
	return target == ErrNoProviderConfigured
}

// AllProvidersFailedError is returned when every candidate provider failed.
// Unwrap exposes the last failure so callers can inspect its ProviderCallError.
type AllProvidersFailedError struct {
	Platform Platform
	Failures []error
}

func (e *AllProvidersFailedError) Error() string {
	last := e.Last()
	if last == nil {
		return fmt.Sprintf("all %s providers failed", e.Platform)
	}

	return fmt.Sprintf("all %s providers failed (%d attempts), last error: %v", e.Platform, len(e.Failures), last)
}

// Last returns the last recorded failure, or nil.
func (e *AllProvidersFailedError) Last() error {
	if len(e.Failures) == 0 {
		return nil
	}

	return e.Failures[len(e.Failures)-1]
}

func (e *AllProvidersFailedError) Unwrap() error {
	return e.Last()
}

func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

// ErrorKind is a stable, user-facing classification of a terminal error.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindUnsupportedContent ErrorKind = "unsupported_content"
	KindUnrecognizedLink   ErrorKind = "unrecognized_link"
	KindNoProvider         ErrorKind = "no_provider"
	KindInvalidLink        ErrorKind = "invalid_link"
	KindAccessDenied       ErrorKind = "access_denied"
	KindRateLimited        ErrorKind = "rate_limited"
	KindUpstreamOverloaded ErrorKind = "upstream_overloaded"
	KindTimeout            ErrorKind = "timeout"
	KindAllProvidersFailed ErrorKind = "all_providers_failed"
	KindInternal           ErrorKind = "internal"
)

// KindOf classifies err for presentation. For exhausted providers the last
// provider failure decides the kind when it carries an HTTP category.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	switch {
	case errors.Is(err, ErrUnsupportedContent):
		return KindUnsupportedContent
	case errors.Is(err, ErrUnrecognizedLink):
		return KindUnrecognizedLink
	case errors.Is(err, ErrNoProviderConfigured):
		return KindNoProvider
	}

	var callErr *ProviderCallError
	if errors.As(err, &callErr) {
		switch callErr.Kind {
		case FailureInvalidLink:
			return KindInvalidLink
		case FailureAccessDenied:
			return KindAccessDenied
		case FailureRateLimited:
			return KindRateLimited
		case FailureUpstreamOverloaded:
			return KindUpstreamOverloaded
		case FailureTimeout:
			return KindTimeout
		}
	}

	if errors.Is(err, ErrAllProvidersFailed) {
		return KindAllProvidersFailed
	}

	return KindInternal
}
