// Package apperr defines the error kinds that decide how a failure travels
// through the analyze pipeline.
package apperr

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidInput means the caller sent something unusable (400)
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidReference means the reference URL failed platform validation
	// or its metadata lookup (400)
	ErrInvalidReference = errors.New("invalid reference")
	// ErrUpstreamUnavailable covers network, auth, rate-limit and timeout
	// failures of a soft dependency
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrContractViolation means an upstream answered in the wrong shape
	ErrContractViolation = errors.New("contract violation")
	// ErrUnexpected marks an internal inconsistency (500)
	ErrUnexpected = errors.New("unexpected error")
)

// Kind names the category of an error
type Kind string

// Kind constants
const (
	KindInvalidInput        Kind = "invalid_input"
	KindInvalidReference    Kind = "invalid_reference"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindContractViolation   Kind = "contract_violation"
	KindTimeout             Kind = "timeout"
	KindCanceled            Kind = "canceled"
	KindUnexpected          Kind = "unexpected"
)

// KindOf classifies err
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrInvalidReference):
		return KindInvalidReference
	case errors.Is(err, ErrContractViolation):
		return KindContractViolation
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindUnexpected
	}
}

// IsClientError reports whether err should be answered with 400
func IsClientError(err error) bool {
	k := KindOf(err)
	return k == KindInvalidInput || k == KindInvalidReference
}

var sentinels = []error{
	ErrInvalidInput, ErrInvalidReference, ErrUpstreamUnavailable, ErrContractViolation, ErrUnexpected,
}

// Message returns err's text without the trailing sentinel, for response
// bodies
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range sentinels {
		msg = strings.TrimSuffix(msg, ": "+s.Error())
	}
	return msg
}
