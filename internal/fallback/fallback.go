// Package fallback runs a soft dependency and substitutes a default value
// when it fails, so callers never branch on the failure themselves.
package fallback

import (
	"context"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
)

// Op describes one soft call
type Op struct {
	Component string
	// Timeout bounds the call; zero leaves the parent deadline in charge
	Timeout time.Duration
	Logger  *logging.Logger
}

// Attempt runs fn and returns its value. On any error, including timeout
// and cancellation, it logs and counts the failure and returns def with
// degraded set.
func Attempt[T any](ctx context.Context, op Op, fn func(ctx context.Context) (T, error), def T) (value T, degraded bool) {
	if op.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, op.Timeout)
		defer cancel()
	}

	value, err := fn(ctx)
	if err == nil {
		return value, false
	}

	reason := string(apperr.KindOf(err))
	metrics.RecordFallback(op.Component, reason)
	if op.Logger != nil {
		op.Logger.LogFallback(op.Component, reason, err)
	}

	return def, true
}
