// Package providers holds the error classification the concrete provider
// adapters (anthropic, openai, google, bedrock) share.
package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// Classify maps a raw SDK/transport error into this module's closed error
// taxonomy. Providers call this once at the boundary so callers never see
// SDK-specific error types.
func Classify(provider, model string, err error) error {
	if err == nil {
		return nil
	}
	if pierrErr, ok := err.(*pierr.Error); ok {
		return pierrErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return pierr.TimeoutError("%s: request for model %s timed out", provider, model)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return pierr.TimeoutError("%s: request for model %s timed out: %s", provider, model, err)
	case strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "eof"):
		return pierr.Wrap(pierr.Http, err, "%s: transport failure for model %s", provider, model)
	default:
		return pierr.Wrap(pierr.Provider, err, "%s: request for model %s failed", provider, model)
	}
}

// IsRetryable reports whether a classified error is worth retrying. The
// adapters themselves never retry (that is the caller's call per this
// module's error-handling policy); this exists for callers that wrap a
// Provider in their own retry loop using backoff.BackoffPolicy.
func IsRetryable(err error) bool {
	kind, ok := pierr.KindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case pierr.Timeout, pierr.Http:
		return true
	default:
		return false
	}
}
