package providerhub

import (
	"context"
	"time"

	"github.com/haasonsaas/pi-agent-core/internal/backoff"
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/providers"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// retryingProvider wraps a ChatProvider with caller-opted-in retry: the
// adapters themselves never retry (per this module's error-handling
// policy), so a caller wanting retries decorates the provider with this
// before registering it in the Hub. Only Chat is retried; ChatStream
// establishes a single connection and is left to the caller to retry
// wholesale if its setup call fails.
type retryingProvider struct {
	inner       ChatProvider
	policy      backoff.BackoffPolicy
	maxAttempts int
}

// WithRetry decorates provider so that Chat calls failing with a retryable
// error (per providers.IsRetryable) are retried using policy, making at most
// maxAttempts calls in total (the first call included). Wiring this is opt-in; a Hub entry is never retried unless
// the caller chose to wrap it.
func WithRetry(provider ChatProvider, policy backoff.BackoffPolicy, maxAttempts int) ChatProvider {
	return retryingProvider{inner: provider, policy: policy, maxAttempts: maxAttempts}
}

func (r retryingProvider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		resp, err := r.inner.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !providers.IsRetryable(err) || attempt == r.maxAttempts {
			return chatmodel.ChatResponse{}, err
		}

		delay := backoff.ComputeBackoff(r.policy, attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return chatmodel.ChatResponse{}, ctx.Err()
		}
	}
	return chatmodel.ChatResponse{}, lastErr
}

func (r retryingProvider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	return r.inner.ChatStream(ctx, req)
}
