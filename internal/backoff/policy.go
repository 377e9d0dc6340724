// Package backoff computes jittered exponential delays for
// providerhub.WithRetry. It exposes only what that decorator needs —
// a policy struct and a pure delay function — rather than a generic
// retry harness, since the decorator itself owns the retry loop and
// the retryable/terminal distinction.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy parameterizes ComputeBackoff.
type BackoffPolicy struct {
	InitialMs float64
	MaxMs     float64
	Factor    float64
	Jitter    float64 // 0.0-1.0
}

// DefaultPolicy is a sensible starting point for WithRetry: 100ms initial,
// 30s cap, factor 2, 10% jitter.
func DefaultPolicy() BackoffPolicy {
	return BackoffPolicy{InitialMs: 100, MaxMs: 30000, Factor: 2, Jitter: 0.1}
}

// ComputeBackoff returns the delay before attempt, attempts numbered from 1.
func ComputeBackoff(policy BackoffPolicy, attempt int) time.Duration {
	return ComputeBackoffWithRand(policy, attempt, rand.Float64()) // #nosec G404 -- jitter, not a security value
}

// ComputeBackoffWithRand is ComputeBackoff with the jitter source supplied by
// the caller, for deterministic tests. randomValue is expected in [0.0, 1.0).
func ComputeBackoffWithRand(policy BackoffPolicy, attempt int, randomValue float64) time.Duration {
	exp := math.Max(float64(attempt-1), 0)
	base := policy.InitialMs * math.Pow(policy.Factor, exp)
	jitter := base * policy.Jitter * randomValue
	total := math.Min(policy.MaxMs, base+jitter)
	return time.Duration(math.Round(total)) * time.Millisecond
}
