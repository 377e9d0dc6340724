package stream

import (
	"context"
	"sync"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
)

// Result is the terminal promise of a stream: the fully assembled
// ChatResponse, resolved exactly once regardless of how many goroutines
// Wait concurrently.
type Result struct {
	once sync.Once
	done chan struct{}
	resp chatmodel.ChatResponse
	err  error
}

// NewResult returns an unresolved Result.
func NewResult() *Result {
	return &Result{done: make(chan struct{})}
}

func (r *Result) complete(resp chatmodel.ChatResponse, err error) {
	r.once.Do(func() {
		r.resp, r.err = resp, err
		close(r.done)
	})
}

// Succeed resolves r with resp. Intended for callers (such as AiClient)
// wrapping another Result to apply post-hoc enrichment before resolving
// their own promise. A no-op if r is already resolved.
func (r *Result) Succeed(resp chatmodel.ChatResponse) {
	r.complete(resp, nil)
}

// Fail resolves r with err. A no-op if r is already resolved.
func (r *Result) Fail(err error) {
	r.complete(chatmodel.ChatResponse{}, err)
}

// Wait blocks until the stream finalizes (or ctx is cancelled first). A
// Result that already resolved before Wait was called always wins, even if
// ctx happens to be the same cancelled context that caused the resolution —
// otherwise a select between two simultaneously-ready channels could report
// the waiter's own ctx.Err() instead of the stream's actual terminal error.
func (r *Result) Wait(ctx context.Context) (chatmodel.ChatResponse, error) {
	select {
	case <-r.done:
		return r.resp, r.err
	default:
	}
	select {
	case <-r.done:
		return r.resp, r.err
	case <-ctx.Done():
		return chatmodel.ChatResponse{}, ctx.Err()
	}
}

// ChatStream is a bounded async sequence of Events plus the terminal
// ChatResponse promise, returned by a StreamingProvider.
type ChatStream struct {
	Events <-chan Event
	Result *Result
}
