package stream

import (
	"context"
	"encoding/json"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// toolAcc accumulates one tool call's fragments, addressed by the
// provider-assigned index that joins them.
type toolAcc struct {
	id      string
	name    string
	hasID   bool
	hasName bool
	args    string
}

// Assembler is a single-producer accumulator: between suspensions it is
// owned exclusively by the goroutine feeding it chunks and needs no
// internal locking, per the module's streaming concurrency model.
type Assembler struct {
	events chan Event
	result *Result

	content    string
	order      []int
	tools      map[int]*toolAcc
	usage      *chatmodel.TokenUsage
	usageIsSet bool
	done       bool
}

// NewAssembler returns an Assembler with a bounded event channel of the
// given capacity.
func NewAssembler(bufSize int) *Assembler {
	return &Assembler{
		events: make(chan Event, bufSize),
		result: NewResult(),
		tools:  make(map[int]*toolAcc),
	}
}

// Events returns the event channel. It is closed when the stream finalizes
// or aborts.
func (a *Assembler) Events() <-chan Event {
	return a.events
}

// Result returns the terminal ChatResponse promise.
func (a *Assembler) Result() *Result {
	return a.result
}

func (a *Assembler) acc(index int) *toolAcc {
	t, ok := a.tools[index]
	if !ok {
		t = &toolAcc{}
		a.tools[index] = t
		a.order = append(a.order, index)
	}
	return t
}

// emit sends ev on the event channel. If ctx is cancelled before the send
// completes (the receiver disappeared), it finalizes the stream itself —
// closing the event channel and resolving Result with
// Provider("stream dropped") — so a caller whose Feed returns this error
// can simply stop; there is nothing left for it to close or resolve.
func (a *Assembler) emit(ctx context.Context, ev Event) error {
	select {
	case a.events <- ev:
		return nil
	case <-ctx.Done():
		return a.abortWith(ctx, ReasonAborted, pierr.ProviderError("stream dropped"))
	}
}

// Feed folds one provider chunk into the accumulator, emitting zero or more
// events. It must not be called after Finish or Abort.
func (a *Assembler) Feed(ctx context.Context, chunk Chunk) error {
	if chunk.Usage != nil {
		usage := *chunk.Usage
		a.usage = &usage
		a.usageIsSet = true
		if err := a.emit(ctx, Event{Type: EventUsage, Usage: usage}); err != nil {
			return err
		}
	}

	if len(chunk.Choices) == 0 {
		return nil
	}
	delta := chunk.Choices[0].Delta

	if delta.Content != "" {
		a.content += delta.Content
		if err := a.emit(ctx, Event{Type: EventTextDelta, TextDelta: delta.Content}); err != nil {
			return err
		}
	}

	for _, tc := range delta.ToolCalls {
		if tc.Type != "" && tc.Type != "function" {
			return a.abortWith(ctx, ReasonProvider, pierr.ProviderError("unsupported tool_call type %q", tc.Type))
		}
		acc := a.acc(tc.Index)
		if tc.ID != "" {
			acc.id, acc.hasID = tc.ID, true
		}
		if tc.Function.Name != "" {
			acc.name, acc.hasName = tc.Function.Name, true
		}
		if tc.Function.Arguments == "" {
			continue
		}
		acc.args += tc.Function.Arguments

		if !acc.hasID || !acc.hasName {
			continue
		}
		var parsed any
		var parsedArgs any
		if json.Unmarshal([]byte(acc.args), &parsed) == nil {
			parsedArgs = parsed
		}
		ev := Event{
			Type: EventToolCallDelta,
			ToolCall: ToolCallDeltaPayload{
				Index:           tc.Index,
				ID:              chatmodel.MustNonEmptyString(acc.id),
				Name:            chatmodel.MustNonEmptyString(acc.name),
				ArgumentsDelta:  tc.Function.Arguments,
				ParsedArguments: parsedArgs,
			},
		}
		if err := a.emit(ctx, ev); err != nil {
			return err
		}
	}

	return nil
}

// Finish finalizes the stream: validates every accumulated tool call parses
// as complete JSON, emits Done, closes the event channel, and resolves
// Result with the assembled ChatResponse.
func (a *Assembler) Finish(ctx context.Context) (chatmodel.ChatResponse, error) {
	toolCalls := make([]chatmodel.ToolCall, 0, len(a.order))
	for _, index := range a.order {
		acc := a.tools[index]
		if !acc.hasID || !acc.hasName {
			err := pierr.ProviderError("tool call at index %d missing id or name at finalize", index)
			a.abortWith(ctx, ReasonProvider, err)
			return chatmodel.ChatResponse{}, err
		}
		var args any
		if jsonErr := json.Unmarshal([]byte(acc.args), &args); jsonErr != nil {
			err := pierr.ProviderError("tool call %q arguments did not parse as JSON at finalize", acc.name)
			a.abortWith(ctx, ReasonProvider, err)
			return chatmodel.ChatResponse{}, err
		}
		toolCalls = append(toolCalls, chatmodel.ToolCall{
			ID:        chatmodel.MustNonEmptyString(acc.id),
			Name:      chatmodel.MustNonEmptyString(acc.name),
			Arguments: args,
		})
	}

	resp := chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage(a.content, toolCalls),
	}
	if a.usageIsSet {
		usage := *a.usage
		resp.Usage = &usage
	}

	a.result.complete(resp, nil)
	a.emitDoneAndClose(ctx)
	return resp, nil
}

// Abort ends the stream early: it emits an Error event, closes the channel,
// and resolves Result with a matching error.
func (a *Assembler) Abort(ctx context.Context, reason ErrorReason, message string) error {
	err := pierr.ProviderError("%s", message)
	return a.abortWith(ctx, reason, err)
}

// abortWith resolves Result before touching the event channel, so that any
// caller which drains Events to closure and then calls Result.Wait is
// guaranteed (via the channel-close happens-before edge) to observe the
// resolved Result rather than racing its own ctx against a still-open one.
func (a *Assembler) abortWith(ctx context.Context, reason ErrorReason, err error) error {
	if a.done {
		return err
	}
	a.done = true
	a.result.complete(chatmodel.ChatResponse{}, err)
	ev := Event{Type: EventError, ErrorReason: reason, ErrorMessage: err.Error()}
	select {
	case a.events <- ev:
	case <-ctx.Done():
	}
	close(a.events)
	return err
}

func (a *Assembler) emitDoneAndClose(ctx context.Context) {
	if a.done {
		return
	}
	a.done = true
	select {
	case a.events <- Event{Type: EventDone}:
	case <-ctx.Done():
	}
	close(a.events)
}
