package agent

// State names a point in the agent loop's bounded state machine.
type State string

const (
	// StateAwaitingUser exists only before a run begins.
	StateAwaitingUser State = "awaiting_user"
	// StateAwaitingAssistant is entered after the user turn is appended
	// and whenever the loop is about to call the provider again.
	StateAwaitingAssistant State = "awaiting_assistant"
	// StateExecutingTools is entered once an Assistant message with
	// tool_calls has been appended, for the duration of the sequential
	// tool-execution pass.
	StateExecutingTools State = "executing_tools"
	// StateDone is terminal: the model reached quiescence.
	StateDone State = "done"
	// StateFailed is terminal: the run ended with an error.
	StateFailed State = "failed"
)
