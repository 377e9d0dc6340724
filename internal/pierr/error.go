// Package pierr defines the closed error taxonomy shared by every package in
// this module. Fallible operations return nil or a *pierr.Error so callers
// can switch on Kind instead of pattern-matching message strings; the
// exception is context cancellation, which is returned as ctx.Err().
package pierr

import "fmt"

// Kind is a closed set of error categories. New kinds are never added at
// runtime, so a caller-side switch over Kind can be exhaustive.
type Kind string

const (
	// Invalid marks malformed config, empty required strings, unknown
	// model/provider identifiers, and range violations.
	Invalid Kind = "invalid"
	// Tool marks a tool execution failure, an unknown tool name, or
	// argument-schema validation failure.
	Tool Kind = "tool"
	// Provider marks a provider contract violation: a non-assistant
	// message returned, a malformed stream, a missing id/name at
	// finalize, max_steps reached, or a dropped stream.
	Provider Kind = "provider"
	// Adapter is reserved for adapter-specific failures external to the
	// core ports.
	Adapter Kind = "adapter"
	// Io marks underlying storage or transport I/O failure.
	Io Kind = "io"
	// Json marks serialization/deserialization failure of core types.
	Json Kind = "json"
	// Http marks a transport-layer failure carrying a message.
	Http Kind = "http"
	// Timeout marks an operation that exceeded its deadline.
	Timeout Kind = "timeout"
)

// Error is the concrete error type returned across this module's ports.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets callers test a Kind with errors.Is(err, pierr.Invalid) by wrapping
// the sentinel kind in a bare *Error with no message.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	if te.Msg == "" && te.Cause == nil {
		return e.Kind == te.Kind
	}
	return e.Kind == te.Kind && e.Msg == te.Msg
}

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// InvalidError builds an Invalid error with a formatted message.
func InvalidError(format string, args ...any) *Error { return newf(Invalid, format, args...) }

// ToolError builds a Tool error with a formatted message.
func ToolError(format string, args ...any) *Error { return newf(Tool, format, args...) }

// ProviderError builds a Provider error with a formatted message.
func ProviderError(format string, args ...any) *Error { return newf(Provider, format, args...) }

// AdapterError builds an Adapter error with a formatted message.
func AdapterError(format string, args ...any) *Error { return newf(Adapter, format, args...) }

// IoError builds an Io error with a formatted message.
func IoError(format string, args ...any) *Error { return newf(Io, format, args...) }

// JsonError builds a Json error with a formatted message.
func JsonError(format string, args ...any) *Error { return newf(Json, format, args...) }

// HttpError builds an Http error with a formatted message.
func HttpError(format string, args ...any) *Error { return newf(Http, format, args...) }

// TimeoutError builds a Timeout error with a formatted message.
func TimeoutError(format string, args ...any) *Error { return newf(Timeout, format, args...) }

// Wrap attaches cause to a new error of the given kind, preserving cause in
// the Unwrap chain for errors.Is/errors.As.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel returns a bare *Error carrying only a Kind, suitable as the
// target of errors.Is(err, pierr.Sentinel(pierr.Provider)).
func Sentinel(k Kind) *Error { return &Error{Kind: k} }

// KindOf extracts the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// as is a tiny indirection so this file does not need to import errors
// twice in two different call shapes; kept local to avoid surprising
// callers who only need KindOf.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
