package stream

import (
	"strings"
	"unicode/utf8"

	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// doneSentinel is the payload text/event-stream providers send in place of a
// final data event to signal end-of-stream.
const doneSentinel = "[DONE]"

// Framer incrementally splits a text/event-stream byte stream into event
// payloads. Events are separated by a blank line (LF+LF or CRLF+CRLF);
// within an event, "data:" lines are joined by single line-feeds in order.
// Framer holds no goroutine of its own — callers feed it bytes as they
// arrive from the transport.
type Framer struct {
	buf  string
	done bool
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Done reports whether the [DONE] sentinel has been observed. Once true,
// Write returns no further payloads.
func (f *Framer) Done() bool {
	return f.done
}

// Write appends p to the internal buffer and extracts every complete event
// payload now available. Partial trailing bytes are retained for the next
// call. Non-UTF-8 input aborts with a Json-kind error.
func (f *Framer) Write(p []byte) ([]string, error) {
	if f.done {
		return nil, nil
	}
	if !utf8.Valid(p) {
		return nil, pierr.JsonError("non-utf8 bytes in event stream")
	}
	f.buf += string(p)

	var payloads []string
	for {
		idx, sepLen := findSeparator(f.buf)
		if idx < 0 {
			break
		}
		block := f.buf[:idx]
		f.buf = f.buf[idx+sepLen:]

		payload, ok := parseEventBlock(block)
		if !ok {
			continue
		}
		if payload == doneSentinel {
			f.done = true
			break
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

// findSeparator returns the index and length of the earliest blank-line
// event separator ("\n\n" or "\r\n\r\n") in s, or (-1, 0) if none is present.
func findSeparator(s string) (int, int) {
	lf := strings.Index(s, "\n\n")
	crlf := strings.Index(s, "\r\n\r\n")
	switch {
	case lf < 0 && crlf < 0:
		return -1, 0
	case lf < 0:
		return crlf, 4
	case crlf < 0:
		return lf, 2
	case crlf < lf:
		return crlf, 4
	default:
		return lf, 2
	}
}

// parseEventBlock joins every "data:" line in block, in order, with "\n".
// ok is false if block carried no data lines at all (nothing to emit).
func parseEventBlock(block string) (payload string, ok bool) {
	lines := strings.Split(block, "\n")
	var data []string
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
	}
	if len(data) == 0 {
		return "", false
	}
	return strings.Join(data, "\n"), true
}
