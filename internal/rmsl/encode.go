package rmsl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMarkerInValue is returned when a value would contain its own markers
// and could not be read back.
var ErrMarkerInValue = errors.New("rmsl: value contains its own marker")

// Encoder builds layout text. The first error is sticky and reported by
// Err and String's caller; later writes are ignored.
type Encoder struct {
	b     strings.Builder
	stack []string
	err   error
}

// Attr writes a single attribute.
func (e *Encoder) Attr(name, value string) {
	if e.err != nil {
		return
	}
	if strings.Contains(value, openMarker(name)) || strings.Contains(value, closeMarker(name)) {
		e.err = fmt.Errorf("%w: %q", ErrMarkerInValue, name)
		return
	}
	e.b.WriteString(openMarker(name))
	e.b.WriteString(value)
	e.b.WriteString(closeMarker(name))
}

// AttrIf writes the attribute only when value is not empty.
func (e *Encoder) AttrIf(name, value string) {
	if value != "" {
		e.Attr(name, value)
	}
}

// Open starts a nested block. Every Open must be matched by Close.
func (e *Encoder) Open(name string) {
	if e.err != nil {
		return
	}
	e.stack = append(e.stack, name)
	e.b.WriteString(openMarker(name))
}

// Close ends the innermost open block.
func (e *Encoder) Close() {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 {
		e.err = errors.New("rmsl: close without open block")
		return
	}
	name := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	e.b.WriteString(closeMarker(name))
}

// Err reports the first error seen, including blocks left open.
func (e *Encoder) Err() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) > 0 {
		return fmt.Errorf("%w: %q", ErrUnterminated, e.stack[len(e.stack)-1])
	}
	return nil
}

// String returns the text written so far.
func (e *Encoder) String() string {
	return e.b.String()
}
