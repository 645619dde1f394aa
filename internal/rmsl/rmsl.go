// Package rmsl reads and writes the flat attribute format used by keyboard
// layout files.
//
// Every attribute and every nested block is wrapped as
//
//	\t<name> <value> <name>\t
//
// so the name appears twice: once before the value and once after it. A whole
// keyboard is a single string holding keyboard-level attributes followed by
// repeated "row" blocks, each of which holds row attributes followed by
// repeated "key" blocks.
//
// Lookup is positional. Attr finds the first opening marker and the first
// closing marker at or after it. Attrs walks the string left to right and
// drops everything up to and including each closing marker it consumes,
// which means sibling attributes that appear before a block are discarded
// along with it.
//
// # Limitations
//
// The format has no escaping. A value must never contain the exact
// substrings "\t<name> " or " <name>\t" for its own name, otherwise the value
// is cut short or the following block is misaligned.
package rmsl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminated is returned when an opening marker has no closing marker
// after it.
var ErrUnterminated = errors.New("rmsl: unterminated block")

func openMarker(name string) string  { return "\t" + name + " " }
func closeMarker(name string) string { return " " + name + "\t" }

// span locates the value of the first occurrence of name. start is the index
// of the first byte of the value and end the index of the closing marker.
// open reports whether an opening marker was seen at all.
func span(data, name string) (start, end int, open bool) {
	o := strings.Index(data, openMarker(name))
	if o < 0 {
		return -1, -1, false
	}
	start = o + len(openMarker(name))
	c := strings.Index(data[start:], closeMarker(name))
	if c < 0 {
		return start, -1, true
	}
	return start, start + c, true
}

// Attr returns the first value stored under name, or def when either marker
// is missing.
func Attr(data, name, def string) string {
	v, ok := Lookup(data, name)
	if !ok {
		return def
	}
	return v
}

// Lookup is Attr with an explicit presence flag.
func Lookup(data, name string) (string, bool) {
	start, end, _ := span(data, name)
	if end < 0 {
		return "", false
	}
	return data[start:end], true
}

// Remove returns the remainder of data strictly after the first closing
// marker of name. Everything before it, siblings included, is dropped. When
// no closing marker exists the empty string is returned.
func Remove(data, name string) string {
	_, end, _ := span(data, name)
	if end < 0 {
		return ""
	}
	return data[end+len(closeMarker(name)):]
}

// Attrs collects every value stored under name by repeatedly looking it up
// and removing it from a shrinking remainder.
func Attrs(data, name string) []string {
	out, _ := collect(data, name)
	return out
}

// Blocks is Attrs that also reports an opening marker left without a
// closing marker. The values found before the failure are still returned.
func Blocks(data, name string) ([]string, error) {
	return collect(data, name)
}

func collect(data, name string) ([]string, error) {
	var out []string
	rest := data
	for {
		start, end, open := span(rest, name)
		if !open {
			return out, nil
		}
		if end < 0 {
			return out, &SyntaxError{Name: name, Offset: len(data) - len(rest) + start, Err: ErrUnterminated}
		}
		out = append(out, rest[start:end])
		rest = rest[end+len(closeMarker(name)):]
	}
}

// SyntaxError describes a structural problem found while splitting blocks.
type SyntaxError struct {
	Name   string
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d", e.Err, e.Name, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
