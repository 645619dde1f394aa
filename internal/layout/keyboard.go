// Package layout builds positioned keyboard models from layout text.
//
// A Keyboard owns its rows and each Row owns its keys. Rows and keys refer
// to their owner by index rather than by pointer. After Build returns, the
// geometry never changes; only the shift state and the per-key Pressed and
// Focused flags are meant to be touched, and callers serialize those writes
// themselves.
package layout

import (
	"errors"
	"log/slog"

	"go.uber.org/atomic"
)

// Reserved key codes. Non-negative codes are character codes.
const (
	CodeShift          = -1
	CodeModeChange     = -2
	CodeKeyboardSwitch = -3
	CodeEnter          = -4
	CodeDelete         = -5
	CodeEmoji          = -6
	CodeSpace          = 32
)

// ShiftState is the keyboard's shift mode.
type ShiftState int32

const (
	ShiftOff ShiftState = iota
	ShiftOn
	ShiftLocked
)

func (s ShiftState) String() string {
	switch s {
	case ShiftOff:
		return "off"
	case ShiftOn:
		return "on"
	case ShiftLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// EdgeFlags marks a key as anchored to a keyboard edge for hit testing.
type EdgeFlags uint8

const (
	EdgeLeft EdgeFlags = 1 << iota
	EdgeRight
)

// Has reports whether all bits of f are set.
func (e EdgeFlags) Has(f EdgeFlags) bool { return e&f == f }

// ErrDisplayWidth is returned when a keyboard is built without a usable
// reference width.
var ErrDisplayWidth = errors.New("layout: display width must be positive")

// ResourceID is an opaque handle produced by a Resolver. Zero means none.
type ResourceID int

// Resolver maps a resource name found in layout text to a handle.
type Resolver interface {
	Resolve(name string) (ResourceID, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (ResourceID, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (ResourceID, bool) { return f(name) }

// PopupTemplateName is the only popup template the built-in resolver knows.
const PopupTemplateName = "xml/keyboard_popup_template"

// DefaultPopupTemplates recognizes PopupTemplateName.
var DefaultPopupTemplates Resolver = ResolverFunc(func(name string) (ResourceID, bool) {
	if name == PopupTemplateName {
		return 1, true
	}
	return 0, false
})

// Options carries everything a build needs from the outside world.
type Options struct {
	// DisplayWidth is the reference width in pixels for percentages.
	DisplayWidth int

	// HeightMultiplier scales every row height. Zero means 1.0.
	HeightMultiplier float64

	// KeyHeight is the base row height used when the layout sets none.
	// Zero means DisplayWidth/10.
	KeyHeight int

	// Mode selects which rows are built.
	Mode int

	// EnterAction picks the Enter key icon.
	EnterAction InputAction

	// Icons resolves keyIcon names. Nil leaves every icon unresolved.
	Icons Resolver

	// PopupTemplates resolves popupKeyboard names. Nil means
	// DefaultPopupTemplates.
	PopupTemplates Resolver

	Logger *slog.Logger
}

func (o Options) multiplier() float64 {
	if o.HeightMultiplier <= 0 {
		return 1
	}
	return o.HeightMultiplier
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) popupTemplates() Resolver {
	if o.PopupTemplates == nil {
		return DefaultPopupTemplates
	}
	return o.PopupTemplates
}

// Keyboard is a fully laid out keyboard.
type Keyboard struct {
	displayWidth     int
	heightMultiplier float64
	mode             int

	defaultKeyWidth      int
	defaultKeyHeight     int
	defaultHorizontalGap int

	shift atomic.Int32

	rows []Row
	keys []*Key

	totalHeight int
	minWidth    int
}

// Row is one horizontal band of keys.
type Row struct {
	// Index is the row's position in its keyboard.
	Index int

	DefaultWidth         int
	DefaultHorizontalGap int

	// BaseHeight is the resolved height before the multiplier.
	BaseHeight int

	// DefaultHeight is BaseHeight times the keyboard's multiplier, rounded.
	DefaultHeight int

	// Y is the top of the row.
	Y int

	Keys []Key
}

// Key is a single keyboard button.
type Key struct {
	Code           int
	Label          string
	TopSmallNumber string

	// IconName is the keyIcon name, or the Enter icon chosen for the
	// requested action. Icon is its resolved handle.
	IconName string
	Icon     ResourceID

	// Width and Height exclude the gap.
	Width  int
	Height int

	// Gap is the horizontal space placed before the key.
	Gap int

	// X already includes Gap.
	X int
	Y int

	PopupCharacters string

	// PopupTemplateName is set only when the template was recognized.
	PopupTemplateName string
	PopupTemplate     ResourceID

	Edges      EdgeFlags
	Repeatable bool

	// Row is the index of the owning row.
	Row int

	// Touch state owned by the input handler.
	Pressed bool
	Focused bool
}

func newKeyboard(opts Options) (*Keyboard, error) {
	if opts.DisplayWidth <= 0 {
		return nil, ErrDisplayWidth
	}
	kb := &Keyboard{
		displayWidth:     opts.DisplayWidth,
		heightMultiplier: opts.multiplier(),
		mode:             opts.Mode,
		defaultKeyWidth:  opts.DisplayWidth / 10,
	}
	kb.defaultKeyHeight = opts.KeyHeight
	if kb.defaultKeyHeight <= 0 {
		kb.defaultKeyHeight = kb.defaultKeyWidth
	}
	return kb, nil
}

// index rebuilds the flat key view once rows are final.
func (kb *Keyboard) index() {
	kb.keys = kb.keys[:0]
	for i := range kb.rows {
		for j := range kb.rows[i].Keys {
			kb.keys = append(kb.keys, &kb.rows[i].Keys[j])
		}
	}
}

// DisplayWidth returns the reference width used for percentages.
func (kb *Keyboard) DisplayWidth() int { return kb.displayWidth }

// HeightMultiplier returns the row height scale factor.
func (kb *Keyboard) HeightMultiplier() float64 { return kb.heightMultiplier }

// Mode returns the mode the keyboard was built for.
func (kb *Keyboard) Mode() int { return kb.mode }

// DefaultKeyWidth returns the keyboard-level key width.
func (kb *Keyboard) DefaultKeyWidth() int { return kb.defaultKeyWidth }

// DefaultKeyHeight returns the keyboard-level base row height.
func (kb *Keyboard) DefaultKeyHeight() int { return kb.defaultKeyHeight }

// DefaultHorizontalGap returns the keyboard-level gap.
func (kb *Keyboard) DefaultHorizontalGap() int { return kb.defaultHorizontalGap }

// Rows returns the rows top to bottom.
func (kb *Keyboard) Rows() []Row { return kb.rows }

// Keys returns every key in row-major order.
func (kb *Keyboard) Keys() []*Key { return kb.keys }

// Height returns the total height of all rows.
func (kb *Keyboard) Height() int { return kb.totalHeight }

// MinWidth returns the rightmost key edge across all rows.
func (kb *Keyboard) MinWidth() int { return kb.minWidth }

// ShiftState returns the current shift state.
func (kb *Keyboard) ShiftState() ShiftState { return ShiftState(kb.shift.Load()) }

// SetShifted stores state and reports whether it changed.
func (kb *Keyboard) SetShifted(state ShiftState) bool {
	return kb.shift.Swap(int32(state)) != int32(state)
}

// HasKey reports whether any key produces code.
func (kb *Keyboard) HasKey(code int) bool {
	for _, k := range kb.keys {
		if k.Code == code {
			return true
		}
	}
	return false
}
