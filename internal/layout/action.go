package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// InputAction is the editor action the Enter key performs.
type InputAction int

const (
	ActionDefault InputAction = iota
	ActionSearch
	ActionNext
	ActionGo
	ActionSend
)

var actionNames = map[InputAction]string{
	ActionDefault: "default",
	ActionSearch:  "search",
	ActionNext:    "next",
	ActionGo:      "go",
	ActionSend:    "send",
}

func (a InputAction) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "default"
}

// ParseInputAction accepts an action name. Unknown names map to
// ActionDefault and report false.
func ParseInputAction(s string) (InputAction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return ActionDefault, false
}

// Enter key icon names.
const (
	IconSearch = "ic_search_vector"
	IconArrow  = "ic_arrow_right_vector"
	IconSend   = "ic_send_vector"
	IconEnter  = "ic_enter_vector"
)

// ResolveEnterIcon picks the Enter key icon for action.
func ResolveEnterIcon(action InputAction) string {
	switch action {
	case ActionSearch:
		return IconSearch
	case ActionNext, ActionGo:
		return IconArrow
	case ActionSend:
		return IconSend
	default:
		return IconEnter
	}
}

// HeightSetting is the user's keyboard height preference.
type HeightSetting int

const (
	HeightSmall  HeightSetting = 1
	HeightMedium HeightSetting = 2
	HeightLarge  HeightSetting = 3
)

// Multiplier returns the row height scale for h. Unknown settings scale by 1.
func (h HeightSetting) Multiplier() float64 {
	switch h {
	case HeightMedium:
		return 1.2
	case HeightLarge:
		return 1.4
	default:
		return 1.0
	}
}

func (h HeightSetting) String() string {
	switch h {
	case HeightSmall:
		return "small"
	case HeightMedium:
		return "medium"
	case HeightLarge:
		return "large"
	default:
		return strconv.Itoa(int(h))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (h HeightSetting) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText accepts "small", "medium", "large" or their numeric values.
func (h *HeightSetting) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	switch s {
	case "small":
		*h = HeightSmall
	case "medium":
		*h = HeightMedium
	case "large":
		*h = HeightLarge
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid height setting %q", s)
		}
		*h = HeightSetting(n)
	}
	return nil
}
