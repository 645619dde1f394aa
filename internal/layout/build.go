package layout

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"kblayout/internal/rmsl"
)

// dimension lists the attribute names that can size one measurement, in
// precedence order. bare is the unsuffixed legacy name; bareIsPx says whether
// it holds pixels or a percentage.
type dimension struct {
	px, pct, bare string
	bareIsPx      bool
}

var (
	keyboardKeyWidth  = dimension{px: "keyboardKeyWidthPx", pct: "keyboardKeyWidth%", bare: "keyboardKeyWidth"}
	keyboardRowHeight = dimension{px: "keyboardRowHeightPx", pct: "keyboardRowHeight%", bare: "keyboardRowHeight", bareIsPx: true}
	keyboardHGap      = dimension{px: "keyboardHGapPx", pct: "keyboardHGap%"}

	rowKeyWidth = dimension{px: "rowKeyWidthPx", pct: "rowKeyWidth%", bare: "rowKeyWidth"}
	rowHeight   = dimension{px: "rowHeightPx", pct: "rowHeight%"}
	rowHGap     = dimension{px: "rowHGapPx", pct: "rowHGap%"}

	keyWidth  = dimension{px: "keyWidthPx", pct: "keyWidth%", bare: "keyWidth"}
	keyHeight = dimension{px: "keyHeightPx", pct: "keyHeight%"}
	keyHGap   = dimension{px: "hGapPx", pct: "hGap%"}
)

// Build parses layout text and lays out every row enabled for opts.Mode.
//
// Missing or malformed numeric attributes fall back to the inherited value.
// Only structural damage, such as a row or key block that never closes, is
// reported; in that case no keyboard is returned.
func Build(text string, opts Options) (*Keyboard, error) {
	kb, err := newKeyboard(opts)
	if err != nil {
		return nil, err
	}
	b := &builder{kb: kb, opts: opts, log: opts.logger().With("component", "layout")}

	kb.defaultKeyWidth = b.resolve(text, keyboardKeyWidth, kb.defaultKeyWidth)
	kb.defaultKeyHeight = b.resolve(text, keyboardRowHeight, kb.defaultKeyHeight)
	kb.defaultHorizontalGap = b.resolve(text, keyboardHGap, 0)

	rows, err := rmsl.Blocks(text, "row")
	if err != nil {
		return nil, fmt.Errorf("layout: split rows: %w", err)
	}

	y := 0
	for i, rowText := range rows {
		if !b.modeEnabled(rowText) {
			continue
		}
		row := b.row(rowText)
		row.Index = len(kb.rows)
		row.Y = y

		keys, err := rmsl.Blocks(rowText, "key")
		if err != nil {
			return nil, fmt.Errorf("layout: split keys of row %d: %w", i, err)
		}

		x := 0
		for _, keyText := range keys {
			key := b.key(&row, keyText)
			key.X = x + key.Gap
			key.Y = y
			row.Keys = append(row.Keys, key)
			x += key.Gap + key.Width
			kb.minWidth = max(kb.minWidth, x)
		}

		kb.rows = append(kb.rows, row)
		y += row.DefaultHeight
	}
	kb.totalHeight = y
	kb.index()

	b.log.Debug("keyboard built",
		"mode", kb.mode,
		"rows", len(kb.rows),
		"keys", len(kb.keys),
		"width", kb.minWidth,
		"height", kb.totalHeight)
	return kb, nil
}

type builder struct {
	kb   *Keyboard
	opts Options
	log  *slog.Logger
}

// modeEnabled reports whether the row carries a truthy marker for the
// requested mode.
func (b *builder) modeEnabled(rowText string) bool {
	v, ok := rmsl.Lookup(rowText, ModeAttr(b.kb.mode))
	if !ok {
		return false
	}
	on, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && on
}

// ModeAttr returns the row attribute that enables a row for mode.
func ModeAttr(mode int) string {
	return "keyboardMode" + strconv.Itoa(mode)
}

func (b *builder) row(text string) Row {
	kb := b.kb
	row := Row{
		DefaultWidth:         b.resolve(text, rowKeyWidth, kb.defaultKeyWidth),
		DefaultHorizontalGap: b.resolve(text, rowHGap, kb.defaultHorizontalGap),
		BaseHeight:           b.resolve(text, rowHeight, kb.defaultKeyHeight),
	}
	row.DefaultHeight = round(float64(row.BaseHeight) * kb.heightMultiplier)
	return row
}

func (b *builder) key(row *Row, text string) Key {
	k := Key{
		Row:    row.Index,
		Width:  b.resolve(text, keyWidth, row.DefaultWidth),
		Height: b.resolve(text, keyHeight, row.DefaultHeight),
		Gap:    b.resolve(text, keyHGap, row.DefaultHorizontalGap),

		Label:           rmsl.Attr(text, "keyLabel", ""),
		TopSmallNumber:  rmsl.Attr(text, "topSmallNumber", ""),
		PopupCharacters: rmsl.Attr(text, "popupCharacters", ""),
		Edges:           parseEdgeFlags(rmsl.Attr(text, "keyEdgeFlags", "")),
		Repeatable:      rmsl.Attr(text, "isRepeatable", "") == "true",
	}

	if v, ok := rmsl.Lookup(text, "code"); ok {
		code, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			b.log.Debug("ignoring malformed key code", "value", v, "error", err)
		} else {
			k.Code = code
		}
	}
	if k.Label != "" && k.Code != CodeShift && k.Code != CodeModeChange {
		r, _ := utf8.DecodeRuneInString(k.Label)
		k.Code = int(r)
	}

	k.IconName = rmsl.Attr(text, "keyIcon", "")
	if k.Code == CodeEnter {
		k.IconName = ResolveEnterIcon(b.opts.EnterAction)
	}
	if k.IconName != "" && b.opts.Icons != nil {
		if id, ok := b.opts.Icons.Resolve(k.IconName); ok {
			k.Icon = id
		}
	}

	if name := rmsl.Attr(text, "popupKeyboard", ""); name != "" {
		if id, ok := b.opts.popupTemplates().Resolve(name); ok {
			k.PopupTemplateName = name
			k.PopupTemplate = id
		} else {
			b.log.Debug("unknown popup template", "name", name, "label", k.Label)
		}
	}
	return k
}

// maxDimension bounds any resolved size, in pixels.
const maxDimension = math.MaxInt32

// resolve walks d's attribute names in precedence order and returns the
// first one that parses, or parent.
func (b *builder) resolve(text string, d dimension, parent int) int {
	if v, ok := b.pixels(text, d.px, false); ok {
		return v
	}
	if d.bare != "" && d.bareIsPx {
		if v, ok := b.pixels(text, d.bare, false); ok {
			return v
		}
	}
	if v, ok := b.pixels(text, d.pct, true); ok {
		return v
	}
	if d.bare != "" && !d.bareIsPx {
		if v, ok := b.pixels(text, d.bare, true); ok {
			return v
		}
	}
	return parent
}

// pixels reads name as a pixel or percent value. Values whose pixel size
// exceeds maxDimension count as malformed.
func (b *builder) pixels(text, name string, pct bool) (int, bool) {
	v, ok := b.number(text, name)
	if !ok {
		return 0, false
	}
	if pct {
		v = v * float64(b.kb.displayWidth) / 100
	}
	if math.Abs(v) > maxDimension {
		b.log.Debug("ignoring out of range dimension", "attr", name, "pixels", v)
		return 0, false
	}
	return round(v), true
}

func (b *builder) number(text, name string) (float64, bool) {
	v, ok := rmsl.Lookup(text, name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		b.log.Debug("ignoring malformed dimension", "attr", name, "value", v)
		return 0, false
	}
	return f, true
}

// round rounds half up.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func parseEdgeFlags(s string) EdgeFlags {
	var e EdgeFlags
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(part) {
		case "left":
			e |= EdgeLeft
		case "right":
			e |= EdgeRight
		}
	}
	return e
}

func (e EdgeFlags) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeLeft | EdgeRight:
		return "left|right"
	default:
		return ""
	}
}
