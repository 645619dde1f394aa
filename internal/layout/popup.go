package layout

import "fmt"

// MaxPopupColumns is the widest a popup grid row gets.
const MaxPopupColumns = 9

// NewPopupKeyboard lays out one key per character of characters in a grid of
// at most MaxPopupColumns per row. template supplies keyboard-level
// attributes only and may be empty; any rows it holds are ignored. Every key
// is keyWidth wide and produces its character's code. The grid always has at
// least one row, so an empty characters string gives one empty row.
func NewPopupKeyboard(template, characters string, keyWidth int, opts Options) (*Keyboard, error) {
	kb, err := newKeyboard(opts)
	if err != nil {
		return nil, err
	}
	if keyWidth <= 0 {
		return nil, fmt.Errorf("layout: popup key width must be positive, got %d", keyWidth)
	}
	b := &builder{kb: kb, opts: opts, log: opts.logger().With("component", "layout")}
	kb.defaultKeyWidth = keyWidth
	kb.defaultKeyHeight = b.resolve(template, keyboardRowHeight, kb.defaultKeyHeight)
	kb.defaultHorizontalGap = b.resolve(template, keyboardHGap, 0)

	height := round(float64(kb.defaultKeyHeight) * kb.heightMultiplier)
	var row *Row
	col, x, y := 0, 0, 0
	for _, r := range characters {
		if row == nil || col >= MaxPopupColumns {
			if row != nil {
				y += row.DefaultHeight
			}
			kb.rows = append(kb.rows, Row{
				Index:                len(kb.rows),
				DefaultWidth:         keyWidth,
				DefaultHorizontalGap: kb.defaultHorizontalGap,
				BaseHeight:           kb.defaultKeyHeight,
				DefaultHeight:        height,
				Y:                    y,
			})
			row = &kb.rows[len(kb.rows)-1]
			col, x = 0, 0
		}
		gap := kb.defaultHorizontalGap
		row.Keys = append(row.Keys, Key{
			Code:   int(r),
			Label:  string(r),
			Width:  keyWidth,
			Height: height,
			Gap:    gap,
			X:      x + gap,
			Y:      y,
			Row:    row.Index,
		})
		x += gap + keyWidth
		kb.minWidth = max(kb.minWidth, x)
		col++
	}
	if row == nil {
		kb.rows = append(kb.rows, Row{
			DefaultWidth:         keyWidth,
			DefaultHorizontalGap: kb.defaultHorizontalGap,
			BaseHeight:           kb.defaultKeyHeight,
			DefaultHeight:        height,
		})
	}
	kb.totalHeight = y + height
	kb.index()
	return kb, nil
}
