package layout

import (
	"strconv"

	"kblayout/internal/rmsl"
)

// MarshalRMSL writes kb back out as layout text. Every size is emitted in
// pixels, so building the result with the same display width and mode
// reproduces the same geometry.
func (kb *Keyboard) MarshalRMSL() (string, error) {
	var e rmsl.Encoder
	e.Attr("keyboardKeyWidthPx", strconv.Itoa(kb.defaultKeyWidth))
	e.Attr("keyboardRowHeightPx", strconv.Itoa(kb.defaultKeyHeight))
	e.Attr("keyboardHGapPx", strconv.Itoa(kb.defaultHorizontalGap))

	for _, row := range kb.rows {
		e.Open("row")
		e.Attr(ModeAttr(kb.mode), "true")
		e.Attr("rowKeyWidthPx", strconv.Itoa(row.DefaultWidth))
		e.Attr("rowHeightPx", strconv.Itoa(row.BaseHeight))
		e.Attr("rowHGapPx", strconv.Itoa(row.DefaultHorizontalGap))
		for i := range row.Keys {
			encodeKey(&e, &row.Keys[i], &row)
		}
		e.Close()
	}
	return e.String(), e.Err()
}

func encodeKey(e *rmsl.Encoder, k *Key, row *Row) {
	e.Open("key")
	e.Attr("code", strconv.Itoa(k.Code))
	e.AttrIf("keyLabel", k.Label)
	e.AttrIf("topSmallNumber", k.TopSmallNumber)
	e.AttrIf("keyIcon", k.IconName)
	e.Attr("keyWidthPx", strconv.Itoa(k.Width))
	if k.Height != row.DefaultHeight {
		e.Attr("keyHeightPx", strconv.Itoa(k.Height))
	}
	e.Attr("hGapPx", strconv.Itoa(k.Gap))
	e.AttrIf("keyEdgeFlags", k.Edges.String())
	e.AttrIf("popupCharacters", k.PopupCharacters)
	e.AttrIf("popupKeyboard", k.PopupTemplateName)
	if k.Repeatable {
		e.Attr("isRepeatable", "true")
	}
	e.Close()
}
