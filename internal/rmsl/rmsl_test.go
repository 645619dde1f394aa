package rmsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttr(t *testing.T) {
	tests := []struct {
		name string
		data string
		attr string
		def  string
		want string
	}{
		{"present", "\tkeyLabel q keyLabel\t", "keyLabel", "", "q"},
		{"missing returns default", "\tkeyLabel q keyLabel\t", "code", "0", "0"},
		{"first of many", "\tcode 1 code\t\tcode 2 code\t", "code", "", "1"},
		{"empty value", "\tkeyLabel  keyLabel\t", "keyLabel", "x", ""},
		{"prefix name does not match", "\tkeyWidthPx 40 keyWidthPx\t", "keyWidth", "none", "none"},
		{"unicode value", "\tpopupCharacters éè3êë popupCharacters\t", "popupCharacters", "", "éè3êë"},
		{"missing close", "\tkeyLabel q", "keyLabel", "d", "d"},
		{"close before open is ignored", " code\t\tcode 7 code\t", "code", "", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Attr(tt.data, tt.attr, tt.def))
		})
	}
}

func TestRemoveDropsEarlierSiblings(t *testing.T) {
	data := "\tkeyLabel a keyLabel\t\tcode 5 code\t\tkeyIcon x keyIcon\t"

	rest := Remove(data, "code")
	assert.Equal(t, "\tkeyIcon x keyIcon\t", rest)
	_, ok := Lookup(rest, "keyLabel")
	assert.False(t, ok, "sibling before the removed attribute must be gone")

	assert.Equal(t, "", Remove(data, "missing"))
}

func TestAttrsWalksForward(t *testing.T) {
	data := "\tkeyboardKeyWidth 10 keyboardKeyWidth\t" +
		"\trow \tkey \tkeyLabel a keyLabel\t key\t\tkey \tkeyLabel b keyLabel\t key\t row\t" +
		"\trow \tkey \tkeyLabel c keyLabel\t key\t row\t"

	rows := Attrs(data, "row")
	require.Len(t, rows, 2)

	first := Attrs(rows[0], "key")
	require.Len(t, first, 2)
	assert.Equal(t, "a", Attr(first[0], "keyLabel", ""))
	assert.Equal(t, "b", Attr(first[1], "keyLabel", ""))

	second := Attrs(rows[1], "key")
	require.Len(t, second, 1)
	assert.Equal(t, "c", Attr(second[0], "keyLabel", ""))

	// row text does not see keyboard-level attributes
	_, ok := Lookup(rows[0], "keyboardKeyWidth")
	assert.False(t, ok)

	assert.Empty(t, Attrs(data, "column"))
}

func TestBlocksUnterminated(t *testing.T) {
	data := "\trow \tkey \tkeyLabel a keyLabel\t key\t row\t\trow \tkey \tkeyLabel b"

	rows, err := Blocks(data, "row")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnterminated))
	assert.Len(t, rows, 1, "blocks before the failure are kept")

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "row", se.Name)
	assert.Equal(t, "\tkey \tkeyLabel b", data[se.Offset:])
}

func TestEncoderRoundTrip(t *testing.T) {
	var e Encoder
	e.Attr("keyboardKeyWidthPx", "108")
	e.Open("row")
	e.Attr("keyboardMode0", "true")
	e.Open("key")
	e.Attr("keyLabel", "q")
	e.AttrIf("keyIcon", "")
	e.Close()
	e.Open("key")
	e.Attr("keyLabel", "w")
	e.Close()
	e.Close()
	require.NoError(t, e.Err())

	text := e.String()
	assert.Equal(t, "108", Attr(text, "keyboardKeyWidthPx", ""))

	rows, err := Blocks(text, "row")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "true", Attr(rows[0], "keyboardMode0", ""))

	keys, err := Blocks(rows[0], "key")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "q", Attr(keys[0], "keyLabel", ""))
	_, ok := Lookup(keys[0], "keyIcon")
	assert.False(t, ok)
	assert.Equal(t, "w", Attr(keys[1], "keyLabel", ""))
}

func TestEncoderRejectsMarkerInValue(t *testing.T) {
	var e Encoder
	e.Attr("keyLabel", "a keyLabel\tb")
	assert.ErrorIs(t, e.Err(), ErrMarkerInValue)

	// writes after the first error are ignored
	e.Attr("code", "1")
	assert.Empty(t, e.String())
}

func TestEncoderUnbalanced(t *testing.T) {
	var open Encoder
	open.Open("row")
	assert.ErrorIs(t, open.Err(), ErrUnterminated)

	var closed Encoder
	closed.Close()
	assert.Error(t, closed.Err())
}
