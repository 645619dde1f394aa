package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"kblayout/internal/layout"
)

func buildDefault(t *testing.T) *layout.Keyboard {
	t.Helper()
	kb, err := layout.Build(layout.DefaultLayout, layout.Options{
		DisplayWidth:     1000,
		HeightMultiplier: 1.2,
		EnterAction:      layout.ActionSearch,
	})
	require.NoError(t, err)
	return kb
}

func TestFromKeyboard(t *testing.T) {
	kb := buildDefault(t)
	kb.SetShifted(layout.ShiftLocked)

	doc := FromKeyboard(kb)
	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, 1000, doc.DisplayWidth)
	assert.Equal(t, 1.2, doc.HeightMultiplier)
	assert.Equal(t, kb.Height(), doc.Height)
	assert.Equal(t, kb.MinWidth(), doc.Width)
	assert.Equal(t, "locked", doc.Shift)
	require.Len(t, doc.Rows, 4)
	assert.Equal(t, 120, doc.Rows[0].Height)
	assert.Equal(t, 100, doc.Rows[0].BaseHeight)

	q := doc.Rows[0].Keys[0]
	assert.Equal(t, "q", q.Label)
	assert.Equal(t, []string{"left"}, q.Edges)
	require.NotNil(t, q.Popup)
	assert.Equal(t, "1", q.Popup.Characters)
	assert.Equal(t, layout.PopupTemplateName, q.Popup.Template)

	last := doc.Rows[3].Keys[len(doc.Rows[3].Keys)-1]
	assert.Equal(t, layout.CodeEnter, last.Code)
	assert.Equal(t, layout.IconSearch, last.Icon)
	assert.Nil(t, last.Popup)
}

func TestJSONValidates(t *testing.T) {
	kb := buildDefault(t)

	data, err := JSON(kb)
	require.NoError(t, err)
	require.NoError(t, Validate(data))
	require.NoError(t, ValidateKeyboard(kb))

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, FromKeyboard(kb), doc)
}

func TestYAMLValidates(t *testing.T) {
	kb := buildDefault(t)

	data, err := YAML(kb)
	require.NoError(t, err)
	require.NoError(t, ValidateYAML(data))

	var doc Document
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, FromKeyboard(kb), doc)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing rows", `{"version":1,"display_width":10,"height_multiplier":1,"mode":0,"width":0,"height":0}`},
		{"wrong version", `{"version":2,"display_width":10,"height_multiplier":1,"mode":0,"width":0,"height":0,"rows":[]}`},
		{"bad edge", `{"version":1,"display_width":10,"height_multiplier":1,"mode":0,"width":0,"height":0,"rows":[
			{"index":0,"y":0,"height":1,"keys":[{"code":1,"x":0,"y":0,"width":1,"height":1,"edges":["top"]}]}]}`},
		{"unknown field", `{"version":1,"display_width":10,"height_multiplier":1,"mode":0,"width":0,"height":0,"rows":[],"extra":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(tt.doc)))
		})
	}
}

func TestWrite(t *testing.T) {
	kb := buildDefault(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, kb, FormatJSON))
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	buf.Reset()
	require.NoError(t, Write(&buf, kb, FormatYAML))
	assert.Contains(t, buf.String(), "display_width: 1000")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	assert.Equal(t, "yaml", FormatYAML.String())
}

func TestSchemaIsCopy(t *testing.T) {
	s := Schema()
	s[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}
