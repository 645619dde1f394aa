// Package export renders a laid out keyboard as JSON or YAML and checks
// exported documents against the published schema.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"kblayout/internal/layout"
)

// Version is the document format version.
const Version = 1

// SchemaURL identifies the embedded schema.
const SchemaURL = "https://kblayout.dev/schema/keyboard-v1.schema.json"

//go:embed schema/keyboard-v1.schema.json
var schemaJSON []byte

// Schema returns the raw JSON schema.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Document is the exported form of a keyboard.
type Document struct {
	Version              int     `json:"version" yaml:"version"`
	DisplayWidth         int     `json:"display_width" yaml:"display_width"`
	HeightMultiplier     float64 `json:"height_multiplier" yaml:"height_multiplier"`
	Mode                 int     `json:"mode" yaml:"mode"`
	DefaultKeyWidth      int     `json:"default_key_width" yaml:"default_key_width"`
	DefaultKeyHeight     int     `json:"default_key_height" yaml:"default_key_height"`
	DefaultHorizontalGap int     `json:"default_horizontal_gap" yaml:"default_horizontal_gap"`
	Width                int     `json:"width" yaml:"width"`
	Height               int     `json:"height" yaml:"height"`
	Shift                string  `json:"shift" yaml:"shift"`
	Rows                 []Row   `json:"rows" yaml:"rows"`
}

// Row is an exported row.
type Row struct {
	Index                int   `json:"index" yaml:"index"`
	Y                    int   `json:"y" yaml:"y"`
	Height               int   `json:"height" yaml:"height"`
	BaseHeight           int   `json:"base_height" yaml:"base_height"`
	DefaultKeyWidth      int   `json:"default_key_width" yaml:"default_key_width"`
	DefaultHorizontalGap int   `json:"default_horizontal_gap" yaml:"default_horizontal_gap"`
	Keys                 []Key `json:"keys" yaml:"keys"`
}

// Key is an exported key.
type Key struct {
	Code           int      `json:"code" yaml:"code"`
	Label          string   `json:"label,omitempty" yaml:"label,omitempty"`
	TopSmallNumber string   `json:"top_small_number,omitempty" yaml:"top_small_number,omitempty"`
	Icon           string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	X              int      `json:"x" yaml:"x"`
	Y              int      `json:"y" yaml:"y"`
	Width          int      `json:"width" yaml:"width"`
	Height         int      `json:"height" yaml:"height"`
	Gap            int      `json:"gap,omitempty" yaml:"gap,omitempty"`
	Edges          []string `json:"edges,omitempty" yaml:"edges,omitempty"`
	Repeatable     bool     `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Popup          *Popup   `json:"popup,omitempty" yaml:"popup,omitempty"`
}

// Popup describes a key's long-press characters.
type Popup struct {
	Characters string `json:"characters" yaml:"characters"`
	Template   string `json:"template,omitempty" yaml:"template,omitempty"`
}

// FromKeyboard converts kb into a Document.
func FromKeyboard(kb *layout.Keyboard) Document {
	doc := Document{
		Version:              Version,
		DisplayWidth:         kb.DisplayWidth(),
		HeightMultiplier:     kb.HeightMultiplier(),
		Mode:                 kb.Mode(),
		DefaultKeyWidth:      kb.DefaultKeyWidth(),
		DefaultKeyHeight:     kb.DefaultKeyHeight(),
		DefaultHorizontalGap: kb.DefaultHorizontalGap(),
		Width:                kb.MinWidth(),
		Height:               kb.Height(),
		Shift:                kb.ShiftState().String(),
		Rows:                 make([]Row, 0, len(kb.Rows())),
	}
	for _, r := range kb.Rows() {
		row := Row{
			Index:                r.Index,
			Y:                    r.Y,
			Height:               r.DefaultHeight,
			BaseHeight:           r.BaseHeight,
			DefaultKeyWidth:      r.DefaultWidth,
			DefaultHorizontalGap: r.DefaultHorizontalGap,
			Keys:                 make([]Key, 0, len(r.Keys)),
		}
		for i := range r.Keys {
			row.Keys = append(row.Keys, fromKey(&r.Keys[i]))
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

func fromKey(k *layout.Key) Key {
	out := Key{
		Code:           k.Code,
		Label:          k.Label,
		TopSmallNumber: k.TopSmallNumber,
		Icon:           k.IconName,
		X:              k.X,
		Y:              k.Y,
		Width:          k.Width,
		Height:         k.Height,
		Gap:            k.Gap,
		Repeatable:     k.Repeatable,
	}
	if k.Edges.Has(layout.EdgeLeft) {
		out.Edges = append(out.Edges, "left")
	}
	if k.Edges.Has(layout.EdgeRight) {
		out.Edges = append(out.Edges, "right")
	}
	if k.PopupCharacters != "" {
		out.Popup = &Popup{Characters: k.PopupCharacters, Template: k.PopupTemplateName}
	}
	return out
}

// Format selects the output encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ParseFormat parses "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("export: unknown format %q", s)
	}
}

// JSON returns the indented JSON document for kb.
func JSON(kb *layout.Keyboard) ([]byte, error) {
	return json.MarshalIndent(FromKeyboard(kb), "", "  ")
}

// YAML returns the YAML document for kb.
func YAML(kb *layout.Keyboard) ([]byte, error) {
	return yaml.Marshal(FromKeyboard(kb))
}

// Write encodes kb to w.
func Write(w io.Writer, kb *layout.Keyboard, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = YAML(kb)
	default:
		data, err = JSON(kb)
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(SchemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("export: add schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(SchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("export: compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks a JSON document against the schema.
func Validate(data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("export: unmarshal: %w", err)
	}
	return validate(instance)
}

// ValidateYAML checks a YAML document against the schema.
func ValidateYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("export: unmarshal: %w", err)
	}
	// Re-encode so numbers and maps take their JSON shapes.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("export: convert yaml: %w", err)
	}
	return Validate(raw)
}

// ValidateKeyboard exports kb and validates the result.
func ValidateKeyboard(kb *layout.Keyboard) error {
	data, err := JSON(kb)
	if err != nil {
		return err
	}
	return Validate(data)
}

func validate(instance any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	if err := s.Validate(instance); err != nil {
		return fmt.Errorf("export: schema validation: %w", err)
	}
	return nil
}
