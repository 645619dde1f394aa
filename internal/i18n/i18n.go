// Package i18n holds the keyboard language table and its localized names.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Language identifies a keyboard layout family. The numeric value is also
// the layout file name, so it must stay stable.
type Language int

const (
	EnglishQWERTY Language = iota
	Russian
	FrenchAZERTY
	EnglishQWERTZ
	Spanish
	German
)

type languageInfo struct {
	id  string
	tag language.Tag
}

var table = []languageInfo{
	EnglishQWERTY: {"language_english_qwerty", language.English},
	Russian:       {"language_russian", language.Russian},
	FrenchAZERTY:  {"language_french_azerty", language.French},
	EnglishQWERTZ: {"language_english_qwertz", language.English},
	Spanish:       {"language_spanish", language.Spanish},
	German:        {"language_german", language.German},
}

// Languages returns every known language in table order.
func Languages() []Language {
	out := make([]Language, len(table))
	for i := range table {
		out[i] = Language(i)
	}
	return out
}

// Valid reports whether l is in the table.
func (l Language) Valid() bool {
	return l >= 0 && int(l) < len(table)
}

// Tag returns the BCP 47 tag of the language the layout types.
func (l Language) Tag() language.Tag {
	if !l.Valid() {
		return language.Und
	}
	return table[l].tag
}

// String returns the message ID used for the language's display name.
func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("language_%d", int(l))
	}
	return table[l].id
}

// Locale-driven defaults. Several layouts share a tag; the first one listed
// is the one picked for that locale.
var (
	defaultLanguages = []Language{EnglishQWERTY, Russian, FrenchAZERTY, Spanish, German}
	matcher          = language.NewMatcher(tags(defaultLanguages))
)

func tags(langs []Language) []language.Tag {
	out := make([]language.Tag, len(langs))
	for i, l := range langs {
		out[i] = l.Tag()
	}
	return out
}

// FromLocale picks the default keyboard language for a POSIX or BCP 47
// locale such as "ru_RU.UTF-8" or "fr-CA". Anything unrecognized gets
// EnglishQWERTY.
func FromLocale(locale string) Language {
	tag, err := language.Parse(normalizeLocale(locale))
	if err != nil {
		return EnglishQWERTY
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return EnglishQWERTY
	}
	return defaultLanguages[idx]
}

// SystemLocale returns the locale from the usual environment variables.
func SystemLocale() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// normalizeLocale turns "ru_RU.UTF-8@euro" into "ru-RU".
func normalizeLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
}

//go:embed messages/*.toml
var messageFS embed.FS

// Catalog resolves localized language names.
type Catalog struct {
	bundle *i18n.Bundle
}

// MessageFile is an extra message file to load on top of the built-in ones.
type MessageFile struct {
	Name    string
	Content []byte
}

// NewCatalog loads the embedded messages and any extra files. Extra file
// names must carry the language, as in "active.it.toml".
func NewCatalog(extra ...MessageFile) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := messageFS.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("i18n: read embedded messages: %w", err)
	}
	for _, e := range entries {
		name := path.Join("messages", e.Name())
		data, err := messageFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
	}
	for _, f := range extra {
		if _, err := bundle.ParseMessageFileBytes(f.Content, f.Name); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", f.Name, err)
		}
	}
	return &Catalog{bundle: bundle}, nil
}

// Name returns the display name of l in the given locale, falling back to
// English and then to the message ID.
func (c *Catalog) Name(l Language, locale string) string {
	localizer := i18n.NewLocalizer(c.bundle, normalizeLocale(locale), language.English.String())
	// A locale missing the message yields the English text plus an error.
	msg, _ := localizer.Localize(&i18n.LocalizeConfig{MessageID: l.String()})
	if msg == "" {
		return l.String()
	}
	return msg
}
