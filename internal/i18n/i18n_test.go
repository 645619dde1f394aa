package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLanguageTable(t *testing.T) {
	langs := Languages()
	require.Len(t, langs, 6)
	for i, l := range langs {
		assert.Equal(t, Language(i), l)
		assert.True(t, l.Valid())
	}
	assert.Equal(t, 1, int(Russian))
	assert.Equal(t, 5, int(German))
	assert.Equal(t, language.French, FrenchAZERTY.Tag())

	assert.False(t, Language(6).Valid())
	assert.False(t, Language(-1).Valid())
	assert.Equal(t, language.Und, Language(42).Tag())
	assert.Equal(t, "language_42", Language(42).String())
}

func TestFromLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   Language
	}{
		{"ru_RU.UTF-8", Russian},
		{"ru", Russian},
		{"en_US.UTF-8", EnglishQWERTY},
		{"fr_CA", FrenchAZERTY},
		{"de-AT", German},
		{"es_MX.UTF-8@euro", Spanish},
		{"ja_JP.UTF-8", EnglishQWERTY},
		{"C", EnglishQWERTY},
		{"", EnglishQWERTY},
		{"not a locale", EnglishQWERTY},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, FromLocale(tt.locale))
		})
	}
}

func TestSystemLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "ru_RU.UTF-8")
	assert.Equal(t, "ru_RU.UTF-8", SystemLocale())

	t.Setenv("LC_ALL", "de_DE.UTF-8")
	assert.Equal(t, "de_DE.UTF-8", SystemLocale())
}

func TestCatalogName(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	assert.Equal(t, "Russian", c.Name(Russian, "en"))
	assert.Equal(t, "Русский", c.Name(Russian, "ru_RU.UTF-8"))
	assert.Equal(t, "Français (AZERTY)", c.Name(FrenchAZERTY, "fr"))
	assert.Equal(t, "German", c.Name(German, "ja"), "unknown locale falls back to English")
	assert.Equal(t, "language_9", c.Name(Language(9), "en"))
}

func TestCatalogExtraFiles(t *testing.T) {
	c, err := NewCatalog(MessageFile{
		Name:    "active.it.toml",
		Content: []byte("[language_german]\nother = \"Tedesco\"\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tedesco", c.Name(German, "it_IT"))
	assert.Equal(t, "Spanish", c.Name(Spanish, "it_IT"))

	_, err = NewCatalog(MessageFile{Name: "active.it.toml", Content: []byte("not = [toml")})
	assert.Error(t, err)
}
