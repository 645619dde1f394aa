package source

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kblayout/internal/i18n"
	"kblayout/internal/layout"
)

// oneRow returns a layout with a single mode-0 row holding the given labels.
func oneRow(labels ...string) string {
	var b strings.Builder
	b.WriteString("\trow \tkeyboardMode0 true keyboardMode0\t")
	for _, l := range labels {
		b.WriteString("\tkey \tkeyLabel " + l + " keyLabel\t key\t")
	}
	b.WriteString(" row\t")
	return b.String()
}

const broken = "\trow \tkeyboardMode0 true keyboardMode0\t\tkey \tkeyLabel a keyLabel\t row\t"

var opts = layout.Options{DisplayWidth: 1000}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func writeGz(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
}

func labels(kb *layout.Keyboard) []string {
	var out []string
	for _, k := range kb.Keys() {
		out = append(out, k.Label)
	}
	return out
}

func TestReadTextJoinsLines(t *testing.T) {
	text, err := ReadText(strings.NewReader("\trow \tkeyboardMode0 true\r\n keyboardMode0\t\n row\t\n"))
	require.NoError(t, err)
	assert.Equal(t, "\trow \tkeyboardMode0 true keyboardMode0\t row\t", text)
}

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		name string
		lang i18n.Language
		ok   bool
	}{
		{"0.rmsl", 0, true},
		{"/a/b/3.rmsl.gz", 3, true},
		{"12.rmsl", 12, true},
		{"en.rmsl", 0, false},
		{"-1.rmsl", 0, false},
		{"1.xml", 0, false},
		{"1.rmsl.bak", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := LanguageOf(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.lang, lang)
			}
			assert.Equal(t, tt.ok, IsLayoutFile(tt.name))
		})
	}
}

func TestDirRead(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "1.rmsl"), oneRow("й", "ц"))
	writeGz(t, filepath.Join(dir, "2.rmsl.gz"), oneRow("a", "z")+"\n")
	write(t, filepath.Join(dir, "readme.txt"), "ignored")

	d := NewDir(dir)

	text, path, err := d.Read(i18n.Russian)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1.rmsl"), path)
	assert.Equal(t, oneRow("й", "ц"), text)

	text, path, err = d.Read(i18n.FrenchAZERTY)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2.rmsl.gz"), path)
	assert.Equal(t, oneRow("a", "z"), text)

	_, _, err = d.Read(i18n.German)
	assert.ErrorIs(t, err, ErrNotFound)

	langs, err := d.Languages()
	require.NoError(t, err)
	assert.Equal(t, []i18n.Language{i18n.Russian, i18n.FrenchAZERTY}, langs)

	_, _, err = NewDir("").Read(i18n.EnglishQWERTY)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadFileCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.rmsl.gz")
	write(t, path, "not gzip")
	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestLoadFallbackChain(t *testing.T) {
	dir := t.TempDir()
	d := NewDir(dir)

	// nothing on disk: built-in layout
	kb, origin, err := Load(d, i18n.Russian, opts, nil)
	require.NoError(t, err)
	assert.True(t, origin.BuiltIn)
	assert.True(t, origin.Fallback())
	assert.Empty(t, origin.Path)
	assert.Len(t, kb.Keys(), 33)

	// language 0 on disk
	write(t, filepath.Join(dir, "0.rmsl"), oneRow("q", "w"))
	kb, origin, err = Load(d, i18n.Russian, opts, nil)
	require.NoError(t, err)
	assert.False(t, origin.BuiltIn)
	assert.Equal(t, i18n.EnglishQWERTY, origin.Language)
	assert.Equal(t, []string{"q", "w"}, labels(kb))

	// requested language on disk
	write(t, filepath.Join(dir, "1.rmsl"), oneRow("й", "ц", "у"))
	kb, origin, err = Load(d, i18n.Russian, opts, nil)
	require.NoError(t, err)
	assert.False(t, origin.Fallback())
	assert.Equal(t, filepath.Join(dir, "1.rmsl"), origin.Path)
	assert.Equal(t, []string{"й", "ц", "у"}, labels(kb))
}

func TestLoadDiscardsBrokenLayouts(t *testing.T) {
	dir := t.TempDir()
	d := NewDir(dir)
	write(t, filepath.Join(dir, "1.rmsl"), broken)
	write(t, filepath.Join(dir, "0.rmsl"), oneRow("q"))

	kb, origin, err := Load(d, i18n.Russian, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, i18n.EnglishQWERTY, origin.Language)
	assert.Equal(t, []string{"q"}, labels(kb))

	write(t, filepath.Join(dir, "0.rmsl"), broken)
	kb, origin, err = Load(d, i18n.Russian, opts, nil)
	require.NoError(t, err)
	assert.True(t, origin.BuiltIn)
	assert.Len(t, kb.Rows(), 4)
}

func TestLoadBadOptions(t *testing.T) {
	_, _, err := Load(NewDir(t.TempDir()), i18n.EnglishQWERTY, layout.Options{}, nil)
	assert.ErrorIs(t, err, layout.ErrDisplayWidth)
}

func TestManagerLanguageAndOptions(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "0.rmsl"), oneRow("q", "w"))
	write(t, filepath.Join(dir, "5.rmsl"), oneRow("ü"))

	m := NewManager(dir, i18n.EnglishQWERTY, opts, nil)
	assert.Nil(t, m.Keyboard())

	var reloads int
	m.OnReload(func(*layout.Keyboard, Origin) { reloads++ })

	kb, _, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "w"}, labels(kb))
	assert.Same(t, kb, m.Keyboard())

	kb, err = m.SetLanguage(i18n.German)
	require.NoError(t, err)
	assert.Equal(t, []string{"ü"}, labels(kb))
	assert.Equal(t, i18n.German, m.Language())
	assert.Equal(t, i18n.German, m.Origin().Language)

	kb, err = m.SetOptions(layout.Options{DisplayWidth: 500, HeightMultiplier: 1.4})
	require.NoError(t, err)
	assert.Equal(t, 50, kb.DefaultKeyWidth())
	assert.Equal(t, 3, reloads)

	_, err = m.SetOptions(layout.Options{})
	assert.Error(t, err)
	assert.Equal(t, 500, m.Keyboard().DisplayWidth(), "failed rebuild keeps the previous keyboard")

	assert.NoError(t, m.Close(), "closing a manager that never watched")
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.rmsl")
	write(t, path, oneRow("й"))

	m := NewManager(dir, i18n.Russian, opts, nil)
	_, _, err := m.Load()
	require.NoError(t, err)

	reloaded := make(chan *layout.Keyboard, 4)
	m.OnReload(func(kb *layout.Keyboard, _ Origin) { reloaded <- kb })

	require.NoError(t, m.Watch(context.Background(), 50*time.Millisecond))
	defer m.Close()
	assert.Error(t, m.Watch(context.Background(), 0), "second watch is rejected")

	// an unrelated language does not trigger a rebuild
	write(t, filepath.Join(dir, "4.rmsl"), oneRow("ñ"))
	write(t, path, oneRow("й", "ц"))

	select {
	case kb := <-reloaded:
		assert.Equal(t, []string{"й", "ц"}, labels(kb))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	require.NoError(t, os.Remove(path))
	select {
	case kb := <-reloaded:
		assert.Len(t, kb.Rows(), 4, "built-in layout after the file disappears")
		assert.True(t, m.Origin().BuiltIn)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload after removal")
	}
}

func TestManagerWatchMissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"), 0, opts, nil)
	assert.Error(t, m.Watch(context.Background(), 0))
}

func TestManagerConcurrentWatch(t *testing.T) {
	m := NewManager(t.TempDir(), i18n.EnglishQWERTY, opts, nil)
	defer m.Close()

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.Watch(context.Background(), 50*time.Millisecond)
		}()
	}
	wg.Wait()
	close(errs)

	started := 0
	for err := range errs {
		if err == nil {
			started++
		}
	}
	assert.Equal(t, 1, started, "exactly one watcher runs")

	require.NoError(t, m.Close())
	require.NoError(t, m.Watch(context.Background(), 50*time.Millisecond), "watching again after close")
}
