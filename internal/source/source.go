// Package source finds layout text for a keyboard language and builds it,
// falling back to the built-in layout when nothing better works.
package source

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"kblayout/internal/i18n"
	"kblayout/internal/layout"
)

// File extensions tried, in order.
const (
	Ext   = ".rmsl"
	GzExt = ".rmsl.gz"
)

// ErrNotFound is returned when a language has no layout file.
var ErrNotFound = errors.New("source: layout not found")

// Dir reads "<language>.rmsl" and "<language>.rmsl.gz" files.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path. The directory need not exist.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory.
func (d *Dir) Path() string { return d.path }

// Files returns the candidate file names for lang.
func (d *Dir) Files(lang i18n.Language) []string {
	base := strconv.Itoa(int(lang))
	return []string{
		filepath.Join(d.path, base+Ext),
		filepath.Join(d.path, base+GzExt),
	}
}

// Read returns the layout text for lang and the file it came from.
func (d *Dir) Read(lang i18n.Language) (string, string, error) {
	if d == nil || d.path == "" {
		return "", "", ErrNotFound
	}
	for _, name := range d.Files(lang) {
		text, err := ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", name, err
		}
		return text, name, nil
	}
	return "", "", fmt.Errorf("%w: language %d in %s", ErrNotFound, int(lang), d.path)
}

// Languages lists the languages that have a layout file, ascending.
func (d *Dir) Languages() ([]i18n.Language, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	seen := map[i18n.Language]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if lang, ok := LanguageOf(e.Name()); ok {
			seen[lang] = true
		}
	}
	out := make([]i18n.Language, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// LanguageOf parses a layout file name such as "2.rmsl" or "2.rmsl.gz".
func LanguageOf(name string) (i18n.Language, bool) {
	base := filepath.Base(name)
	switch {
	case strings.HasSuffix(base, GzExt):
		base = strings.TrimSuffix(base, GzExt)
	case strings.HasSuffix(base, Ext):
		base = strings.TrimSuffix(base, Ext)
	default:
		return 0, false
	}
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, false
	}
	return i18n.Language(n), true
}

// IsLayoutFile reports whether name looks like a layout file.
func IsLayoutFile(name string) bool {
	_, ok := LanguageOf(name)
	return ok
}

// ReadFile reads a layout file, decompressing ".gz" files.
func ReadFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("source: open %s: %w", name, err)
		}
		defer zr.Close()
		r = zr
	}
	text, err := ReadText(r)
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", name, err)
	}
	return text, nil
}

var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// ReadText reads layout text. Line breaks are not part of the format and
// are dropped, so lines are joined with nothing between them.
func ReadText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return lineBreaks.Replace(string(b)), nil
}

// Origin says where a built keyboard's text came from.
type Origin struct {
	// Requested is the language asked for.
	Requested i18n.Language
	// Language is the language whose text was used. Equal to Requested
	// unless a fallback happened.
	Language i18n.Language
	// Path is the file read, empty for the built-in layout.
	Path string
	// BuiltIn is set when the built-in layout was used.
	BuiltIn bool
}

// Fallback reports whether something other than the requested file was used.
func (o Origin) Fallback() bool {
	return o.BuiltIn || o.Language != o.Requested
}

// Load builds the keyboard for lang. It tries the language's file, then
// language 0's file, then the built-in layout. A candidate that cannot be
// read or built is skipped with a warning. An error is returned only when
// even the built-in layout fails, which means the options are unusable.
func Load(d *Dir, lang i18n.Language, opts layout.Options, log *slog.Logger) (*layout.Keyboard, Origin, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Logger == nil {
		opts.Logger = log
	}

	candidates := []i18n.Language{lang}
	if lang != i18n.EnglishQWERTY {
		candidates = append(candidates, i18n.EnglishQWERTY)
	}

	for _, c := range candidates {
		text, path, err := d.Read(c)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Debug("no layout file", "language", int(c), "dir", d.Path())
			} else {
				log.Warn("unreadable layout file", "language", int(c), "path", path, "error", err)
			}
			continue
		}
		kb, err := layout.Build(text, opts)
		if err != nil {
			log.Warn("discarding layout that failed to build", "language", int(c), "path", path, "error", err)
			continue
		}
		return kb, Origin{Requested: lang, Language: c, Path: path}, nil
	}

	kb, err := layout.Build(layout.DefaultLayout, opts)
	if err != nil {
		return nil, Origin{}, fmt.Errorf("source: built-in layout: %w", err)
	}
	log.Debug("using built-in layout", "language", int(lang))
	return kb, Origin{Requested: lang, Language: i18n.EnglishQWERTY, BuiltIn: true}, nil
}
