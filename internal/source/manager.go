package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"kblayout/internal/i18n"
	"kblayout/internal/layout"
	"kblayout/internal/watcher"
)

// Manager holds the active keyboard for one language and rebuilds it when
// its layout files change on disk.
type Manager struct {
	dir *Dir
	log *slog.Logger

	mu       sync.RWMutex
	lang     i18n.Language
	opts     layout.Options
	kb       *layout.Keyboard
	origin   Origin
	onReload []func(*layout.Keyboard, Origin)

	w      *watcher.Watcher
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a manager. Nothing is built until Load.
func NewManager(dir string, lang i18n.Language, opts layout.Options, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		dir:  NewDir(dir),
		log:  log.With("component", "source"),
		lang: lang,
		opts: opts,
	}
}

// Load builds the keyboard for the current language and options.
func (m *Manager) Load() (*layout.Keyboard, Origin, error) {
	m.mu.Lock()
	lang, opts := m.lang, m.opts
	m.mu.Unlock()

	kb, origin, err := Load(m.dir, lang, opts, m.log)
	if err != nil {
		return nil, Origin{}, err
	}

	m.mu.Lock()
	m.kb, m.origin = kb, origin
	callbacks := append([]func(*layout.Keyboard, Origin){}, m.onReload...)
	m.mu.Unlock()

	if origin.Fallback() {
		m.log.Info("layout fallback", "requested", int(lang), "used", int(origin.Language), "built_in", origin.BuiltIn)
	}
	for _, cb := range callbacks {
		cb(kb, origin)
	}
	return kb, origin, nil
}

// Keyboard returns the active keyboard, nil before the first Load.
func (m *Manager) Keyboard() *layout.Keyboard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kb
}

// Origin returns where the active keyboard came from.
func (m *Manager) Origin() Origin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.origin
}

// Language returns the requested language.
func (m *Manager) Language() i18n.Language {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lang
}

// SetLanguage switches language and rebuilds.
func (m *Manager) SetLanguage(lang i18n.Language) (*layout.Keyboard, error) {
	m.mu.Lock()
	m.lang = lang
	m.mu.Unlock()
	kb, _, err := m.Load()
	return kb, err
}

// SetOptions replaces the build options and rebuilds.
func (m *Manager) SetOptions(opts layout.Options) (*layout.Keyboard, error) {
	m.mu.Lock()
	m.opts = opts
	m.mu.Unlock()
	kb, _, err := m.Load()
	return kb, err
}

// OnReload registers a callback run after every successful build.
func (m *Manager) OnReload(cb func(*layout.Keyboard, Origin)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, cb)
}

// affects reports whether a change to path can alter the active keyboard.
func (m *Manager) affects(path string) bool {
	lang, ok := LanguageOf(path)
	if !ok {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lang == m.lang || lang == i18n.EnglishQWERTY
}

// Watch starts rebuilding on layout file changes. quiet is how long a file
// must be still before it is read. Watching stops when ctx is done or
// Close is called.
func (m *Manager) Watch(ctx context.Context, quiet time.Duration) error {
	m.mu.Lock()
	if m.w != nil {
		m.mu.Unlock()
		return fmt.Errorf("source: already watching %s", m.dir.Path())
	}
	m.mu.Unlock()

	w, err := watcher.New(m.dir.Path(), quiet, IsLayoutFile)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return fmt.Errorf("source: watch %s: %w", m.dir.Path(), err)
	}

	m.mu.Lock()
	if m.w != nil {
		// Lost a race with a concurrent Watch.
		m.mu.Unlock()
		_ = w.Stop()
		return fmt.Errorf("source: already watching %s", m.dir.Path())
	}
	ctx, cancel := context.WithCancel(ctx)
	m.w, m.cancel = w, cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.watchLoop(ctx, w)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, w *watcher.Watcher) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			if !m.affects(ev.Path) {
				continue
			}
			m.log.Debug("layout file changed", "file", filepath.Base(ev.Path), "removed", ev.Removed)
			if _, _, err := m.Load(); err != nil {
				m.log.Error("reload failed", "error", err)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			m.log.Warn("watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (m *Manager) Close() error {
	m.mu.Lock()
	w, cancel := m.w, m.cancel
	m.w, m.cancel = nil, nil
	m.mu.Unlock()

	if w == nil {
		return nil
	}
	cancel()
	m.wg.Wait()
	return w.Stop()
}
