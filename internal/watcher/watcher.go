// Package watcher reports files in a directory whose content changed and then
// stayed quiet for a while.
package watcher

import (
	"crypto/sha256"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event describes a settled change to one file.
type Event struct {
	Path      string
	Hash      [32]byte
	Size      int64
	Removed   bool
	Timestamp time.Time
}

// Watcher monitors one directory.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	quiet     time.Duration
	match     func(name string) bool

	// State tracking: path -> time of the last raw event
	state   map[string]time.Time
	hashes  map[string][32]byte
	stateMu sync.Mutex

	// Event channel
	events chan Event
	errors chan error

	// Control
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher for dir. quiet is how long a file must go without
// events before it is reported. match filters base names; nil matches all.
func New(dir string, quiet time.Duration, match func(name string) bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	if quiet <= 0 {
		quiet = 100 * time.Millisecond
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		dir:       dir,
		quiet:     quiet,
		match:     match,
		state:     make(map[string]time.Time),
		hashes:    make(map[string][32]byte),
		events:    make(chan Event, 16),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}

	return w, nil
}

// Events returns the channel of settled changes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start records the current content of matching files and begins watching.
// Files already present are not reported until they change.
func (w *Watcher) Start() error {
	absDir, err := filepath.Abs(w.dir)
	if err != nil {
		return err
	}
	w.dir = absDir

	if err := w.fsWatcher.Add(absDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !w.match(entry.Name()) {
			continue
		}
		path := filepath.Join(absDir, entry.Name())
		if hash, _, err := HashFile(path); err == nil {
			w.hashes[path] = hash
		}
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()

	return nil
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsWatcher.Close()
}

// eventLoop handles fsnotify events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.match(filepath.Base(event.Name)) {
				continue
			}

			w.stateMu.Lock()
			w.state[event.Name] = time.Now()
			w.stateMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		}
	}
}

// debounceLoop checks for settled files.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(max(w.quiet/2, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case now := <-ticker.C:
			w.checkStableFiles(now)
		}
	}
}

// stableFile represents a file ready for hashing.
type stableFile struct {
	path    string
	lastMod time.Time
}

// checkStableFiles reports files that have been quiet for the interval and
// whose content differs from the last report. The lock is released during
// file I/O so eventLoop is never blocked on a slow disk.
func (w *Watcher) checkStableFiles(now time.Time) {
	threshold := now.Add(-w.quiet)

	// Phase 1: Collect stable files while holding lock (fast)
	var stableFiles []stableFile
	w.stateMu.Lock()
	for path, lastMod := range w.state {
		if lastMod.Before(threshold) {
			stableFiles = append(stableFiles, stableFile{path: path, lastMod: lastMod})
		}
	}
	w.stateMu.Unlock()

	if len(stableFiles) == 0 {
		return
	}

	// Phase 2: Hash files without holding lock (slow I/O)
	type hashResult struct {
		stableFile
		hash    [32]byte
		size    int64
		removed bool
		err     error
	}
	results := make([]hashResult, len(stableFiles))
	for i, sf := range stableFiles {
		r := hashResult{stableFile: sf}
		r.hash, r.size, r.err = HashFile(sf.path)
		if errors.Is(r.err, fs.ErrNotExist) {
			r.removed, r.err = true, nil
		}
		results[i] = r
	}

	// Phase 3: Update state with lock, checking for modifications during hashing
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	for _, r := range results {
		if currentLastMod, exists := w.state[r.path]; !exists || currentLastMod != r.lastMod {
			// Changed again while hashing; let it settle.
			continue
		}
		if r.err != nil {
			delete(w.state, r.path)
			w.sendErr(r.err)
			continue
		}

		prev, known := w.hashes[r.path]
		if r.removed && !known {
			delete(w.state, r.path)
			continue
		}
		if !r.removed && known && prev == r.hash {
			// Touched but not changed.
			delete(w.state, r.path)
			continue
		}

		event := Event{
			Path:      r.path,
			Hash:      r.hash,
			Size:      r.size,
			Removed:   r.removed,
			Timestamp: now,
		}

		select {
		case w.events <- event:
			delete(w.state, r.path)
			if r.removed {
				delete(w.hashes, r.path)
			} else {
				w.hashes[r.path] = r.hash
			}
		default:
			// Event channel full, try again later
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// HashFile computes SHA-256 hash of a file using streaming.
func HashFile(path string) ([32]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return [32]byte{}, 0, err
	}

	var hash [32]byte
	copy(hash[:], h.Sum(nil))
	return hash, size, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// PendingFiles returns the number of files waiting to settle.
func (w *Watcher) PendingFiles() int {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return len(w.state)
}
