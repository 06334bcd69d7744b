package library

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"podfeed/internal/feed"
)

// audioExtensions lists the file suffixes treated as episodes (lowercase).
var audioExtensions = []string{
	".mp3",
	".m4a",
	".wav",
}

// Scan lists the audio files directly inside dir, sorted lexicographically
// by name. Subdirectories are not descended into.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isAudio(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

func isAudio(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range audioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Watcher monitors a feed folder and invokes a callback, debounced, when
// its audio, HTML, or configuration files change. Events for the generated
// feed.xml are ignored so a regeneration never retriggers itself.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	onChange func()

	refreshMu    sync.Mutex
	refreshTimer *time.Timer
	refreshDelay time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// NewWatcher creates a Watcher over dir and starts delivering change
// notifications to onChange after the debounce delay.
func NewWatcher(dir string, debounce time.Duration, onChange func(), logger *log.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		dir:          dir,
		watcher:      fsWatcher,
		logger:       logger,
		onChange:     onChange,
		refreshDelay: debounce,
		done:         make(chan struct{}),
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		w.refreshMu.Lock()
		if w.refreshTimer != nil {
			w.refreshTimer.Stop()
			w.refreshTimer = nil
		}
		w.refreshMu.Unlock()

		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if name == feed.FileName {
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		if isRelevant(name) || event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.scheduleRefresh()
		}
	}
}

// isRelevant reports whether a change to the named file can affect the
// generated feed.
func isRelevant(name string) bool {
	if isAudio(name) || name == "config.json" {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".html")
}

func (w *Watcher) scheduleRefresh() {
	select {
	case <-w.done:
		return
	default:
	}

	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()

	if w.refreshTimer != nil {
		w.refreshTimer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.refreshDelay, func() {
		w.onChange()

		w.refreshMu.Lock()
		if w.refreshTimer == timer {
			w.refreshTimer = nil
		}
		w.refreshMu.Unlock()
	})

	w.refreshTimer = timer
}
