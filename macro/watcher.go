package macro

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeNotifier is the abstract notification source spec.md §4.D, §5, and
// §9 ask for: "a live file-watcher for hot-reloading macros is modeled only
// as an abstract notification source... any concrete notification mechanism
// suffices; reimplementers must not build in a dependency on a specific OS
// facility." Two implementations are provided below: an fsnotify-backed one
// for real filesystem watches, and a dependency-free polling one for
// platforms without inotify/kqueue/ReadDirectoryChanges.
type ChangeNotifier interface {
	// Start begins watching and invokes onChange whenever the watched
	// path is modified. Start must be safe to call exactly once.
	Start(onChange func()) error
	// Stop halts the watcher without leaving observers mid-callback; the
	// macro table itself must never be left inconsistent by a stop
	// (spec.md §5).
	Stop() error
}

// FsnotifyWatcher watches a single file with github.com/fsnotify/fsnotify,
// the standard ecosystem library for this; no repository in the retrieved
// example corpus uses a file watcher, so this dependency is named rather
// than grounded, per SPEC_FULL.md §4.D.
type FsnotifyWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewFsnotifyWatcher(path string) *FsnotifyWatcher {
	return &FsnotifyWatcher{path: path, done: make(chan struct{})}
}

func (w *FsnotifyWatcher) Start(onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.path); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw
	go func() {
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			case <-w.done:
				return
			}
		}
	}()
	return nil
}

func (w *FsnotifyWatcher) Stop() error {
	close(w.done)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// TickerNotifier polls the metadata file's modtime on a fixed interval. It
// requires no OS-specific facility.
type TickerNotifier struct {
	path     string
	interval time.Duration
	done     chan struct{}
}

func NewTickerNotifier(path string, interval time.Duration) *TickerNotifier {
	return &TickerNotifier{path: path, interval: interval, done: make(chan struct{})}
}

func (t *TickerNotifier) Start(onChange func()) error {
	ticker := time.NewTicker(t.interval)
	go func() {
		defer ticker.Stop()
		var lastModTime time.Time
		for {
			select {
			case <-ticker.C:
				info, err := statModTime(t.path)
				if err != nil {
					continue
				}
				if info.After(lastModTime) {
					if !lastModTime.IsZero() {
						onChange()
					}
					lastModTime = info
				}
			case <-t.done:
				return
			}
		}
	}()
	return nil
}

func (t *TickerNotifier) Stop() error {
	close(t.done)
	return nil
}
