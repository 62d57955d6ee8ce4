package source

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// FixtureEvent reports a change to the watched fixture file.
type FixtureEvent struct {
	Path      string
	Operation string
}

// FixtureWatcher forwards changes to one fixture file. It watches the parent
// directory so a file replaced by rename is still seen.
type FixtureWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan FixtureEvent
	done    chan struct{}
	once    sync.Once
}

// NewFixtureWatcher starts watching path.
func NewFixtureWatcher(path string) (*FixtureWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	fw := &FixtureWatcher{
		watcher: watcher,
		path:    absPath,
		events:  make(chan FixtureEvent, 16),
		done:    make(chan struct{}),
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FixtureWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			select {
			case fw.events <- FixtureEvent{Path: event.Name, Operation: event.Op.String()}:
			case <-fw.done:
				return
			default:
				// Buffer full; the queued events already trigger a reload
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Fixture watch error: " + err.Error())
		}
	}
}

// Events returns the change channel. It is closed after Close.
func (fw *FixtureWatcher) Events() <-chan FixtureEvent {
	return fw.events
}

// Close stops watching. It is safe to call more than once.
func (fw *FixtureWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
