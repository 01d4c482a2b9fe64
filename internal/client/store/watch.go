package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher refreshes live streams when the database file is written by
// another process.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange func()
	logger   logging.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher watches the directory holding dbPath and calls onChange, at
// most once per debounce window, when the database or its WAL changes.
func NewWatcher(dbPath string, debounce time.Duration, onChange func(), logger logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(dbPath)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	base := filepath.Clean(dbPath)
	w := &Watcher{
		fs:       fw,
		files:    map[string]struct{}{base: {}, base + "-wal": {}},
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if _, watched := w.files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			}

		case <-timerCh:
			timer, timerCh = nil, nil
			w.onChange()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(context.Background(), "db watcher error", "error", err)
		}
	}
}

// Stop ends the watch loop and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

// Watch starts refreshing every live topic on external writes to the
// database file. It is a no-op for in-memory stores.
func (s *Store) Watch(debounce time.Duration, logger logging.Logger) error {
	if s.Path == ":memory:" || s.watcher != nil {
		return nil
	}
	w, err := NewWatcher(s.Path, debounce, s.Notifier.NotifyAll, logger)
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}
