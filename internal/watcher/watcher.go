// Package watcher re-runs a handler whenever invoice files in a folder
// change. Bursts of events are coalesced with a debounce window.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/Nomadcxx/invoicecsv/internal/scanner"
	"github.com/fsnotify/fsnotify"
)

const component = "watcher"

type EventType string

const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
	EventMove   EventType = "move"
	EventDelete EventType = "delete"
)

type FileEvent struct {
	Type EventType
	Path string
}

// Handler is called once per debounced batch of relevant events.
type Handler interface {
	HandleFileEvents(events []FileEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(events []FileEvent) error

func (f HandlerFunc) HandleFileEvents(events []FileEvent) error { return f(events) }

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	dir       string
	debounce  time.Duration
	ignore    map[string]bool
	log       *logging.Logger
}

type Option func(*Watcher)

// WithDebounce sets the quiet period before the handler runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithIgnore skips events for the given paths (e.g. the CSV being written).
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			w.ignore[filepath.Clean(p)] = true
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// NewWatcher watches dir (not its subdirectories).
func NewWatcher(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		handler:   handler,
		dir:       dir,
		debounce:  2 * time.Second,
		ignore:    map[string]bool{},
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	w.log.Info(component, "watching", logging.F("dir", dir))
	return w, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		pending []FileEvent
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fe, relevant := w.classify(event)
			if !relevant {
				continue
			}
			w.log.Debug(component, "event", logging.F("type", fe.Type), logging.F("file", filepath.Base(fe.Path)))
			pending = append(pending, fe)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			batch := pending
			pending = nil
			if err := w.handler.HandleFileEvents(batch); err != nil {
				w.log.Error(component, "handler failed", err, logging.F("events", len(batch)))
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error(component, "watcher error", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// classify maps an fsnotify event to a FileEvent and reports whether it
// concerns a candidate invoice file.
func (w *Watcher) classify(event fsnotify.Event) (FileEvent, bool) {
	if w.ignore[filepath.Clean(event.Name)] {
		return FileEvent{}, false
	}
	if !scanner.IsSupported(filepath.Base(event.Name)) {
		return FileEvent{}, false
	}

	var eventType EventType
	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventWrite
	case event.Has(fsnotify.Rename):
		eventType = EventMove
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	default:
		return FileEvent{}, false
	}
	return FileEvent{Type: eventType, Path: event.Name}, true
}
