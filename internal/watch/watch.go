// Package watch re-runs a handler whenever a watched recipe file is saved.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Handler is called with the path of a file that changed. Calls are
// serialized on the watcher's goroutine.
type Handler func(ctx context.Context, path string)

// Option configures the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before the handler
// runs. Editors often write a file several times per save.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher watches a set of files. Their parent directories are watched
// rather than the files themselves so that editors which save by renaming
// a temp file over the original keep triggering events.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	handler  Handler
	debounce time.Duration
	log      *logger.Logger
}

// New starts watching paths. Events that arrive before Run is called are
// buffered by fsnotify and handled once Run starts.
func New(paths []string, handler Handler, log *logger.Logger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool, len(paths)),
		handler:  handler,
		debounce: 200 * time.Millisecond,
		log:      log,
	}
	for _, o := range opts {
		o(w)
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		w.log.Debug("watching %s", dir)
	}
	return w, nil
}

// Run handles events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timers := map[string]*time.Timer{}
	fire := make(chan string, len(w.files))
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("fsnotify event=%s file=%s", event.Op, name)
			if t, ok := timers[name]; ok {
				t.Reset(w.debounce)
				continue
			}
			timers[name] = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- name:
				case <-ctx.Done():
				}
			})

		case name := <-fire:
			delete(timers, name)
			w.handler(ctx, name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fsnotify error=%v", err)
		}
	}
}
