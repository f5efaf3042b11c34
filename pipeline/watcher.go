package pipeline

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/logger"
)

// RegenerateFunc is called after sources changed and the debounce period
// passed. changed holds the touched files, sorted.
type RegenerateFunc func(ctx context.Context, changed []string) error

// SourceWatcher watches package directories and triggers regeneration
type SourceWatcher struct {
	watcher        *fsnotify.Watcher
	output         string
	regenerate     RegenerateFunc
	debouncePeriod time.Duration

	mu            sync.Mutex
	debounceTimer *time.Timer
	pending       map[string]struct{}
	dirs          map[string]struct{}

	trigger chan struct{}
}

// NewSourceWatcher creates a watcher over dirs. Events on the generated
// output file are ignored so writing it does not loop.
func NewSourceWatcher(dirs []string, output string, debounce time.Duration, regenerate RegenerateFunc) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	sw := &SourceWatcher{
		watcher:        watcher,
		output:         output,
		regenerate:     regenerate,
		debouncePeriod: debounce,
		pending:        make(map[string]struct{}),
		dirs:           make(map[string]struct{}),
		trigger:        make(chan struct{}, 1),
	}
	if err := sw.Watch(dirs...); err != nil {
		watcher.Close()
		return nil, err
	}
	return sw, nil
}

// Watch adds directories; ones already watched are skipped.
func (sw *SourceWatcher) Watch(dirs ...string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	for _, dir := range dirs {
		if _, ok := sw.dirs[dir]; ok {
			continue
		}
		if err := sw.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		sw.dirs[dir] = struct{}{}
	}
	return nil
}

// Dirs returns the watched directories, sorted.
func (sw *SourceWatcher) Dirs() []string {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	dirs := make([]string, 0, len(sw.dirs))
	for d := range sw.dirs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Run processes events until ctx is done, then closes the watcher.
// Regeneration runs on this goroutine, one at a time.
func (sw *SourceWatcher) Run(ctx context.Context) error {
	log := logger.LoggerFromContext(ctx).Named("watch")
	defer sw.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			if !sw.relevant(event) {
				continue
			}
			log.Debugw("Source change detected",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			sw.schedule(event.Name)

		case <-sw.trigger:
			changed := sw.drain()
			if len(changed) == 0 {
				continue
			}
			log.Infow("Regenerating",
				logger.FieldCount, len(changed))
			if err := sw.regenerate(ctx, changed); err != nil {
				// keep watching; the next save may fix it
				log.Errorw("Regeneration failed",
					logger.FieldError, err.Error())
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Source watcher error",
				logger.FieldError, err.Error())
		}
	}
}

// relevant keeps writes, creates, removes and renames of Go sources other
// than the generated output.
func (sw *SourceWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return isSourceFile(event.Name, sw.output)
}

func isSourceFile(path, output string) bool {
	base := filepath.Base(path)
	if base == output {
		return false
	}
	// editor swap and hidden files
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return strings.HasSuffix(base, ".go") && !strings.HasSuffix(base, "_test.go")
}

// schedule debounces bursts of events into one trigger
func (sw *SourceWatcher) schedule(path string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pending[path] = struct{}{}
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.debounceTimer = time.AfterFunc(sw.debouncePeriod, func() {
		select {
		case sw.trigger <- struct{}{}:
		default:
		}
	})
}

func (sw *SourceWatcher) drain() []string {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	changed := make([]string, 0, len(sw.pending))
	for p := range sw.pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	sw.pending = make(map[string]struct{})
	return changed
}

func (sw *SourceWatcher) stop() {
	sw.mu.Lock()
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.mu.Unlock()
	sw.watcher.Close()
}
