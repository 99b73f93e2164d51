// Package seedwatch reloads the ingredient graph when its seed file changes
package seedwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events editors emit on save
const DefaultDebounce = 250 * time.Millisecond

// Reloader swaps in a graph built from a new seed
type Reloader interface {
	Reload(ctx context.Context, seed ingredient.Seed) error
}

// Watcher watches a single seed file
type Watcher struct {
	path     string
	reloader Reloader
	debounce time.Duration
	logger   *zap.Logger

	watcher *fsnotify.Watcher
	timer   *time.Timer
	mutex   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}

	// reloaded is signalled after every reload attempt, successful or not
	reloaded func(error)
}

// NewWatcher creates a watcher for the seed at path
func NewWatcher(path string, reloader Reloader, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("seed path is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seed path: %w", err)
	}

	return &Watcher{
		path:     abs,
		reloader: reloader,
		debounce: debounce,
		logger:   logger.Named("seed-watcher"),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so editors that
// replace the file by rename are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = fw
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)

	w.logger.Info("Watching seed file", zap.String("path", w.path))
	return nil
}

// Stop ends watching and waits for the event loop to exit
func (w *Watcher) Stop() error {
	if w.watcher == nil {
		return nil
	}
	w.cancel()
	err := w.watcher.Close()
	<-w.done

	w.mutex.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mutex.Unlock()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Seed watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		err := w.reload(ctx)
		if w.reloaded != nil {
			w.reloaded(err)
		}
	})
}

func (w *Watcher) reload(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	seed, err := ingredient.LoadSeedFile(w.path)
	if err != nil {
		w.logger.Error("Seed file rejected, keeping current graph",
			zap.String("path", w.path), zap.Error(err))
		return err
	}

	if err := w.reloader.Reload(ctx, seed); err != nil {
		w.logger.Error("Seed reload failed, keeping current graph",
			zap.String("path", w.path), zap.Error(err))
		return err
	}

	w.logger.Info("Seed reloaded", zap.String("path", w.path))
	return nil
}
