package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"webviz-hq/layoutd/pkg/worker"
)

// ErrAlreadyRunning is returned by Watch when the watcher is already active.
var ErrAlreadyRunning = errors.New("watcher already running")

// FileWatcher re-reads one layout file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself: editors that
// save by writing a temporary file and renaming it over the original would
// otherwise leave the watch attached to a deleted inode.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *worker.Debouncer

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewFileWatcher creates a watcher for the layout file at path. A
// non-positive debounce selects worker.DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory, want a layout file", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		path:     abs,
		watcher:  watcher,
		logger:   logger.With("path", abs),
		debounce: worker.NewDebouncer(debounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Watch calls onChange with the file contents once immediately and again
// after every burst of changes. It blocks until ctx is cancelled or Stop is
// called.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(data []byte)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	defer close(fw.doneCh)
	// No reload may start after Watch returns, whichever way it exits.
	defer fw.debounce.Stop()

	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(fw.path), err)
	}

	fw.logger.Info("file watcher started", "debounce_ms", fw.debounce.Interval().Milliseconds())
	fw.reload(onChange)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("file event detected", "op", event.Op.String())
			fw.debounce.Trigger(func() { fw.reload(onChange) })

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops a running Watch and releases the fsnotify watcher. It is safe
// to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.stopCh)

		fw.mu.Lock()
		running := fw.running
		fw.mu.Unlock()
		if running {
			<-fw.doneCh
		}

		fw.debounce.Stop()
		if cerr := fw.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

func (fw *FileWatcher) reload(onChange func([]byte)) {
	data, err := os.ReadFile(fw.path)
	if err != nil {
		// Mid-save the file can briefly be missing; the next event retries.
		fw.logger.Warn("failed to read layout file", "error", err)
		return
	}
	onChange(data)
}

func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fw.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
