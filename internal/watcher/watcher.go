package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

type implWatcher struct {
	inputDir   string
	extensions map[string]bool
	settle     time.Duration
	handler    EventHandler
	logger     logger.Logger
	watcher    *fsnotify.Watcher

	// pending maps a path to the time of its last write event.
	pending map[string]time.Time
	queue   chan string
	wg      sync.WaitGroup
}

// Start monitors the input directory until ctx is done. A single worker
// runs the handler, so at most one file is processed at a time.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s (settle %s)", w.inputDir, w.settle)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(w.formats(), ", "))

	w.wg.Add(1)
	go w.work(ctx)
	defer func() {
		close(w.queue)
		w.wg.Wait()
		w.logger.Info(ctx, "File watcher stopped")
	}()

	tick := time.NewTicker(w.tickInterval())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.observe(ctx, event)

		case now := <-tick.C:
			w.flush(ctx, now)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) observe(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if !w.isAudioFile(event.Name) {
			w.logger.Debug(ctx, "Ignoring unsupported file: %s", event.Name)
			return
		}
		if _, seen := w.pending[event.Name]; !seen {
			w.logger.Info(ctx, "New audio detected: %s", event.Name)
		}
		w.pending[event.Name] = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	}
}

// flush queues every file that has been quiet for the settle period, in
// path order.
func (w *implWatcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		delete(w.pending, path)
		select {
		case w.queue <- path:
		case <-ctx.Done():
			return
		}
	}
}

func (w *implWatcher) work(ctx context.Context) {
	defer w.wg.Done()
	for path := range w.queue {
		if ctx.Err() != nil {
			continue
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}
}

func (w *implWatcher) tickInterval() time.Duration {
	d := w.settle / 4
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return d
}

// isAudioFile checks if the file has a supported extension. Hidden and
// partial download files are skipped.
func (w *implWatcher) isAudioFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".part") {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(base))]
}

func (w *implWatcher) formats() []string {
	out := make([]string, 0, len(w.extensions))
	for e := range w.extensions {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
