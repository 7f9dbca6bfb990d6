package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

const defaultSettle = 2 * time.Second

// New creates a Watcher on cfg.Dir. Files are handed to handler once they
// have not changed for cfg.Settle.
func New(cfg config.WatchConfig, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	settle := cfg.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}

	return &implWatcher{
		inputDir:   cfg.Dir,
		extensions: exts,
		settle:     settle,
		handler:    handler,
		logger:     log,
		watcher:    watcher,
		pending:    make(map[string]time.Time),
		queue:      make(chan string, 64),
	}, nil
}
