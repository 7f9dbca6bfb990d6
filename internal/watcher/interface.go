package watcher

import "context"

// Watcher feeds new audio files dropped into a directory to a handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once per settled file, never concurrently.
type EventHandler func(ctx context.Context, filePath string) error
