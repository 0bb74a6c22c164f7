package watcher

import "context"

// Watcher feeds media files dropped into the inbox to a handler.
type Watcher interface {
	// Start handles files already in the inbox, then new arrivals, until
	// ctx is done. In-flight handlers are awaited before it returns.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one settled file. Its error is only logged.
type EventHandler func(ctx context.Context, path string) error
