package notify

import (
	"context"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
)

// Relay publishes every status change until ctx is done. Publish failures
// are logged and the next change is tried again.
func Relay(ctx context.Context, p pipeline.Pipeline, pub Publisher, log logger.Logger) {
	updates, cancel := p.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case status, ok := <-updates:
			if !ok {
				return
			}
			if err := pub.Publish(ctx, status); err != nil {
				log.Warn(ctx, "Failed to publish status: %v", err)
			}
		}
	}
}
