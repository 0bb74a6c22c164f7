package notify

import (
	"context"

	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
)

// Publisher pushes status snapshots to an external channel.
type Publisher interface {
	Publish(ctx context.Context, status pipeline.Status) error
	Close()
}
