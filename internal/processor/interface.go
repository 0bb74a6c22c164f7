package processor

import "context"

// Processor turns a media file into a summarized note on disk.
type Processor interface {
	Process(ctx context.Context, mediaPath string) (Result, error)
	// ProcessAll processes paths concurrently, bounded by the configured
	// limit, and returns results in input order. The error joins every
	// per-file failure.
	ProcessAll(ctx context.Context, paths []string) ([]Result, error)
}

// Result describes the files written for one input.
type Result struct {
	Source       string
	Transcript   string
	Summary      string
	MarkdownPath string
	DocxPath     string
	ArchivedPath string // empty when the source was left in place
}
