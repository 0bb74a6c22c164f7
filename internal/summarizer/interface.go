package summarizer

import (
	"context"
	"errors"
)

// ErrSummarizationFailed wraps every failure at the summarization boundary.
var ErrSummarizationFailed = errors.New("summarization failed")

// Summarizer condenses a transcript with a fixed instruction.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
