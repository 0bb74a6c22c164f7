package transcriber

import (
	"context"
	"errors"
)

// ErrTranscriptionFailed wraps every failure at the transcription boundary.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Transcriber converts a recorded audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
