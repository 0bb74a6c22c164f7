package processor

import (
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
	"github.com/nguyentantai21042004/notetaker/internal/transcriber"
	"github.com/nguyentantai21042004/notetaker/pkg/executor"
)

// Options configures where notes are written.
type Options struct {
	FFmpegPath    string
	OutputDir     string
	ArchivedDir   string // empty leaves sources in place
	TempDir       string
	MaxConcurrent int
}

type implProcessor struct {
	opts        Options
	executor    executor.Executor
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger

	newID func() string
	now   func() time.Time
}

// New creates a new Processor instance
func New(
	opts Options,
	exec executor.Executor,
	tr transcriber.Transcriber,
	sum summarizer.Summarizer,
	log logger.Logger,
) Processor {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}

	return &implProcessor{
		opts:        opts,
		executor:    exec,
		transcriber: tr,
		summarizer:  sum,
		logger:      log,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}
