package recorder

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/pkg/executor"
)

// Options configures the ffmpeg-backed recorder.
type Options struct {
	FFmpegPath  string
	InputFormat string // avfoundation, pulse, alsa, dshow
	InputDevice string
	TempDir     string
	GOOS        string // defaults to runtime.GOOS
}

type implRecorder struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger

	mu      sync.Mutex
	granted bool
	handle  Handle
	proc    executor.Process
	path    string

	newID func() string
	now   func() time.Time
}

// New creates a Recorder that captures through ffmpeg.
func New(opts Options, exec executor.Executor, log logger.Logger) Recorder {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}

	return &implRecorder{
		opts:     opts,
		executor: exec,
		logger:   log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}
