package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/recorder"
	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
	"github.com/nguyentantai21042004/notetaker/internal/transcriber"
)

type implPipeline struct {
	recorder    recorder.Recorder
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	alerter     Alerter
	logger      logger.Logger

	mu     sync.Mutex
	status Status
	// switching is set while the recorder starts or stops outside the lock.
	switching bool
	bus    *bus
	wg     sync.WaitGroup

	newID func() string
	now   func() time.Time
}

// New creates a Pipeline in the Idle phase. alerter may be nil.
func New(
	rec recorder.Recorder,
	tr transcriber.Transcriber,
	sum summarizer.Summarizer,
	alerter Alerter,
	log logger.Logger,
) Pipeline {
	if alerter == nil {
		alerter = AlerterFunc(func(string) {})
	}

	p := &implPipeline{
		recorder:    rec,
		transcriber: tr,
		summarizer:  sum,
		alerter:     alerter,
		logger:      log,
		bus:         newBus(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	p.status = Status{Phase: PhaseIdle, UpdatedAt: p.now()}
	return p
}
