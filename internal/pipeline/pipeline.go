package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/metrics"
	"github.com/nguyentantai21042004/notetaker/internal/recorder"
)

const outcomeReady = "ready"

func (p *implPipeline) Init(ctx context.Context) {
	granted, err := p.recorder.RequestPermission(ctx)
	if err != nil {
		p.logger.Warn(ctx, "Microphone permission check failed: %v", err)
	}
	if !granted {
		p.alerter.Alert(PermissionDeniedMessage)
	}

	p.recorder.ConfigureAudioMode(ctx, recorder.AudioMode{
		PlaysInSilentMode: true,
		AllowsRecording:   true,
	})
}

func (p *implPipeline) Start(ctx context.Context) error {
	err := p.start(ctx)
	if errors.Is(err, recorder.ErrPermissionDenied) {
		p.alerter.Alert(PermissionDeniedMessage)
	}
	return err
}

func (p *implPipeline) start(ctx context.Context) error {
	p.mu.Lock()
	if p.switching || p.status.Phase == PhaseRecording || p.status.Phase == PhaseSummarizing {
		p.mu.Unlock()
		return ErrBusy
	}
	p.switching = true
	p.mu.Unlock()

	runID := p.newID()
	ctx = logger.WithField(ctx, "run_id", runID)

	// Recorder I/O runs unlocked; switching keeps other controls out.
	err := p.recorder.Start(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.switching = false

	if err != nil {
		p.logger.Error(ctx, "Failed to start recording: %v", err)
		if errors.Is(err, recorder.ErrPermissionDenied) {
			return err
		}
		return fmt.Errorf("start recording: %w", err)
	}

	p.setLocked(Status{Phase: PhaseRecording, RunID: runID})
	p.logger.Info(ctx, "Recording")
	return nil
}

func (p *implPipeline) Stop(ctx context.Context) (Status, error) {
	runCtx, location, ok, err := p.stopRecording(ctx)
	if err != nil {
		return Status{}, err
	}
	if ok {
		p.summarize(context.WithoutCancel(runCtx), location)
	}
	return p.Status(), nil
}

func (p *implPipeline) StopAsync(ctx context.Context) error {
	runCtx, location, ok, err := p.stopRecording(ctx)
	if err != nil || !ok {
		return err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.summarize(context.WithoutCancel(runCtx), location)
	}()
	return nil
}

func (p *implPipeline) Toggle(ctx context.Context) (Action, error) {
	switch action := p.Status().Action(); action {
	case ActionStart:
		return action, p.Start(ctx)
	case ActionStop:
		return action, p.StopAsync(ctx)
	default:
		return ActionNone, ErrBusy
	}
}

func (p *implPipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *implPipeline) Subscribe() (<-chan Status, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bus.subscribe(p.status)
}

func (p *implPipeline) Wait() {
	p.wg.Wait()
}

// stopRecording moves Recording to Summarizing. ok is false when the run was
// aborted because nothing usable was recorded.
func (p *implPipeline) stopRecording(ctx context.Context) (context.Context, string, bool, error) {
	p.mu.Lock()
	if p.status.Phase != PhaseRecording {
		p.mu.Unlock()
		return ctx, "", false, recorder.ErrNoActiveRecording
	}
	if p.switching {
		p.mu.Unlock()
		return ctx, "", false, ErrBusy
	}
	p.switching = true
	runID := p.status.RunID
	p.mu.Unlock()

	ctx = logger.WithField(ctx, "run_id", runID)

	location, err := p.recorder.Stop(ctx)
	if err != nil {
		p.logger.Error(ctx, "Failed to stop recording: %v", err)
	}
	metrics.StageDuration.WithLabelValues("record").Observe(p.recorder.Handle().Duration(p.now()).Seconds())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.switching = false

	if location == "" {
		p.logger.Warn(ctx, "Nothing was recorded, back to idle")
		p.failLocked(runID, FailureEmptyRecording)
		return ctx, "", false, nil
	}

	p.setLocked(Status{Phase: PhaseSummarizing, RunID: runID})
	return ctx, location, true, nil
}

// summarize transcribes then summarizes the recording and settles the run.
func (p *implPipeline) summarize(ctx context.Context, location string) {
	runID := logger.Field(ctx, "run_id")

	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, location)
	metrics.ObserveStage("transcribe", start)
	if err != nil {
		p.logger.Error(ctx, "Transcription failed: %v", err)
		p.fail(runID, FailureTranscriptionFailed)
		return
	}
	p.logger.Info(ctx, "Transcribed %d characters", len(transcript))

	start = time.Now()
	summary, err := p.summarizer.Summarize(ctx, transcript)
	metrics.ObserveStage("summarize", start)
	if err != nil {
		p.logger.Error(ctx, "Summarization failed: %v", err)
		p.fail(runID, FailureSummarizationFailed)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status.RunID != runID {
		return
	}
	p.setLocked(Status{Phase: PhaseReady, RunID: runID, Summary: summary})
	metrics.RunsTotal.WithLabelValues(outcomeReady).Inc()
	p.logger.Info(ctx, "Summary ready (%d characters)", len(summary))
}

func (p *implPipeline) fail(runID string, failure Failure) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failLocked(runID, failure)
}

func (p *implPipeline) failLocked(runID string, failure Failure) {
	if p.status.RunID != runID {
		return
	}
	p.setLocked(Status{Phase: PhaseIdle, RunID: runID, Failure: failure})
	metrics.RunsTotal.WithLabelValues(string(failure)).Inc()
}

func (p *implPipeline) setLocked(s Status) {
	s.UpdatedAt = p.now()
	p.status = s
	p.bus.publish(s)
}
