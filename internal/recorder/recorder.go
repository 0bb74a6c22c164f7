package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/notetaker/pkg/executor"
)

// Fixed capture settings: AAC in an m4a container, 44.1 kHz stereo at
// 128 kbit/s.
const (
	audioCodec   = "aac"
	audioBitrate = "128k"
	sampleRate   = "44100"
	channels     = "2"
	fileExt      = ".m4a"

	stopTimeout = 10 * time.Second
)

func (r *implRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle.State == StateRecording {
		return ErrAlreadyRecording
	}

	if !r.granted {
		granted, err := r.requestPermission(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		if !granted {
			return ErrPermissionDenied
		}
	}

	r.discardPrevious(ctx)

	path := filepath.Join(r.opts.TempDir, "recording-"+r.newID()+fileExt)

	// Capture must outlive the request that started it.
	proc, err := r.executor.Start(context.WithoutCancel(ctx), r.opts.FFmpegPath, r.captureArgs(path)...)
	if err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	r.proc = proc
	r.path = path
	r.handle = Handle{
		State:     StateRecording,
		StartedAt: r.now(),
	}

	r.logger.Info(ctx, "Recording started (pid %d): %s", proc.Pid(), path)
	return nil
}

func (r *implRecorder) Stop(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle.State != StateRecording {
		return "", ErrNoActiveRecording
	}

	proc := r.proc
	r.proc = nil

	if err := proc.Interrupt(); err != nil {
		r.logger.Warn(ctx, "Failed to interrupt capture: %v", err)
	}
	r.waitProcess(ctx, proc)

	r.handle.State = StateStopped
	r.handle.StoppedAt = r.now()

	info, err := os.Stat(r.path)
	if err != nil || info.Size() == 0 {
		r.logger.Warn(ctx, "Recording produced no audio: %s", r.path)
		return "", nil
	}

	r.handle.Location = r.path
	r.logger.Info(ctx, "Recording stopped and stored at %s (%s)", r.path, r.handle.Duration(r.handle.StoppedAt).Round(time.Millisecond))
	return r.path, nil
}

func (r *implRecorder) Handle() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle
}

// waitProcess waits for ffmpeg to write its trailer, killing it if it hangs.
// ffmpeg exits non-zero after an interrupt, so the exit error is expected.
func (r *implRecorder) waitProcess(ctx context.Context, proc executor.Process) {
	done := make(chan error, 1)
	go func() { done <- proc.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			r.logger.Debug(ctx, "Capture exited: %v", err)
		}
	case <-time.After(stopTimeout):
		r.logger.Warn(ctx, "Capture did not exit within %s, killing it", stopTimeout)
		_ = proc.Kill()
		<-done
	}
}

// discardPrevious drops the last recording file. No cleanup guarantee.
func (r *implRecorder) discardPrevious(ctx context.Context) {
	if r.path != "" {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			r.logger.Debug(ctx, "Failed to discard previous recording %s: %v", r.path, err)
		}
	}
	r.path = ""
	r.handle = Handle{}
}

func (r *implRecorder) captureArgs(path string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-f", r.opts.InputFormat,
		"-i", r.opts.InputDevice,
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-ar", sampleRate,
		"-ac", channels,
		"-y",
		path,
	}
}
