package recorder

import (
	"context"
	"fmt"
	"time"
)

const probeTimeout = 5 * time.Second

func (r *implRecorder) RequestPermission(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requestPermission(ctx)
}

// requestPermission opens the capture device for a fraction of a second.
// The OS prompts for microphone access on first use; a failed probe is
// treated as a denial. Callers hold r.mu.
func (r *implRecorder) requestPermission(ctx context.Context) (bool, error) {
	if _, err := r.executor.LookPath(r.opts.FFmpegPath); err != nil {
		return false, fmt.Errorf("ffmpeg not found: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-f", r.opts.InputFormat,
		"-i", r.opts.InputDevice,
		"-t", "0.2",
		"-f", "null",
		"-",
	}
	if _, err := r.executor.Execute(probeCtx, r.opts.FFmpegPath, args...); err != nil {
		r.logger.Warn(ctx, "Microphone probe failed (%s %s): %v", r.opts.InputFormat, r.opts.InputDevice, err)
		r.granted = false
		return false, nil
	}

	r.granted = true
	return true, nil
}

// ConfigureAudioMode unmutes the default PulseAudio source so capture works
// while the input is muted. Silent mode has no desktop counterpart. The call
// is detached and its outcome is never reported to the caller.
func (r *implRecorder) ConfigureAudioMode(ctx context.Context, mode AudioMode) {
	if !mode.AllowsRecording || r.opts.GOOS != "linux" {
		r.logger.Debug(ctx, "Audio mode: nothing to configure on %s", r.opts.GOOS)
		return
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		if _, err := r.executor.Execute(ctx, "pactl", "set-source-mute", "@DEFAULT_SOURCE@", "0"); err != nil {
			r.logger.Debug(ctx, "Audio mode configuration skipped: %v", err)
			return
		}
		r.logger.Debug(ctx, "Audio mode configured: default source unmuted")
	}()
}
