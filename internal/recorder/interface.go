package recorder

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrNoActiveRecording = errors.New("no active recording")
	ErrAlreadyRecording  = errors.New("a recording is already in progress")
)

// Recorder controls microphone capture.
type Recorder interface {
	// RequestPermission checks whether the microphone can be opened.
	RequestPermission(ctx context.Context) (bool, error)
	// ConfigureAudioMode is best effort and returns nothing; failures are
	// only logged.
	ConfigureAudioMode(ctx context.Context, mode AudioMode)
	// Start begins a new capture, discarding the previous recording file.
	Start(ctx context.Context) error
	// Stop finalizes the capture and returns its location. An empty
	// location with a nil error means nothing usable was recorded.
	Stop(ctx context.Context) (string, error)
	Handle() Handle
}

type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Handle describes the current or last capture.
type Handle struct {
	State     State
	Location  string // set only after a successful stop
	StartedAt time.Time
	StoppedAt time.Time
}

// Duration returns how long the capture ran, or has been running.
func (h Handle) Duration(now time.Time) time.Duration {
	switch {
	case h.StartedAt.IsZero():
		return 0
	case h.StoppedAt.IsZero():
		return now.Sub(h.StartedAt)
	default:
		return h.StoppedAt.Sub(h.StartedAt)
	}
}

type AudioMode struct {
	PlaysInSilentMode bool
	AllowsRecording   bool
}
