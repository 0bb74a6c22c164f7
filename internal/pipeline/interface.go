package pipeline

import (
	"context"
	"errors"
)

// ErrBusy is returned when a control is used while a run cannot accept it.
var ErrBusy = errors.New("a note is being summarized")

// PermissionDeniedMessage is what the user is told when the microphone is
// unavailable.
const PermissionDeniedMessage = "Permission to access microphone was denied"

// Alerter shows a blocking notice to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// Pipeline sequences recording, transcription and summarization, and owns the
// single Status every presentation layer observes.
type Pipeline interface {
	// Init requests microphone permission and configures the audio mode.
	// A denial is reported through the Alerter, not as an error.
	Init(ctx context.Context)
	// Start begins a new recording from Idle or Ready.
	Start(ctx context.Context) error
	// Stop ends the recording and blocks until the run settles. Failures at
	// the network boundary are reflected in the returned Status only.
	// Once the recording is stopped, cancelling ctx no longer affects the run.
	Stop(ctx context.Context) (Status, error)
	// StopAsync ends the recording and settles the run in the background.
	StopAsync(ctx context.Context) error
	// Toggle performs Status().Action() and reports which action ran.
	Toggle(ctx context.Context) (Action, error)
	Status() Status
	// Subscribe delivers the current status followed by every change.
	// The channel is closed by the returned cancel function.
	Subscribe() (<-chan Status, func())
	// Wait blocks until background runs have settled.
	Wait()
}
