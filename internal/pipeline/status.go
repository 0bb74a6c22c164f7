package pipeline

import (
	"fmt"
	"time"
)

// Placeholder is shown while there is no summary to display.
const Placeholder = "Start the recording to take a note. The summary of the note will appear after you stop the recording."

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhaseSummarizing
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRecording:
		return "recording"
	case PhaseSummarizing:
		return "summarizing"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseRecording, PhaseSummarizing, PhaseReady} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Failure names why the last run settled back into idle.
type Failure string

const (
	FailureNone                Failure = ""
	FailureEmptyRecording      Failure = "empty_recording"
	FailureTranscriptionFailed Failure = "transcription_failed"
	FailureSummarizationFailed Failure = "summarization_failed"
)

// Action is what the single toggle control does in the current phase.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
	ActionNone  Action = "none"
)

// Status is the single observable state of the note taker.
type Status struct {
	Phase     Phase
	RunID     string
	Summary   string
	Failure   Failure
	UpdatedAt time.Time
}

// DisplayText is the summary, or the placeholder when there is none.
func (s Status) DisplayText() string {
	if s.Summary != "" {
		return s.Summary
	}
	return Placeholder
}

func (s Status) Action() Action {
	switch s.Phase {
	case PhaseRecording:
		return ActionStop
	case PhaseSummarizing:
		return ActionNone
	default:
		return ActionStart
	}
}

func (s Status) ToggleLabel() string {
	if s.Phase == PhaseRecording {
		return "Stop and summarize"
	}
	return "New Recording"
}

func (s Status) Icon() string {
	if s.Phase == PhaseRecording {
		return "stop"
	}
	return "mic"
}

// Busy reports whether a summary is being produced.
func (s Status) Busy() bool { return s.Phase == PhaseSummarizing }

func (s Status) IsRecording() bool { return s.Phase == PhaseRecording }

// View is the presentation payload shared by the HTTP and MQTT surfaces.
type View struct {
	Phase       Phase     `json:"phase"`
	RunID       string    `json:"run_id,omitempty"`
	Summary     string    `json:"summary"`
	Failure     Failure   `json:"failure,omitempty"`
	DisplayText string    `json:"display_text"`
	Action      Action    `json:"action"`
	ToggleLabel string    `json:"toggle_label"`
	Icon        string    `json:"icon"`
	Busy        bool      `json:"busy"`
	Recording   bool      `json:"recording"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s Status) View() View {
	return View{
		Phase:       s.Phase,
		RunID:       s.RunID,
		Summary:     s.Summary,
		Failure:     s.Failure,
		DisplayText: s.DisplayText(),
		Action:      s.Action(),
		ToggleLabel: s.ToggleLabel(),
		Icon:        s.Icon(),
		Busy:        s.Busy(),
		Recording:   s.IsRecording(),
		UpdatedAt:   s.UpdatedAt,
	}
}
