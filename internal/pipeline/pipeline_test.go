package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/recorder"
	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
	"github.com/nguyentantai21042004/notetaker/internal/transcriber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu        sync.Mutex
	granted   bool
	location  string
	recording bool
	modes     []recorder.AudioMode
}

func (r *fakeRecorder) RequestPermission(context.Context) (bool, error) {
	return r.granted, nil
}

func (r *fakeRecorder) ConfigureAudioMode(_ context.Context, mode recorder.AudioMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
}

func (r *fakeRecorder) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.granted {
		return recorder.ErrPermissionDenied
	}
	r.recording = true
	return nil
}

func (r *fakeRecorder) Stop(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return "", recorder.ErrNoActiveRecording
	}
	r.recording = false
	return r.location, nil
}

func (r *fakeRecorder) Handle() recorder.Handle { return recorder.Handle{} }

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (t *fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	t.calls++
	return t.text, t.err
}

type fakeSummarizer struct {
	summary string
	err     error
	release chan struct{}
	calls   int
}

func (s *fakeSummarizer) Summarize(context.Context, string) (string, error) {
	if s.release != nil {
		<-s.release
	}
	s.calls++
	return s.summary, s.err
}

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

func (a *recordingAlerter) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

func newTestPipeline(rec *fakeRecorder, tr *fakeTranscriber, sum *fakeSummarizer, alerter Alerter) Pipeline {
	return New(rec, tr, sum, alerter, logger.Nop())
}

func TestSuccessfulRun(t *testing.T) {
	rec := &fakeRecorder{granted: true, location: "/tmp/recording.m4a"}
	tr := &fakeTranscriber{text: "hello world"}
	sum := &fakeSummarizer{summary: "Greeting note."}
	p := newTestPipeline(rec, tr, sum, nil)

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, PhaseRecording, p.Status().Phase)
	assert.Equal(t, ActionStop, p.Status().Action())

	status, err := p.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, status.Phase)
	assert.Equal(t, "Greeting note.", status.Summary)
	assert.Equal(t, "Greeting note.", status.DisplayText())
	assert.Equal(t, FailureNone, status.Failure)
	assert.False(t, status.Busy())
	assert.NotEmpty(t, status.RunID)
}

func TestStopFailures(t *testing.T) {
	tests := []struct {
		name        string
		location    string
		transcriber *fakeTranscriber
		summarizer  *fakeSummarizer
		failure     Failure
		transcribed int
		summarized  int
	}{
		{
			name:        "empty recording aborts silently",
			location:    "",
			transcriber: &fakeTranscriber{text: "unused"},
			summarizer:  &fakeSummarizer{summary: "unused"},
			failure:     FailureEmptyRecording,
		},
		{
			name:        "transcription failure",
			location:    "/tmp/recording.m4a",
			transcriber: &fakeTranscriber{err: transcriber.ErrTranscriptionFailed},
			summarizer:  &fakeSummarizer{summary: "unused"},
			failure:     FailureTranscriptionFailed,
			transcribed: 1,
		},
		{
			name:        "summarization failure",
			location:    "/tmp/recording.m4a",
			transcriber: &fakeTranscriber{text: "hello world"},
			summarizer:  &fakeSummarizer{err: summarizer.ErrSummarizationFailed},
			failure:     FailureSummarizationFailed,
			transcribed: 1,
			summarized:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{granted: true, location: tt.location}
			p := newTestPipeline(rec, tt.transcriber, tt.summarizer, nil)

			require.NoError(t, p.Start(context.Background()))
			status, err := p.Stop(context.Background())
			require.NoError(t, err)

			assert.Equal(t, PhaseIdle, status.Phase)
			assert.Equal(t, tt.failure, status.Failure)
			assert.Empty(t, status.Summary)
			assert.Equal(t, Placeholder, status.DisplayText())
			assert.False(t, status.Busy())
			assert.Equal(t, ActionStart, status.Action())
			assert.Equal(t, tt.transcribed, tt.transcriber.calls)
			assert.Equal(t, tt.summarized, tt.summarizer.calls)
		})
	}
}

func TestStartClearsPreviousSummary(t *testing.T) {
	rec := &fakeRecorder{granted: true, location: "/tmp/recording.m4a"}
	p := newTestPipeline(rec, &fakeTranscriber{text: "x"}, &fakeSummarizer{summary: "first"}, nil)

	require.NoError(t, p.Start(context.Background()))
	first, err := p.Stop(context.Background())
	require.NoError(t, err)
	require.Equal(t, "first", first.Summary)

	require.NoError(t, p.Start(context.Background()))
	status := p.Status()
	assert.Empty(t, status.Summary)
	assert.NotEqual(t, first.RunID, status.RunID)
}

func TestPermissionDenied(t *testing.T) {
	alerter := &recordingAlerter{}
	rec := &fakeRecorder{granted: false}
	p := newTestPipeline(rec, &fakeTranscriber{}, &fakeSummarizer{}, alerter)

	p.Init(context.Background())
	assert.Equal(t, []string{PermissionDeniedMessage}, alerter.all())
	assert.Equal(t, []recorder.AudioMode{{PlaysInSilentMode: true, AllowsRecording: true}}, rec.modes)

	before := p.Status()
	err := p.Start(context.Background())
	assert.ErrorIs(t, err, recorder.ErrPermissionDenied)
	assert.Len(t, alerter.all(), 2)
	assert.Equal(t, before, p.Status())
}

func TestInitGrantedDoesNotAlert(t *testing.T) {
	alerter := &recordingAlerter{}
	p := newTestPipeline(&fakeRecorder{granted: true}, &fakeTranscriber{}, &fakeSummarizer{}, alerter)

	p.Init(context.Background())
	assert.Empty(t, alerter.all())
}

func TestStopWithoutRecording(t *testing.T) {
	p := newTestPipeline(&fakeRecorder{granted: true}, &fakeTranscriber{}, &fakeSummarizer{}, nil)

	_, err := p.Stop(context.Background())
	assert.ErrorIs(t, err, recorder.ErrNoActiveRecording)
	assert.ErrorIs(t, p.StopAsync(context.Background()), recorder.ErrNoActiveRecording)
}

func TestBusyWhileSummarizing(t *testing.T) {
	release := make(chan struct{})
	rec := &fakeRecorder{granted: true, location: "/tmp/recording.m4a"}
	sum := &fakeSummarizer{summary: "done", release: release}
	p := newTestPipeline(rec, &fakeTranscriber{text: "x"}, sum, nil)

	action, err := p.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionStart, action)

	action, err = p.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionStop, action)

	status := p.Status()
	assert.Equal(t, PhaseSummarizing, status.Phase)
	assert.True(t, status.Busy())
	assert.Equal(t, ActionNone, status.Action())

	assert.ErrorIs(t, p.Start(context.Background()), ErrBusy)
	_, err = p.Toggle(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	p.Wait()
	assert.Equal(t, PhaseReady, p.Status().Phase)
	assert.Equal(t, "done", p.Status().Summary)
}

func TestStartWhileRecording(t *testing.T) {
	p := newTestPipeline(&fakeRecorder{granted: true}, &fakeTranscriber{}, &fakeSummarizer{}, nil)

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrBusy)
}

func TestStopAsyncSurvivesCancellation(t *testing.T) {
	rec := &fakeRecorder{granted: true, location: "/tmp/recording.m4a"}
	p := newTestPipeline(rec, &fakeTranscriber{text: "x"}, &fakeSummarizer{summary: "kept"}, nil)

	require.NoError(t, p.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.StopAsync(ctx))
	cancel()
	p.Wait()

	assert.Equal(t, "kept", p.Status().Summary)
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	rec := &fakeRecorder{granted: true, location: "/tmp/recording.m4a"}
	p := newTestPipeline(rec, &fakeTranscriber{text: "x"}, &fakeSummarizer{summary: "s"}, nil)

	ch, cancel := p.Subscribe()
	defer cancel()

	require.NoError(t, p.Start(context.Background()))
	_, err := p.Stop(context.Background())
	require.NoError(t, err)

	var phases []Phase
	for range 4 {
		select {
		case s := <-ch:
			phases = append(phases, s.Phase)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for status")
		}
	}
	assert.Equal(t, []Phase{PhaseIdle, PhaseRecording, PhaseSummarizing, PhaseReady}, phases)

	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestRoundTripAgainstHTTPEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/audio/transcriptions":
			_, _ = w.Write([]byte(`{"text":"hello world"}`))
		case "/v1/chat/completions":
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Greeting note."}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	audio := t.TempDir() + "/recording.m4a"
	require.NoError(t, os.WriteFile(audio, []byte("fake audio"), 0o644))

	tr := transcriber.New(transcriber.Options{BaseURL: srv.URL + "/v1", APIKey: "k", Model: "gpt-4o-transcribe"}, logger.Nop())
	sum, err := summarizer.New(summarizer.Options{
		Instruction:   "Summarize the given transcript.",
		OpenAIBaseURL: srv.URL + "/v1",
		OpenAIAPIKey:  "k",
		OpenAIModel:   "gpt-5",
	}, logger.Nop())
	require.NoError(t, err)

	p := New(&fakeRecorder{granted: true, location: audio}, tr, sum, nil, logger.Nop())
	require.NoError(t, p.Start(context.Background()))
	status, err := p.Stop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Greeting note.", status.DisplayText())
}

func TestRoundTripTranscriptionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	audio := t.TempDir() + "/recording.m4a"
	require.NoError(t, os.WriteFile(audio, []byte("fake audio"), 0o644))

	tr := transcriber.New(transcriber.Options{BaseURL: srv.URL, APIKey: "k", Model: "m"}, logger.Nop())
	sum := &fakeSummarizer{summary: "unused"}

	p := New(&fakeRecorder{granted: true, location: audio}, tr, sum, nil, logger.Nop())
	require.NoError(t, p.Start(context.Background()))
	status, err := p.Stop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseIdle, status.Phase)
	assert.Equal(t, FailureTranscriptionFailed, status.Failure)
	assert.Zero(t, sum.calls)
}

func TestNoStopActionWhenIdle(t *testing.T) {
	for _, failure := range []Failure{FailureNone, FailureEmptyRecording, FailureTranscriptionFailed, FailureSummarizationFailed} {
		s := Status{Phase: PhaseIdle, Failure: failure}
		assert.NotEqual(t, ActionStop, s.Action(), failure)
		assert.Equal(t, "New Recording", s.ToggleLabel())
		assert.Equal(t, "mic", s.Icon())
	}
}

func TestStopFinishesAfterCallerDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	audio := t.TempDir() + "/recording.m4a"
	require.NoError(t, os.WriteFile(audio, []byte("fake audio"), 0o644))

	tr := transcriber.New(transcriber.Options{BaseURL: srv.URL, APIKey: "k", Model: "m"}, logger.Nop())
	p := New(&fakeRecorder{granted: true, location: audio}, tr, &fakeSummarizer{summary: "Greeting note."}, nil, logger.Nop())
	require.NoError(t, p.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	status, err := p.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, status.Phase)
	assert.Equal(t, FailureNone, status.Failure)
	assert.Equal(t, "Greeting note.", status.Summary)
}

// slowRecorder blocks in Start and Stop until released.
type slowRecorder struct {
	fakeRecorder
	entered chan struct{}
	release chan struct{}
}

func (r *slowRecorder) Start(ctx context.Context) error {
	r.entered <- struct{}{}
	<-r.release
	return r.fakeRecorder.Start(ctx)
}

func (r *slowRecorder) Stop(ctx context.Context) (string, error) {
	r.entered <- struct{}{}
	<-r.release
	return r.fakeRecorder.Stop(ctx)
}

func TestStatusResponsiveWhileRecorderSwitches(t *testing.T) {
	rec := &slowRecorder{
		fakeRecorder: fakeRecorder{granted: true, location: "/tmp/recording.m4a"},
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	p := New(rec, &fakeTranscriber{text: "x"}, &fakeSummarizer{summary: "s"}, nil, logger.Nop())

	started := make(chan error, 1)
	go func() { started <- p.Start(context.Background()) }()
	<-rec.entered

	statusDone := make(chan Status, 1)
	go func() { statusDone <- p.Status() }()
	select {
	case s := <-statusDone:
		assert.Equal(t, PhaseIdle, s.Phase)
	case <-time.After(time.Second):
		t.Fatal("Status blocked while the recorder was starting")
	}
	assert.ErrorIs(t, p.Start(context.Background()), ErrBusy)

	rec.release <- struct{}{}
	require.NoError(t, <-started)
	assert.Equal(t, PhaseRecording, p.Status().Phase)

	stopped := make(chan error, 1)
	go func() {
		_, err := p.Stop(context.Background())
		stopped <- err
	}()
	<-rec.entered

	assert.Equal(t, PhaseRecording, p.Status().Phase)
	assert.ErrorIs(t, p.StopAsync(context.Background()), ErrBusy)

	rec.release <- struct{}{}
	require.NoError(t, <-stopped)
	assert.Equal(t, PhaseReady, p.Status().Phase)
}
