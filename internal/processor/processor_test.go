package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
	"github.com/nguyentantai21042004/notetaker/internal/transcriber"
	"github.com/nguyentantai21042004/notetaker/pkg/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor writes a small m4a stand-in to the last ffmpeg argument.
type fakeExecutor struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (e *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, append([]string{name}, args...))
	e.mu.Unlock()
	if e.err != nil {
		return "", e.err
	}
	return "", os.WriteFile(args[len(args)-1], []byte("m4a"), 0o644)
}

func (e *fakeExecutor) Start(context.Context, string, ...string) (executor.Process, error) {
	return nil, errors.New("not supported")
}

func (e *fakeExecutor) LookPath(name string) (string, error) { return "/usr/bin/" + name, nil }

type fakeTranscriber struct {
	text    string
	err     error
	running atomic.Int32
	peak    atomic.Int32
}

func (t *fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	n := t.running.Add(1)
	defer t.running.Add(-1)
	for {
		p := t.peak.Load()
		if n <= p || t.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)

	if !strings.HasSuffix(path, ".m4a") {
		return "", errors.New("expected m4a upload")
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return t.text, t.err
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (s *fakeSummarizer) Summarize(context.Context, string) (string, error) {
	return s.summary, s.err
}

type dirs struct {
	input, output, archived, temp string
}

func newDirs(t *testing.T) dirs {
	root := t.TempDir()
	d := dirs{
		input:    filepath.Join(root, "input"),
		output:   filepath.Join(root, "output"),
		archived: filepath.Join(root, "archived"),
		temp:     filepath.Join(root, "temp"),
	}
	require.NoError(t, os.MkdirAll(d.input, 0o755))
	return d
}

func newTestProcessor(d dirs, archive bool, exec *fakeExecutor, tr transcriber.Transcriber, sum summarizer.Summarizer) *implProcessor {
	opts := Options{OutputDir: d.output, TempDir: d.temp, MaxConcurrent: 1}
	if archive {
		opts.ArchivedDir = d.archived
	}
	p := New(opts, exec, tr, sum, logger.Nop()).(*implProcessor)
	p.now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }
	return p
}

func writeInput(t *testing.T, d dirs, name string) string {
	path := filepath.Join(d.input, name)
	require.NoError(t, os.WriteFile(path, []byte("media"), 0o644))
	return path
}

func TestProcessM4AWritesNoteAndArchives(t *testing.T) {
	d := newDirs(t)
	exec := &fakeExecutor{}
	p := newTestProcessor(d, true, exec, &fakeTranscriber{text: "hello world"}, &fakeSummarizer{summary: "Greeting note."})
	src := writeInput(t, d, "standup.m4a")

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	assert.Empty(t, exec.calls, "m4a input is uploaded without conversion")
	assert.Equal(t, "Greeting note.", res.Summary)
	assert.Equal(t, filepath.Join(d.output, "standup.md"), res.MarkdownPath)
	assert.Equal(t, filepath.Join(d.output, "standup.docx"), res.DocxPath)
	assert.Equal(t, filepath.Join(d.archived, "standup.m4a"), res.ArchivedPath)

	md, err := os.ReadFile(res.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# standup")
	assert.Contains(t, string(md), "Greeting note.")
	assert.Contains(t, string(md), "hello world")

	assert.FileExists(t, res.DocxPath)
	assert.NoFileExists(t, src)
}

func TestProcessConvertsOtherFormats(t *testing.T) {
	d := newDirs(t)
	exec := &fakeExecutor{}
	p := newTestProcessor(d, false, exec, &fakeTranscriber{text: "hello"}, &fakeSummarizer{summary: "s"})
	src := writeInput(t, d, "call.mp3")

	res, err := p.Process(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	args := strings.Join(exec.calls[0], " ")
	assert.Contains(t, args, "-i "+src)
	assert.Contains(t, args, "-c:a aac -b:a 128k -ar 44100 -ac 2")

	converted := exec.calls[0][len(exec.calls[0])-1]
	assert.NoFileExists(t, converted, "temporary m4a is removed")
	assert.FileExists(t, src, "source stays when archiving is off")
	assert.Empty(t, res.ArchivedPath)
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		exec    *fakeExecutor
		tr      *fakeTranscriber
		sum     *fakeSummarizer
		wantErr error
	}{
		{
			name:    "conversion fails",
			file:    "call.wav",
			exec:    &fakeExecutor{err: errors.New("ffmpeg exploded")},
			tr:      &fakeTranscriber{text: "x"},
			sum:     &fakeSummarizer{summary: "x"},
		},
		{
			name:    "transcription fails",
			file:    "a.m4a",
			exec:    &fakeExecutor{},
			tr:      &fakeTranscriber{err: transcriber.ErrTranscriptionFailed},
			sum:     &fakeSummarizer{summary: "x"},
			wantErr: transcriber.ErrTranscriptionFailed,
		},
		{
			name: "empty transcript",
			file: "a.m4a",
			exec: &fakeExecutor{},
			tr:   &fakeTranscriber{text: "  "},
			sum:  &fakeSummarizer{summary: "x"},
		},
		{
			name:    "summarization fails",
			file:    "a.m4a",
			exec:    &fakeExecutor{},
			tr:      &fakeTranscriber{text: "x"},
			sum:     &fakeSummarizer{err: summarizer.ErrSummarizationFailed},
			wantErr: summarizer.ErrSummarizationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDirs(t)
			p := newTestProcessor(d, true, tt.exec, tt.tr, tt.sum)
			src := writeInput(t, d, tt.file)

			_, err := p.Process(context.Background(), src)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.FileExists(t, src, "failed inputs are not archived")
			assert.NoFileExists(t, filepath.Join(d.output, strings.TrimSuffix(tt.file, filepath.Ext(tt.file))+".md"))
		})
	}
}

func TestMoveToArchivedAvoidsOverwrite(t *testing.T) {
	d := newDirs(t)
	p := newTestProcessor(d, true, &fakeExecutor{}, &fakeTranscriber{}, &fakeSummarizer{})
	require.NoError(t, os.MkdirAll(d.archived, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(d.archived, "a.m4a"), []byte("old"), 0o644))

	dest, err := p.moveToArchived(context.Background(), writeInput(t, d, "a.m4a"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.archived, "a-20260501-100000.m4a"), dest)

	old, err := os.ReadFile(filepath.Join(d.archived, "a.m4a"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestProcessAllBoundsConcurrency(t *testing.T) {
	d := newDirs(t)
	tr := &fakeTranscriber{text: "x"}
	p := newTestProcessor(d, false, &fakeExecutor{}, tr, &fakeSummarizer{summary: "s"})
	p.opts.MaxConcurrent = 2

	paths := []string{
		writeInput(t, d, "a.m4a"),
		writeInput(t, d, "b.m4a"),
		writeInput(t, d, "c.m4a"),
		filepath.Join(d.input, "missing.m4a"),
	}

	results, err := p.ProcessAll(context.Background(), paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.m4a")
	require.Len(t, results, 4)
	for i := range 3 {
		assert.Equal(t, "s", results[i].Summary)
	}
	assert.LessOrEqual(t, tr.peak.Load(), int32(2))
}
