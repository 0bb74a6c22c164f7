package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
	"github.com/nguyentantai21042004/notetaker/internal/recorder"
)

// UI is a line-oriented presentation of the pipeline: Enter toggles the
// recording, q quits. It doubles as the pipeline's Alerter.
type UI struct {
	in     io.Reader
	out    io.Writer
	logger logger.Logger

	mu sync.Mutex // serializes writes to out
}

func New(in io.Reader, out io.Writer, log logger.Logger) *UI {
	return &UI{in: in, out: out, logger: log}
}

func (u *UI) Alert(message string) {
	u.printf("! %s\n", message)
}

// Run renders every status change and handles input until the user quits
// or input ends. Quitting or cancelling ctx while recording still
// summarizes the recording, and a summary in progress is awaited before
// returning.
func (u *UI) Run(ctx context.Context, p pipeline.Pipeline) error {
	updates, cancel := p.Subscribe()

	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for s := range updates {
			u.mu.Lock()
			Render(u.out, s)
			u.mu.Unlock()
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(u.in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	defer func() {
		p.Wait()
		cancel()
		<-rendered
	}()

	for {
		select {
		case <-ctx.Done():
			if p.Status().IsRecording() {
				if err := p.StopAsync(context.WithoutCancel(ctx)); err != nil {
					u.logger.Error(ctx, "Stop on interrupt failed: %v", err)
				}
			}
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch strings.ToLower(line) {
			case "":
				u.toggle(ctx, p)
			case "q", "quit", "exit":
				if p.Status().IsRecording() {
					u.toggle(ctx, p)
				}
				return nil
			default:
				u.printf("Press Enter to toggle the recording, q to quit.\n")
			}
		}
	}
}

func (u *UI) toggle(ctx context.Context, p pipeline.Pipeline) {
	_, err := p.Toggle(ctx)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrBusy):
		u.printf("Still summarizing the last recording.\n")
	case errors.Is(err, recorder.ErrPermissionDenied):
		// already alerted
	default:
		u.logger.Error(ctx, "Toggle failed: %v", err)
		u.printf("Error: %v\n", err)
	}
}

func (u *UI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, _ = fmt.Fprintf(u.out, format, args...)
}
