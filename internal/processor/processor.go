package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/metrics"
	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
)

// Process transcribes and summarizes one media file, writes <name>.md and
// <name>.docx to the output folder and archives the source.
func (p *implProcessor) Process(ctx context.Context, mediaPath string) (Result, error) {
	res, err := p.process(logger.WithField(ctx, "file", filepath.Base(mediaPath)), mediaPath)
	if err != nil {
		metrics.InboxFilesTotal.WithLabelValues("failed").Inc()
		return res, err
	}
	metrics.InboxFilesTotal.WithLabelValues("processed").Inc()
	return res, nil
}

func (p *implProcessor) process(ctx context.Context, mediaPath string) (Result, error) {
	startTime := time.Now()
	res := Result{Source: mediaPath}
	name := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	p.logger.Info(ctx, "Starting note processing: %s", mediaPath)

	// Step 1: Make sure we upload m4a
	audioPath, temporary, err := p.prepareAudio(ctx, mediaPath)
	if err != nil {
		return res, fmt.Errorf("prepare audio: %w", err)
	}
	if temporary {
		defer p.cleanupTempFile(ctx, audioPath)
	}

	// Step 2: Transcribe
	stageStart := time.Now()
	res.Transcript, err = p.transcriber.Transcribe(ctx, audioPath)
	metrics.ObserveStage("transcribe", stageStart)
	if err != nil {
		return res, fmt.Errorf("transcribe: %w", err)
	}
	if strings.TrimSpace(res.Transcript) == "" {
		return res, fmt.Errorf("transcribe: empty transcript")
	}

	// Step 3: Summarize
	stageStart = time.Now()
	res.Summary, err = p.summarizer.Summarize(ctx, res.Transcript)
	metrics.ObserveStage("summarize", stageStart)
	if err != nil {
		return res, fmt.Errorf("summarize: %w", err)
	}

	// Step 4: Write the note
	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	note := summarizer.Note{Title: name, Summary: res.Summary, Transcript: res.Transcript}

	res.MarkdownPath = filepath.Join(p.opts.OutputDir, name+".md")
	if err := os.WriteFile(res.MarkdownPath, []byte(summarizer.RenderMarkdown(note, p.now())), 0644); err != nil {
		return res, fmt.Errorf("write markdown: %w", err)
	}

	res.DocxPath = filepath.Join(p.opts.OutputDir, name+".docx")
	if err := summarizer.WriteDocx(note, res.DocxPath); err != nil {
		p.logger.Warn(ctx, "Failed to write docx: %v", err)
		res.DocxPath = ""
	}

	// Step 5: Move the source to the archived folder
	if p.opts.ArchivedDir != "" {
		archived, err := p.moveToArchived(ctx, mediaPath)
		if err != nil {
			p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
		}
		res.ArchivedPath = archived
	}

	p.logger.Info(ctx, "Note written: %s (%s)", res.MarkdownPath, time.Since(startTime).Round(time.Millisecond))
	return res, nil
}

func (p *implProcessor) ProcessAll(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	errs := make([]error, len(paths))
	sem := newSemaphore(p.opts.MaxConcurrent)

	var wg sync.WaitGroup
	for i, path := range paths {
		if err := sem.acquire(ctx); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.release()

			res, err := p.Process(ctx, path)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
			}
		}()
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
