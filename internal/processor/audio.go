package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// prepareAudio returns an m4a file for mediaPath. Inputs that are already
// m4a are used as is; anything else is converted into the temp dir with the
// same AAC settings the recorder uses. temporary reports whether the caller
// must remove the returned file.
func (p *implProcessor) prepareAudio(ctx context.Context, mediaPath string) (audioPath string, temporary bool, err error) {
	if strings.EqualFold(filepath.Ext(mediaPath), ".m4a") {
		return mediaPath, false, nil
	}

	tempDir := p.opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", false, fmt.Errorf("create temp dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath = filepath.Join(tempDir, base+"-"+p.newID()+".m4a")

	p.logger.Info(ctx, "Converting to m4a: %s", mediaPath)

	// -vn: drop any video stream
	// -c:a aac -b:a 128k -ar 44100 -ac 2: AAC stereo at 44.1 kHz, 128 kbit/s
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", mediaPath,
		"-vn",
		"-c:a", "aac",
		"-b:a", "128k",
		"-ar", "44100",
		"-ac", "2",
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, p.opts.FFmpegPath, args...); err != nil {
		return "", false, fmt.Errorf("ffmpeg convert audio: %w", err)
	}

	p.logger.Info(ctx, "Audio converted successfully: %s", audioPath)
	return audioPath, true, nil
}
