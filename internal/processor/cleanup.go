package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// moveToArchived moves the source into the archive folder, adding a
// timestamp when a file with the same name was archived before.
func (p *implProcessor) moveToArchived(ctx context.Context, sourcePath string) (string, error) {
	if err := os.MkdirAll(p.opts.ArchivedDir, 0755); err != nil {
		return "", fmt.Errorf("create archived dir: %w", err)
	}

	filename := filepath.Base(sourcePath)
	destPath := filepath.Join(p.opts.ArchivedDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		destPath = filepath.Join(p.opts.ArchivedDir,
			strings.TrimSuffix(filename, ext)+"-"+p.now().Format("20060102-150405")+ext)
	}

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", sourcePath, destPath)

	if err := os.Rename(sourcePath, destPath); err != nil {
		// Rename fails across filesystems.
		if err := copyFile(sourcePath, destPath); err != nil {
			return "", fmt.Errorf("move to archived: %w", err)
		}
		if err := os.Remove(sourcePath); err != nil {
			return "", fmt.Errorf("remove archived source: %w", err)
		}
	}

	return destPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
