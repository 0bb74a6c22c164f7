package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/notetaker/internal/watcher"
)

func NewWatchCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Summarize recordings dropped into the inbox folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Config.RequireCredentials(); err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg := deps.Config
			log := deps.Logger

			for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived, cfg.Paths.Temp} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create directory %s: %w", dir, err)
				}
			}

			proc := deps.App.NewProcessor(cfg.Paths.Output, true)
			handler := func(ctx context.Context, path string) error {
				_, err := proc.Process(ctx, path)
				return err
			}

			w, err := watcher.New(watcher.Options{
				Dir:           cfg.Paths.Input,
				MaxConcurrent: cfg.Performance.MaxConcurrent,
			}, handler, log)
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "Notes are written to %s, press Ctrl+C to stop", cfg.Paths.Output)

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
