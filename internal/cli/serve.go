package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/notetaker/internal/httpapi"
	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
	"github.com/nguyentantai21042004/notetaker/internal/version"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Control recordings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Config.RequireCredentials(); err != nil {
				return err
			}
			if err := deps.Config.RequireRecorder(); err != nil {
				return err
			}
			ctx := cmd.Context()
			log := deps.Logger

			alerter := pipeline.AlerterFunc(func(message string) {
				log.Warn(ctx, "%s", message)
			})
			p := deps.App.NewPipeline(alerter)
			p.Init(ctx)

			stopNotifier, err := deps.App.StartNotifier(ctx, p)
			if err != nil {
				return err
			}
			defer stopNotifier()

			cfg := deps.Config.HTTP
			srv := httpapi.New(httpapi.Options{
				Addr:         cfg.Addr,
				AuthToken:    cfg.AuthToken,
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				Version:      version.Version,
			}, p, log)

			errChan := make(chan error, 1)
			go func() {
				errChan <- srv.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				log.Info(ctx, "Shutdown signal received")
			case err := <-errChan:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn(ctx, "HTTP shutdown: %v", err)
			}

			if p.Status().IsRecording() {
				if _, err := p.Stop(shutdownCtx); err != nil {
					log.Warn(ctx, "Failed to stop recording: %v", err)
				}
			}
			p.Wait()
			return nil
		},
	}

	cmd.Flags().StringVar(&deps.Overrides.HTTPAddr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}
