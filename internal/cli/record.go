package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/notetaker/internal/terminal"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Record and summarize notes interactively",
		Long:  "Press Enter to start a recording, Enter again to stop and summarize it, q to quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Config.RequireCredentials(); err != nil {
				return err
			}
			if err := deps.Config.RequireRecorder(); err != nil {
				return err
			}
			ctx := cmd.Context()

			ui := terminal.New(os.Stdin, cmd.OutOrStdout(), deps.Logger)
			p := deps.App.NewPipeline(ui)
			p.Init(ctx)

			stopNotifier, err := deps.App.StartNotifier(ctx, p)
			if err != nil {
				return err
			}
			defer stopNotifier()

			return ui.Run(ctx, p)
		},
	}
}
