package cli

import (
	"github.com/spf13/cobra"
)

func NewSummarizeCmd(deps *Dependencies) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "summarize <file>...",
		Short: "Transcribe and summarize existing recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Config.RequireCredentials(); err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = deps.Config.Paths.Output
			}

			proc := deps.App.NewProcessor(outputDir, false)
			results, err := proc.ProcessAll(cmd.Context(), args)

			f := newFormatter(cmd.OutOrStdout())
			for _, res := range results {
				if res.MarkdownPath != "" {
					f.Note(res.Source, res.Summary, res.MarkdownPath)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "folder for the notes (default paths.output)")
	return cmd
}
