package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/notetaker/internal/app"
	"github.com/nguyentantai21042004/notetaker/internal/config"
	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/version"
)

const defaultConfigFile = "config.yaml"

// Dependencies is filled in before any subcommand runs.
type Dependencies struct {
	ConfigPath string
	Overrides  config.Overrides

	Config *config.Config
	Logger logger.Logger
	App    *app.App
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notetaker",
		Short:         "Record voice notes, transcribe and summarize them",
		Long:          "A tool that records audio from the microphone, transcribes it with an OpenAI-compatible speech-to-text endpoint and summarizes the transcript.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.load()
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&deps.ConfigPath, "config", "c", "", "config file (default ./config.yaml when present)")
	flags.StringVar(&deps.Overrides.EnvFile, "env-file", "", "dotenv file to load (default ./.env)")
	flags.StringVar(&deps.Overrides.LogLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewSummarizeCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func (d *Dependencies) load() error {
	path := d.ConfigPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.Load(path, d.Overrides)
	if err != nil {
		return err
	}

	// Logs go to stderr so the terminal view and printed summaries stay clean.
	log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	d.Config = cfg
	d.Logger = log
	d.App = application
	return nil
}
