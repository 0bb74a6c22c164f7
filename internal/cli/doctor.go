package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := deps.Config
			f := newFormatter(cmd.OutOrStdout())
			ok := true

			if path, err := deps.App.Executor.LookPath(cfg.Recorder.FFmpegPath); err != nil {
				f.Check("ffmpeg", false, "not found. Install ffmpeg or set recorder.ffmpeg_path")
				ok = false
			} else {
				f.Check("ffmpeg", true, path)
			}

			if err := cfg.RequireRecorder(); err != nil {
				f.Check("Microphone", false, err.Error())
				ok = false
			} else if granted, err := deps.App.Recorder.RequestPermission(ctx); granted {
				f.Check("Microphone", true, cfg.Recorder.InputFormat+" "+cfg.Recorder.InputDevice)
			} else {
				detail := "cannot open " + cfg.Recorder.InputFormat + " " + cfg.Recorder.InputDevice
				if err != nil {
					detail += ": " + err.Error()
				}
				f.Check("Microphone", false, detail)
				ok = false
			}

			if cfg.OpenAI.APIKey != "" {
				f.Check("OpenAI API key", true, "configured")
			} else {
				f.Check("OpenAI API key", false, "not set. Set NOTETAKER_OPENAI_API_KEY or add openai.api_key to config")
				ok = false
			}

			switch {
			case cfg.Summarizer.Provider == summarizer.ProviderGemini && len(cfg.Gemini.APIKeys) == 0:
				f.Check("Summarizer", false, "gemini selected but no keys. Set NOTETAKER_GEMINI_API_KEYS or add gemini.api_keys to config")
				ok = false
			case cfg.Summarizer.Provider == summarizer.ProviderGemini:
				f.Check("Summarizer", true, fmt.Sprintf("gemini %s, %d key(s)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys)))
			default:
				f.Check("Summarizer", true, "openai "+cfg.OpenAI.SummaryModel)
			}

			for _, dir := range []struct{ name, path string }{
				{"Input folder", cfg.Paths.Input},
				{"Output folder", cfg.Paths.Output},
				{"Archived folder", cfg.Paths.Archived},
			} {
				if info, err := os.Stat(dir.path); err == nil && info.IsDir() {
					f.Check(dir.name, true, dir.path)
				} else {
					f.Check(dir.name, true, dir.path+" (created on first watch)")
				}
			}

			if cfg.MQTT.BrokerURL != "" {
				f.Check("MQTT", true, cfg.MQTT.BrokerURL+" -> "+cfg.MQTT.Topic)
			}

			if ok {
				f.Success("\nAll prerequisites met. Ready to record!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
