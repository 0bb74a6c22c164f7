package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/notetaker/internal/config"
	"github.com/nguyentantai21042004/notetaker/internal/logger"
	"github.com/nguyentantai21042004/notetaker/internal/notify"
	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
	"github.com/nguyentantai21042004/notetaker/internal/processor"
	"github.com/nguyentantai21042004/notetaker/internal/recorder"
	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
	"github.com/nguyentantai21042004/notetaker/internal/transcriber"
	"github.com/nguyentantai21042004/notetaker/pkg/executor"
)

// App holds the components built from one configuration.
type App struct {
	Config      *config.Config
	Logger      logger.Logger
	Executor    executor.Executor
	Recorder    recorder.Recorder
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
}

func New(cfg *config.Config, log logger.Logger) (*App, error) {
	exec := executor.New()
	client := &http.Client{Timeout: cfg.OpenAI.Timeout}

	sum, err := summarizer.New(summarizer.Options{
		Provider:      cfg.Summarizer.Provider,
		Instruction:   cfg.Summarizer.Instruction,
		OpenAIBaseURL: cfg.OpenAI.BaseURL,
		OpenAIAPIKey:  cfg.OpenAI.APIKey,
		OpenAIModel:   cfg.OpenAI.SummaryModel,
		HTTPClient:    client,
		GeminiAPIKeys: cfg.Gemini.APIKeys,
		GeminiModel:   cfg.Gemini.Model,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   log,
		Executor: exec,
		Recorder: recorder.New(recorder.Options{
			FFmpegPath:  cfg.Recorder.FFmpegPath,
			InputFormat: cfg.Recorder.InputFormat,
			InputDevice: cfg.Recorder.InputDevice,
			TempDir:     cfg.Recorder.TempDir,
		}, exec, log),
		Transcriber: transcriber.New(transcriber.Options{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKey:     cfg.OpenAI.APIKey,
			Model:      cfg.OpenAI.TranscriptionModel,
			HTTPClient: client,
		}, log),
		Summarizer: sum,
	}, nil
}

func (a *App) NewPipeline(alerter pipeline.Alerter) pipeline.Pipeline {
	return pipeline.New(a.Recorder, a.Transcriber, a.Summarizer, alerter, a.Logger)
}

// NewProcessor builds the file processor. Sources are archived only when
// archive is set.
func (a *App) NewProcessor(outputDir string, archive bool) processor.Processor {
	opts := processor.Options{
		FFmpegPath:    a.Config.Recorder.FFmpegPath,
		OutputDir:     outputDir,
		TempDir:       a.Config.Paths.Temp,
		MaxConcurrent: a.Config.Performance.MaxConcurrent,
	}
	if archive {
		opts.ArchivedDir = a.Config.Paths.Archived
	}
	return processor.New(opts, a.Executor, a.Transcriber, a.Summarizer, a.Logger)
}

// StartNotifier relays pipeline status to MQTT when a broker is configured.
// The returned stop function is safe to call when nothing was started.
func (a *App) StartNotifier(ctx context.Context, p pipeline.Pipeline) (func(), error) {
	if a.Config.MQTT.BrokerURL == "" {
		return func() {}, nil
	}

	pub, err := notify.Connect(ctx, notify.Options{
		BrokerURL: a.Config.MQTT.BrokerURL,
		ClientID:  a.Config.MQTT.ClientID,
		Topic:     a.Config.MQTT.Topic,
		Username:  a.Config.MQTT.Username,
		Password:  a.Config.MQTT.Password,
	}, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect mqtt: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		notify.Relay(ctx, p, pub, a.Logger)
	}()

	return func() {
		cancel()
		<-done
		pub.Close()
	}, nil
}
