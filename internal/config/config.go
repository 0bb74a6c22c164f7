package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/nguyentantai21042004/notetaker/internal/summarizer"
)

const (
	DefaultOpenAIBaseURL      = "https://api.openai.com/v1"
	DefaultTranscriptionModel = "gpt-4o-transcribe"
	DefaultSummaryModel       = "gpt-5"
	DefaultInstruction        = "Summarize the given transcript."
	DefaultGeminiModel        = "gemini-2.5-flash"
)

type Config struct {
	OpenAI      OpenAIConfig      `yaml:"openai" envPrefix:"OPENAI_"`
	Summarizer  SummarizerConfig  `yaml:"summarizer" envPrefix:"SUMMARIZER_"`
	Gemini      GeminiConfig      `yaml:"gemini" envPrefix:"GEMINI_"`
	Recorder    RecorderConfig    `yaml:"recorder" envPrefix:"RECORDER_"`
	Paths       PathsConfig       `yaml:"paths" envPrefix:"PATHS_"`
	Logging     LoggingConfig     `yaml:"logging" envPrefix:"LOG_"`
	Performance PerformanceConfig `yaml:"performance" envPrefix:"PERFORMANCE_"`
	HTTP        HTTPConfig        `yaml:"http" envPrefix:"HTTP_"`
	MQTT        MQTTConfig        `yaml:"mqtt" envPrefix:"MQTT_"`
}

type OpenAIConfig struct {
	APIKey             string        `yaml:"api_key" env:"API_KEY"`
	BaseURL            string        `yaml:"base_url" env:"BASE_URL"`
	TranscriptionModel string        `yaml:"transcription_model" env:"TRANSCRIPTION_MODEL"`
	SummaryModel       string        `yaml:"summary_model" env:"SUMMARY_MODEL"`
	Timeout            time.Duration `yaml:"timeout" env:"TIMEOUT"` // 0 = transport default
}

type SummarizerConfig struct {
	Provider    string `yaml:"provider" env:"PROVIDER"`
	Instruction string `yaml:"instruction" env:"INSTRUCTION"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys" env:"API_KEYS" envSeparator:","`
	Model   string   `yaml:"model" env:"MODEL"`
}

type RecorderConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	InputFormat string `yaml:"input_format" env:"INPUT_FORMAT"`
	InputDevice string `yaml:"input_device" env:"INPUT_DEVICE"`
	TempDir     string `yaml:"temp_dir" env:"TEMP_DIR"`
}

type PathsConfig struct {
	Input    string `yaml:"input" env:"INPUT"`
	Output   string `yaml:"output" env:"OUTPUT"`
	Archived string `yaml:"archived" env:"ARCHIVED"`
	Temp     string `yaml:"temp" env:"TEMP"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" env:"MAX_CONCURRENT"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	AuthToken    string        `yaml:"auth_token" env:"AUTH_TOKEN"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

type MQTTConfig struct {
	BrokerURL string `yaml:"broker_url" env:"BROKER_URL"`
	ClientID  string `yaml:"client_id" env:"CLIENT_ID"`
	Topic     string `yaml:"topic" env:"TOPIC"`
	Username  string `yaml:"username" env:"USERNAME"`
	Password  string `yaml:"password" env:"PASSWORD"`
}

func (c *Config) Validate() error {
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = DefaultOpenAIBaseURL
	}
	c.OpenAI.BaseURL = strings.TrimRight(c.OpenAI.BaseURL, "/")
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = DefaultTranscriptionModel
	}
	if c.OpenAI.SummaryModel == "" {
		c.OpenAI.SummaryModel = DefaultSummaryModel
	}
	if c.OpenAI.Timeout < 0 {
		return fmt.Errorf("openai.timeout must not be negative")
	}

	c.Summarizer.Provider = strings.ToLower(c.Summarizer.Provider)
	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = summarizer.ProviderOpenAI
	}
	if c.Summarizer.Provider != summarizer.ProviderOpenAI && c.Summarizer.Provider != summarizer.ProviderGemini {
		return fmt.Errorf("summarizer.provider must be %q or %q, got %q", summarizer.ProviderOpenAI, summarizer.ProviderGemini, c.Summarizer.Provider)
	}
	if c.Summarizer.Instruction == "" {
		c.Summarizer.Instruction = DefaultInstruction
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}

	if c.Recorder.FFmpegPath == "" {
		c.Recorder.FFmpegPath = "ffmpeg"
	}
	if c.Recorder.InputFormat == "" {
		c.Recorder.InputFormat, c.Recorder.InputDevice = defaultInput(runtime.GOOS, c.Recorder.InputDevice)
	}
	if c.Recorder.TempDir == "" {
		c.Recorder.TempDir = os.TempDir()
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	switch c.Logging.Format {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 2
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	// Toggle requests return before the pipeline finishes, so this stays short.
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "notetaker"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "notetaker/status"
	}

	return nil
}

// RequireCredentials reports a missing API key for the configured providers.
func (c *Config) RequireCredentials() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai API key not set: set %sOPENAI_API_KEY or add openai.api_key to config", envPrefix)
	}
	if c.Summarizer.Provider == summarizer.ProviderGemini && len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini API keys not set: set %sGEMINI_API_KEYS or add gemini.api_keys to config", envPrefix)
	}
	return nil
}

// RequireRecorder reports a capture device that has no platform default.
func (c *Config) RequireRecorder() error {
	if c.Recorder.InputDevice == "" {
		return fmt.Errorf("recorder.input_device is required for input format %q: set %sRECORDER_INPUT_DEVICE or add recorder.input_device to config", c.Recorder.InputFormat, envPrefix)
	}
	return nil
}

func defaultInput(goos, device string) (string, string) {
	switch goos {
	case "darwin":
		if device == "" {
			device = ":default"
		}
		return "avfoundation", device
	case "windows":
		return "dshow", device
	default:
		if device == "" {
			device = "default"
		}
		return "pulse", device
	}
}
