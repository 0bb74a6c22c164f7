package transcriber

import (
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
)

const (
	uploadFilename = "recording.m4a"
	uploadMIMEType = "audio/m4a"
)

// Options configures the OpenAI-compatible transcription client.
type Options struct {
	BaseURL    string // e.g. https://api.openai.com/v1
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

type implTranscriber struct {
	url    string
	apiKey string
	model  string
	client *http.Client
	logger logger.Logger
}

// New creates a Transcriber posting to {BaseURL}/audio/transcriptions.
func New(opts Options, log logger.Logger) Transcriber {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &implTranscriber{
		url:    strings.TrimRight(opts.BaseURL, "/") + "/audio/transcriptions",
		apiKey: opts.APIKey,
		model:  opts.Model,
		client: client,
		logger: log,
	}
}
