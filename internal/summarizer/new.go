package summarizer

import (
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Options selects and configures the summarization provider.
type Options struct {
	Provider    string
	Instruction string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	HTTPClient    *http.Client

	GeminiAPIKeys []string
	GeminiModel   string
	GeminiBaseURL string // empty uses the public endpoint
}

// New creates a Summarizer for opts.Provider.
func New(opts Options, log logger.Logger) (Summarizer, error) {
	switch opts.Provider {
	case "", ProviderOpenAI:
		return newOpenAI(opts, log), nil
	case ProviderGemini:
		if len(opts.GeminiAPIKeys) == 0 {
			return nil, fmt.Errorf("gemini summarizer needs at least one API key")
		}
		return &geminiSummarizer{
			apiKeys:     opts.GeminiAPIKeys,
			model:       opts.GeminiModel,
			instruction: opts.Instruction,
			baseURL:     opts.GeminiBaseURL,
			logger:      log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", opts.Provider)
	}
}
