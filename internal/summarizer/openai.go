package summarizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
)

// roleDeveloper is the instruction role used by current OpenAI chat models.
const roleDeveloper = "developer"

type openAISummarizer struct {
	client      *openai.Client
	model       string
	instruction string
	logger      logger.Logger
}

func newOpenAI(opts Options, log logger.Logger) *openAISummarizer {
	cfg := openai.DefaultConfig(opts.OpenAIAPIKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	return &openAISummarizer{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.OpenAIModel,
		instruction: opts.Instruction,
		logger:      log,
	}
}

// Summarize sends the instruction and transcript as a two-message chat and
// returns the first choice. Every error wraps ErrSummarizationFailed.
func (s *openAISummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	s.logger.Info(ctx, "Summarizing the transcript with %s", s.model)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    roleDeveloper,
				Content: s.instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: transcript,
			},
		},
	})
	if err != nil {
		s.logger.Error(ctx, "Error summarizing transcript: %v", err)
		return "", fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}
	if len(resp.Choices) == 0 {
		s.logger.Error(ctx, "Error summarizing transcript: no choices returned")
		return "", fmt.Errorf("%w: no choices returned", ErrSummarizationFailed)
	}

	s.logger.Debug(ctx, "Summary response id=%s finish_reason=%s", resp.ID, resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
