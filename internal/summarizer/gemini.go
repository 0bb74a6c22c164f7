package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/notetaker/internal/logger"
)

type geminiSummarizer struct {
	apiKeys     []string
	model       string
	instruction string
	baseURL     string
	logger      logger.Logger

	mu         sync.Mutex
	currentKey int
}

// Summarize sends the transcript to Gemini with the instruction as system
// instruction. Rotates API keys on 429 / quota errors; never retries
// otherwise.
func (s *geminiSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	text, err := s.callGemini(ctx, transcript)
	if err != nil {
		s.logger.Error(ctx, "Error summarizing transcript with Gemini: %v", err)
		return "", fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}
	return text, nil
}

func (s *geminiSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key, index := s.key()

		cfg := &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		}
		if s.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
		}

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(transcript), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(s.instruction, genai.RoleUser),
		})
		if err != nil {
			if isQuotaError(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", index+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (s *geminiSummarizer) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

func (s *geminiSummarizer) rotateKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}
