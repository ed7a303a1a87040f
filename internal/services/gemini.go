package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"spaceweather-backend/internal/models"
)

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // concurrent request slots
}

func NewGeminiService(apiKey, modelName string, temperature float32, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a request slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini request slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// SendMessage replays history into a fresh chat and sends one user message.
func (s *GeminiService) SendMessage(ctx context.Context, history []models.HistoryEntry, message string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", &ProviderError{Err: err}
	}
	defer s.releaseRate()

	cs := s.model.StartChat()
	cs.History = toContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			slog.Warn("gemini candidate stopped early", "index", i, "finish_reason", cand.FinishReason.String())
		}
	}

	return extractText(resp), nil
}

func classifyGeminiError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &SafetyBlockedError{Reason: blockReason(blocked), Err: err}
	}
	return &ProviderError{Err: err}
}

func blockReason(e *genai.BlockedError) string {
	if e.PromptFeedback != nil {
		return e.PromptFeedback.BlockReason.String()
	}
	if e.Candidate != nil {
		return e.Candidate.FinishReason.String()
	}
	return ""
}

func toContents(history []models.HistoryEntry) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, entry := range history {
		parts := make([]genai.Part, 0, len(entry.Parts))
		for _, p := range entry.Parts {
			parts = append(parts, genai.Text(p.Text))
		}
		contents = append(contents, &genai.Content{Role: entry.Role, Parts: parts})
	}
	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String()
}
