package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/tripforge/go-trip-planner/internal/types"
)

const (
	DefaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.5
)

// AIClient wraps the Gemini API behind the synthesis pipeline's
// TextGenerator contract, translating SDK failures into the app's error
// taxonomy so callers never see genai types.
type AIClient struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewAIClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*AIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{client: client, model: model, logger: logger}, nil
}

// Complete generates free-form text for the prompt. The caller bounds the
// call with its own context deadline.
func (ai *AIClient) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](defaultTemperature),
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		mapped := mapGenaiError(err)
		ai.logger.WarnContext(ctx, "Gemini request failed",
			slog.String("model", ai.model), slog.Any("error", err))
		return "", fmt.Errorf("generate content: %w", mapped)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("generate content: empty candidate text: %w", types.ErrMalformedResponse)
	}
	return text, nil
}

// mapGenaiError folds SDK and transport failures into the app taxonomy.
func mapGenaiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ErrProviderTimeout
	}
	if errors.Is(err, context.Canceled) {
		return types.ErrCancelled
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return types.ErrRateLimited
		case 401, 403:
			return types.ErrUnauthorized
		}
	}
	return types.ErrMalformedResponse
}
