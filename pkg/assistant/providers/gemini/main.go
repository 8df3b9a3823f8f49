package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/unitwise/unitwise/pkg/Logger"
	"google.golang.org/api/option"
)

// GeminiProvider holds the shared genai client; models are created per
// request since tool declarations hang off the model handle.
type GeminiProvider struct {
	client *genai.Client
	logger *Logger.Logger
}

func New(apiKey string, logger *Logger.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}
	return &GeminiProvider{client: client, logger: logger}, nil
}

func (gp *GeminiProvider) GetModel(modelName string) *genai.GenerativeModel {
	return gp.client.GenerativeModel(modelName)
}
