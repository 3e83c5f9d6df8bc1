// Package gemini binds the transcription and summarization service
// boundaries to the Gemini API.
package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
	"google.golang.org/genai"
)

const (
	providerName                  = "gemini"
	defaultTranscriptionModelName = "gemini-2.5-flash"
	envAPIKey                     = "GEMINI_KEY"
)

// Config carries the connection settings shared by both backends.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func newAPIClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	token := strings.TrimSpace(cfg.APIKey)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(envAPIKey))
	}
	if token != "" {
		clientCfg.APIKey = token
	}

	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL: baseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return client, nil
}

// mapAPIError normalizes genai failures onto the ServiceError taxonomy.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		message := strings.TrimSpace(apiErr.Message)
		if message == "" {
			message = apiErr.Error()
		}
		return model.NewServiceError(apiErr.Code, message)
	}
	return err
}

// usageTokenCounts flattens the optional usage block into plain counts.
func usageTokenCounts(usage *genai.GenerateContentResponseUsageMetadata) (input, output, total int64) {
	if usage == nil {
		return 0, 0, 0
	}
	return int64(usage.PromptTokenCount), int64(usage.CandidatesTokenCount), int64(usage.TotalTokenCount)
}

func resolveTranscriptionModelName(cfg Config) string {
	if modelName := strings.TrimSpace(cfg.Model); modelName != "" {
		return modelName
	}
	return defaultTranscriptionModelName
}
