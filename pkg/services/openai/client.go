// Package openai binds the transcription and summarization service
// boundaries to the OpenAI API.
package openai

import (
	"errors"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

const (
	providerName                  = "openai"
	defaultTranscriptionModelName = "whisper-1"
	envAPIKey                     = "OPENAI_API_KEY"
	envBaseURL                    = "OPENAI_BASE_URL"
)

// Config carries the connection settings shared by both backends.
type Config struct {
	APIKey  string
	BaseURL string
	// Model overrides the transcription model; summarization models come
	// from the fallback chain per call.
	Model string
}

type client struct {
	apiClient openai.Client
	cfg       Config
}

func newClient(cfg Config) (*client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(envAPIKey))
	}
	if apiKey == "" {
		return nil, utils.WrapIfNotNil(errors.New("auth token is required (set Config.APIKey or OPENAI_API_KEY)"))
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv(envBaseURL))
	}
	if baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}

	return &client{apiClient: openai.NewClient(requestOpts...), cfg: cfg}, nil
}

// mapAPIError normalizes openai-go failures onto the ServiceError
// taxonomy so orchestration code can classify them by status code.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := strings.TrimSpace(apiErr.Message)
		if message == "" {
			message = apiErr.Error()
		}
		return model.NewServiceError(apiErr.StatusCode, message)
	}
	return err
}

func resolveTranscriptionModelName(cfg Config) string {
	if modelName := strings.TrimSpace(cfg.Model); modelName != "" {
		return modelName
	}
	return defaultTranscriptionModelName
}
