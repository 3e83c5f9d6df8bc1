// Package ollama binds the summarization service boundary to a local
// Ollama instance, the zero-cost tail of the model fallback chain.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	ollamasdk "github.com/rozoomcool/go-ollama-sdk"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

const (
	providerName   = "ollama"
	defaultBaseURL = "http://localhost:11434"
	envBaseURL     = "OLLAMA_BASE_URL"
)

// Config carries the Ollama endpoint.
type Config struct {
	BaseURL string
}

// Summarizer implements model.SummarizationService. The SDK reports
// failures as plain errors without status codes, so classification falls
// back to message matching.
type Summarizer struct {
	apiClient *ollamasdk.OllamaClient
}

func NewSummarizer(cfg Config) (*Summarizer, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv(envBaseURL))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Summarizer{apiClient: ollamasdk.NewClient(baseURL)}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, req model.SummarizeRequest) (string, error) {
	start := time.Now()
	meta := model.NewGenerationMetadata(providerName, req.Model)

	log := logging.NewLogger(ctx)
	log.Infof("summarization_request model=%q input_bytes=%d", req.Model, len(req.Input))

	if err := ctx.Err(); err != nil {
		return "", utils.WrapIfNotNil(err)
	}

	messages := []ollamasdk.ChatMessage{
		{Role: "system", Content: buildInstruction(req)},
		{Role: "user", Content: req.Input},
	}

	text, err := s.apiClient.Chat(req.Model, messages)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(mapAPIError(err))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		err = errors.New("chat API returned empty output")
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	// The plain chat endpoint reports no token usage.
	meta.SetLatency(start)
	log.Infof("summarization_complete %s", meta)
	return text, nil
}

// buildInstruction inlines the schema, since the plain chat endpoint has
// no structured-output parameter.
func buildInstruction(req model.SummarizeRequest) string {
	instruction := req.Instruction
	if len(req.Schema) > 0 {
		if schemaBytes, err := json.Marshal(req.Schema); err == nil {
			instruction += "\nAnswer with a single JSON object matching this schema:\n" + string(schemaBytes)
		}
	}
	return instruction
}

func mapAPIError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case utils.ContainsErrorSubstring(err, "not found"),
		utils.ContainsErrorSubstring(err, "no such model"):
		return model.NewServiceError(http.StatusNotFound, err.Error())
	case utils.ContainsErrorSubstring(err, "connection refused"):
		return model.NewServiceError(http.StatusServiceUnavailable, err.Error())
	default:
		return model.NewServiceError(http.StatusInternalServerError, err.Error())
	}
}
