package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
	"google.golang.org/genai"
)

// Summarizer implements model.SummarizationService with JSON responses
// shaped by the request schema.
type Summarizer struct {
	cfg Config
}

func NewSummarizer(cfg Config) (*Summarizer, error) {
	return &Summarizer{cfg: cfg}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, req model.SummarizeRequest) (string, error) {
	start := time.Now()
	meta := model.NewGenerationMetadata(providerName, req.Model)

	log := logging.NewLogger(ctx)
	log.Infof("summarization_request model=%q input_bytes=%d", req.Model, len(req.Input))

	client, err := newAPIClient(ctx, s.cfg)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Instruction, genai.RoleUser),
	}
	if len(req.Schema) > 0 {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = req.Schema
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Input, genai.RoleUser),
	}

	response, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(mapAPIError(err))
	}

	meta.SetLatency(start)
	meta.SetTokenCounts(usageTokenCounts(response.UsageMetadata))
	log.Infof("summarization_complete %s", meta)
	return strings.TrimSpace(response.Text()), nil
}
