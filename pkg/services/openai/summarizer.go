package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// Summarizer implements model.SummarizationService via chat completions
// with a JSON schema response format.
type Summarizer struct {
	client *client
}

func NewSummarizer(cfg Config) (*Summarizer, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return &Summarizer{client: c}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, req model.SummarizeRequest) (string, error) {
	start := time.Now()
	meta := model.NewGenerationMetadata(providerName, req.Model)

	log := logging.NewLogger(ctx)
	log.Infof("summarization_request model=%q input_bytes=%d", req.Model, len(req.Input))

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instruction),
			openai.UserMessage(req.Input),
		},
	}
	if len(req.Schema) > 0 {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "voice_memo_summary",
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	response, err := s.client.apiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(mapAPIError(err))
	}
	if response == nil || len(response.Choices) == 0 {
		err = errors.New("chat completions API returned no choices")
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	meta.SetLatency(start)
	meta.SetTokenCounts(response.Usage.PromptTokens, response.Usage.CompletionTokens, response.Usage.TotalTokens)
	log.Infof("summarization_complete %s", meta)
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
