package bedrock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// Summarizer implements model.SummarizationService over Converse. Bedrock
// has no response-schema parameter, so the schema is appended to the
// system instruction and tolerant parsing downstream absorbs the
// difference.
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

	client, err := newClient(ctx, s.cfg)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	system := []bedrocktypes.SystemContentBlock{
		&bedrocktypes.SystemContentBlockMemberText{Value: buildInstruction(req)},
	}
	messages := []bedrocktypes.Message{
		{
			Role: bedrocktypes.ConversationRoleUser,
			Content: []bedrocktypes.ContentBlock{
				&bedrocktypes.ContentBlockMemberText{Value: req.Input},
			},
		},
	}

	output, err := client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.Model),
		System:   system,
		Messages: messages,
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(mapAPIError(err))
	}

	text, err := extractOutputText(output.Output)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	meta.SetLatency(start)
	if usage := output.Usage; usage != nil {
		meta.SetTokenCounts(
			int64(aws.ToInt32(usage.InputTokens)),
			int64(aws.ToInt32(usage.OutputTokens)),
			int64(aws.ToInt32(usage.TotalTokens)),
		)
	}
	log.Infof("summarization_complete %s", meta)
	return text, nil
}

func buildInstruction(req model.SummarizeRequest) string {
	instruction := req.Instruction
	if len(req.Schema) > 0 {
		instruction += "\nAnswer as a single JSON object matching the requested fields exactly."
	}
	return instruction
}

func extractOutputText(output bedrocktypes.ConverseOutput) (string, error) {
	outputMessage, ok := output.(*bedrocktypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("converse output carries no message")
	}

	parts := make([]string, 0, len(outputMessage.Value.Content))
	for _, block := range outputMessage.Value.Content {
		if textBlock, ok := block.(*bedrocktypes.ContentBlockMemberText); ok {
			parts = append(parts, textBlock.Value)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("converse output carries no text blocks")
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
