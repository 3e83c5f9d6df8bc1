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

const transcriptionPrompt = "Transcribe this audio recording verbatim. Return only the transcript text."

// Transcriber implements model.TranscriptionService by sending the audio
// bytes inline with a transcription prompt.
type Transcriber struct {
	cfg Config
}

func NewTranscriber(cfg Config) (*Transcriber, error) {
	return &Transcriber{cfg: cfg}, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, audio model.PreparedAudio) (string, error) {
	start := time.Now()
	modelName := resolveTranscriptionModelName(t.cfg)
	meta := model.NewGenerationMetadata(providerName, modelName)

	log := logging.NewLogger(ctx)
	log.Infof("transcription_request model=%q name=%q mime=%q size=%d", modelName, audio.Name, audio.MIMEType, audio.SizeBytes())

	client, err := newAPIClient(ctx, t.cfg)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(transcriptionPrompt),
				genai.NewPartFromBytes(audio.Buffer, audio.MIMEType),
			},
			genai.RoleUser,
		),
	}

	response, err := client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{})
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(mapAPIError(err))
	}

	meta.SetLatency(start)
	meta.SetTokenCounts(usageTokenCounts(response.UsageMetadata))
	log.Infof("transcription_complete %s", meta)
	return strings.TrimSpace(response.Text()), nil
}
