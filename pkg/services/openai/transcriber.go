package openai

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// Transcriber implements model.TranscriptionService against the audio
// transcriptions API.
type Transcriber struct {
	client *client
}

func NewTranscriber(cfg Config) (*Transcriber, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return &Transcriber{client: c}, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, audio model.PreparedAudio) (string, error) {
	start := time.Now()
	modelName := resolveTranscriptionModelName(t.client.cfg)
	meta := model.NewGenerationMetadata(providerName, modelName)

	log := logging.NewLogger(ctx)
	log.Infof("transcription_request model=%q name=%q mime=%q size=%d", modelName, audio.Name, audio.MIMEType, audio.SizeBytes())

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio.Buffer), audio.Name, audio.MIMEType),
		Model:          openai.AudioModel(modelName),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}

	response, err := t.client.apiClient.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(mapAPIError(err))
	}
	if response == nil {
		err = errors.New("audio transcriptions API returned nil response")
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}

	meta.SetLatency(start)
	log.Infof("transcription_complete %s", meta)
	return strings.TrimSpace(response.Text), nil
}
