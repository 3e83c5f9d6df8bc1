package pipeline

import (
	"fmt"

	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/amr"
	"github.com/voicebrief-ai/audio-pipeline/pkg/config"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/prepare"
	"github.com/voicebrief-ai/audio-pipeline/pkg/services/bedrock"
	"github.com/voicebrief-ai/audio-pipeline/pkg/services/gemini"
	"github.com/voicebrief-ai/audio-pipeline/pkg/services/ollama"
	"github.com/voicebrief-ai/audio-pipeline/pkg/services/openai"
	"github.com/voicebrief-ai/audio-pipeline/pkg/services/whisperhttp"
	"github.com/voicebrief-ai/audio-pipeline/pkg/summarize"
	"github.com/voicebrief-ai/audio-pipeline/pkg/transcribe"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// FromConfig builds a ready-to-run Pipeline with the configured backends.
func FromConfig(cfg config.Config) (*Pipeline, error) {
	logging.SetLevel(cfg.Logging.Level)

	transcriber, err := buildTranscriber(cfg.Transcription)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	summarizer, err := buildSummarizer(cfg.Summarization)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	preparer := prepare.New(
		&amr.ExecCodec{BinaryPath: cfg.Codec.BinaryPath},
		prepare.WithLooseBoxScan(cfg.Codec.AllowLooseScan),
	)

	orchestrator, err := transcribe.New(
		transcriber,
		transcribe.WithMaxRequestBytes(cfg.Transcription.MaxRequestBytes),
		transcribe.WithMaxConcurrent(cfg.Transcription.MaxConcurrent),
	)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	chain, err := summarize.NewChain(summarizer, cfg.Summarization.Models)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	return New(preparer, orchestrator, chain)
}

func buildTranscriber(cfg config.TranscriptionConfig) (model.TranscriptionService, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewTranscriber(openai.Config{APIKey: cfg.APIKey, BaseURL: cfg.Endpoint, Model: cfg.Model})
	case "gemini":
		return gemini.NewTranscriber(gemini.Config{APIKey: cfg.APIKey, BaseURL: cfg.Endpoint, Model: cfg.Model})
	case "whisper-http":
		return whisperhttp.NewClient(whisperhttp.Config{BaseURL: cfg.Endpoint, APIKey: cfg.APIKey, Model: cfg.Model})
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}

func buildSummarizer(cfg config.SummarizationConfig) (model.SummarizationService, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewSummarizer(openai.Config{APIKey: cfg.APIKey, BaseURL: cfg.Endpoint})
	case "gemini":
		return gemini.NewSummarizer(gemini.Config{APIKey: cfg.APIKey, BaseURL: cfg.Endpoint})
	case "bedrock":
		return bedrock.NewSummarizer(bedrock.Config{BaseURL: cfg.Endpoint})
	case "ollama":
		return ollama.NewSummarizer(ollama.Config{BaseURL: cfg.Endpoint})
	default:
		return nil, fmt.Errorf("unknown summarization provider %q", cfg.Provider)
	}
}
