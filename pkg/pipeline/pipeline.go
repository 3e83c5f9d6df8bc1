// Package pipeline composes preparation, transcription and summarization
// into the single entry point the product surface calls.
package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voicebrief-ai/audio-pipeline/pkg/audio/sniff"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/prepare"
	"github.com/voicebrief-ai/audio-pipeline/pkg/summarize"
	"github.com/voicebrief-ai/audio-pipeline/pkg/transcribe"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// Debug is the structured diagnostics payload attached to every result
// and every fatal error report.
type Debug struct {
	RequestID    string `json:"request_id"`
	Filename     string `json:"filename"`
	DetectedKind string `json:"detected_kind"`
	MIMEType     string `json:"mime_type"`
	SizeBytes    int    `json:"size_bytes"`
}

// Result is the end-to-end outcome for one upload.
type Result struct {
	Transcript     string        `json:"transcript"`
	PartialFailure string        `json:"partial_failure,omitempty"`
	Summary        model.Summary `json:"summary"`
	Debug          Debug         `json:"debug"`
}

// Error wraps a fatal pipeline failure with a user-facing message and the
// diagnostics payload.
type Error struct {
	UserMessage string
	Debug       Debug
	Err         error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Pipeline wires the three stages together. All state is request-scoped;
// a single Pipeline is safe for concurrent use.
type Pipeline struct {
	preparer     *prepare.Preparer
	orchestrator *transcribe.Orchestrator
	chain        *summarize.Chain
}

func New(preparer *prepare.Preparer, orchestrator *transcribe.Orchestrator, chain *summarize.Chain) (*Pipeline, error) {
	if preparer == nil || orchestrator == nil || chain == nil {
		return nil, utils.WrapIfNotNil(errors.New("preparer, orchestrator and chain are all required"))
	}
	return &Pipeline{preparer: preparer, orchestrator: orchestrator, chain: chain}, nil
}

// Run processes one upload to a transcript plus summary. Fatal failures
// come back as *Error carrying a human-readable message and diagnostics;
// format-level problems never abort the run, only degrade it.
func (p *Pipeline) Run(ctx context.Context, upload []byte, filename string) (*Result, error) {
	log := logging.NewLogger(ctx)
	debug := Debug{
		RequestID:    uuid.NewString(),
		Filename:     filename,
		DetectedKind: string(sniff.Detect(upload)),
		SizeBytes:    len(upload),
	}
	log.Infof("pipeline_start request_id=%s filename=%q size=%d kind=%s", debug.RequestID, filename, len(upload), debug.DetectedKind)

	prepared, err := p.preparer.Prepare(ctx, upload, filename)
	if err != nil {
		return nil, p.fatal(ctx, debug, err)
	}
	debug.MIMEType = prepared.MIMEType

	outcome, err := p.orchestrator.Transcribe(ctx, prepared)
	if err != nil {
		return nil, p.fatal(ctx, debug, err)
	}

	summary, err := p.chain.Summarize(ctx, outcome.Transcript)
	if err != nil {
		return nil, p.fatal(ctx, debug, err)
	}

	log.Infof("pipeline_done request_id=%s transcript_bytes=%d degraded=%t", debug.RequestID, len(outcome.Transcript), summary.Degraded)
	return &Result{
		Transcript:     outcome.Transcript,
		PartialFailure: outcome.PartialFailure,
		Summary:        summary,
		Debug:          debug,
	}, nil
}

func (p *Pipeline) fatal(ctx context.Context, debug Debug, err error) error {
	logging.NewLogger(ctx).Errorf("pipeline_failed request_id=%s filename=%q: %v", debug.RequestID, debug.Filename, err)
	return &Error{
		UserMessage: model.UserMessage(err),
		Debug:       debug,
		Err:         err,
	}
}
