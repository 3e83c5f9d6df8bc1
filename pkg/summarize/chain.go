// Package summarize runs the model fallback chain: an ordered list of
// model identifiers tried sequentially against a summarization backend,
// advancing only on failures that a different model could fix.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

// ErrAllModelsExhausted means every model in the chain was rejected as
// unavailable or bad-request; no summary was produced.
var ErrAllModelsExhausted = errors.New("summarize: all models exhausted")

// defaultInstruction is the fixed analysis instruction sent with every
// summarization call.
const defaultInstruction = `You are analyzing the transcript of a voice recording.
Produce a JSON object with exactly these fields:
brief_summary, participants, key_points, agreements, legally_significant, cautions.
Write plainly for a non-technical reader. If a field has nothing to report, say so explicitly.
Respond with JSON only.`

type attemptStatus int

const (
	attemptSuccess attemptStatus = iota
	attemptSkip
	attemptFatal
)

// attemptOutcome is the tagged result of trying one model: success with a
// summary, skip with a reason, or a fatal error ending the chain.
type attemptOutcome struct {
	status  attemptStatus
	summary model.Summary
	reason  string
	err     error
}

// Chain tries models in order against one backend.
type Chain struct {
	service     model.SummarizationService
	models      []string
	instruction string
}

// Option configures a Chain.
type Option func(*Chain)

// WithInstruction replaces the default analysis instruction.
func WithInstruction(instruction string) Option {
	return func(c *Chain) {
		if strings.TrimSpace(instruction) != "" {
			c.instruction = instruction
		}
	}
}

// NewChain builds a fallback chain over the given models, ordered by
// preference (cost/quality order is significant).
func NewChain(service model.SummarizationService, models []string, opts ...Option) (*Chain, error) {
	if service == nil {
		return nil, utils.WrapIfNotNil(errors.New("summarization service is required"))
	}
	if len(models) == 0 {
		return nil, utils.WrapIfNotNil(errors.New("at least one model is required"))
	}

	c := &Chain{
		service:     service,
		models:      append([]string(nil), models...),
		instruction: defaultInstruction,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Summarize runs the chain sequentially until one model succeeds, one
// fails fatally, or all are exhausted.
func (c *Chain) Summarize(ctx context.Context, transcript string) (model.Summary, error) {
	log := logging.NewLogger(ctx)
	schema := summarySchema()

	for _, modelID := range c.models {
		outcome := c.attempt(ctx, modelID, transcript, schema)
		switch outcome.status {
		case attemptSuccess:
			return outcome.summary, nil
		case attemptSkip:
			log.Warnf("model %q skipped: %s", modelID, outcome.reason)
		case attemptFatal:
			log.Errorf("model %q failed fatally: %v", modelID, outcome.err)
			return model.Summary{}, utils.WrapIfNotNil(outcome.err, "model "+modelID)
		}
	}

	return model.Summary{}, fmt.Errorf("%w: tried %d models", ErrAllModelsExhausted, len(c.models))
}

func (c *Chain) attempt(ctx context.Context, modelID, transcript string, schema map[string]any) attemptOutcome {
	start := time.Now()
	log := logging.NewLogger(ctx)

	raw, err := c.service.Summarize(ctx, model.SummarizeRequest{
		Instruction: c.instruction,
		Model:       modelID,
		Input:       transcript,
		Schema:      schema,
	})
	if err != nil {
		if model.IsModelUnavailable(err) || model.IsBadRequest(err) {
			return attemptOutcome{status: attemptSkip, reason: err.Error()}
		}
		// Auth, rate-limit and server errors are account or service level;
		// switching models will not fix them.
		return attemptOutcome{status: attemptFatal, err: err}
	}

	log.Infof("summarize model=%q latency_ms=%d", modelID, time.Since(start).Milliseconds())
	return attemptOutcome{status: attemptSuccess, summary: ParseSummary(ctx, raw)}
}
