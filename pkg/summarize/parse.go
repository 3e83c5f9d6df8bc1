package summarize

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
)

const (
	fieldUnavailable   = "(not available)"
	degradedCaution    = "The summary could not be produced in structured form. Please review the full transcript manually."
	emptyResponseNote  = "The summarization model returned no usable content."
	minStructuredBytes = 2 // "{}"
)

// ParseSummary turns a backend response into a Summary. Structured JSON is
// preferred and accepted when any field carries text; malformed JSON is
// repaired and retried; anything still unparseable becomes a degraded
// Summary carrying the raw text, never an error.
func ParseSummary(ctx context.Context, raw string) model.Summary {
	payload := extractJSONPayload(raw)
	log := logging.NewLogger(ctx)

	summary := model.Summary{}
	if len(payload) >= minStructuredBytes {
		if err := unmarshalRepaired([]byte(payload), &summary); err == nil {
			if summary.HasContent() {
				return summary
			}
			// Valid JSON with nothing in it. Showing its source to the
			// user would read as gibberish.
			log.Warnf("summary response parsed but carries no content, degrading")
			return degradedSummary(emptyResponseNote)
		}
	}

	log.Warnf("summary response not parseable as structured output (%d bytes), degrading", len(raw))
	return degradedSummary(raw)
}

// unmarshalRepaired unmarshals data, repairing it first when the initial
// attempt fails with a syntax error.
func unmarshalRepaired(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

// extractJSONPayload strips code fences and surrounding prose around the
// outermost JSON object.
func extractJSONPayload(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

func degradedSummary(raw string) model.Summary {
	return model.Summary{
		BriefSummary:       strings.TrimSpace(raw),
		Participants:       fieldUnavailable,
		KeyPoints:          fieldUnavailable,
		Agreements:         fieldUnavailable,
		LegallySignificant: fieldUnavailable,
		Cautions:           degradedCaution,
		Degraded:           true,
	}
}
