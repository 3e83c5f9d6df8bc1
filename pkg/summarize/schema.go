package summarize

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
)

var (
	schemaOnce   sync.Once
	cachedSchema map[string]any
)

// summarySchema reflects the Summary struct into the JSON schema sent
// with every summarization request. Reflection cannot fail for a fixed
// struct of strings, so the result is computed once and cached.
func summarySchema() map[string]any {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}

		schema := reflector.Reflect(model.Summary{})
		schemaJSON, err := json.Marshal(schema)
		if err != nil {
			cachedSchema = map[string]any{"type": "object"}
			return
		}

		schemaMap := map[string]any{}
		if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
			cachedSchema = map[string]any{"type": "object"}
			return
		}
		cachedSchema = schemaMap
	})
	return cachedSchema
}
