package model

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// GenerationMetadata carries provider-reported facts about one backend
// call (provider, model, latency, token usage) for logging.
type GenerationMetadata map[string]string

const (
	MetadataKeyProvider     = "provider"
	MetadataKeyModel        = "model"
	MetadataKeyLatencyMs    = "latency_ms"
	MetadataKeyInputTokens  = "input_tokens"
	MetadataKeyOutputTokens = "output_tokens"
	MetadataKeyTotalTokens  = "total_tokens"
)

// NewGenerationMetadata seeds metadata with the provider and model names.
func NewGenerationMetadata(provider, modelName string) GenerationMetadata {
	if strings.TrimSpace(modelName) == "" {
		modelName = "unknown"
	}

	return GenerationMetadata{
		MetadataKeyProvider: provider,
		MetadataKeyModel:    modelName,
	}
}

// SetLatency records the elapsed time since start in milliseconds.
func (m GenerationMetadata) SetLatency(start time.Time) {
	if m == nil {
		return
	}
	m[MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

// SetTokenCounts records token usage. Zero counts are omitted, since most
// backends report zero for counters they do not track.
func (m GenerationMetadata) SetTokenCounts(input, output, total int64) {
	if m == nil {
		return
	}
	if input > 0 {
		m[MetadataKeyInputTokens] = strconv.FormatInt(input, 10)
	}
	if output > 0 {
		m[MetadataKeyOutputTokens] = strconv.FormatInt(output, 10)
	}
	if total > 0 {
		m[MetadataKeyTotalTokens] = strconv.FormatInt(total, 10)
	}
}

// String renders the metadata as sorted key=value pairs for log lines.
func (m GenerationMetadata) String() string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+m[key])
	}
	return strings.Join(parts, " ")
}
