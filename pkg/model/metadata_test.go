package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MetadataSuite struct {
	suite.Suite
}

func TestMetadataSuite(t *testing.T) {
	suite.Run(t, new(MetadataSuite))
}

func (s *MetadataSuite) TestNewGenerationMetadata() {
	meta := NewGenerationMetadata("openai", "whisper-1")
	s.Equal("openai", meta[MetadataKeyProvider])
	s.Equal("whisper-1", meta[MetadataKeyModel])

	meta = NewGenerationMetadata("openai", "   ")
	s.Equal("unknown", meta[MetadataKeyModel])
}

func (s *MetadataSuite) TestSetLatency() {
	meta := NewGenerationMetadata("openai", "whisper-1")
	meta.SetLatency(time.Now().Add(-50 * time.Millisecond))
	s.NotEmpty(meta[MetadataKeyLatencyMs])

	var nilMeta GenerationMetadata
	nilMeta.SetLatency(time.Now())
	s.Nil(nilMeta)
}

func (s *MetadataSuite) TestSetTokenCountsOmitsZeroes() {
	meta := NewGenerationMetadata("gemini", "gemini-2.5-flash")
	meta.SetTokenCounts(120, 0, 120)

	s.Equal("120", meta[MetadataKeyInputTokens])
	s.NotContains(meta, MetadataKeyOutputTokens)
	s.Equal("120", meta[MetadataKeyTotalTokens])
}

func (s *MetadataSuite) TestStringIsSortedPairs() {
	meta := NewGenerationMetadata("bedrock", "claude")
	meta.SetTokenCounts(10, 20, 30)
	s.Equal(
		"input_tokens=10 model=claude output_tokens=20 provider=bedrock total_tokens=30",
		meta.String(),
	)
}
