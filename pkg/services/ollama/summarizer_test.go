package ollama

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
)

type SummarizerSuite struct {
	suite.Suite
}

func TestSummarizerSuite(t *testing.T) {
	suite.Run(t, new(SummarizerSuite))
}

func (s *SummarizerSuite) TestMapAPIErrorClassification() {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown model", errors.New(`model "llama9" not found, try pulling it first`), http.StatusNotFound},
		{"no such model", errors.New("no such model loaded"), http.StatusNotFound},
		{"daemon down", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused"), http.StatusServiceUnavailable},
		{"anything else", errors.New("unexpected EOF"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			mapped := mapAPIError(tc.err)
			serviceErr, ok := model.AsServiceError(mapped)
			s.Require().True(ok)
			s.Equal(tc.status, serviceErr.StatusCode)
		})
	}
}

func (s *SummarizerSuite) TestBuildInstructionInlinesSchema() {
	req := model.SummarizeRequest{
		Instruction: "Summarize the transcript.",
		Schema:      map[string]any{"type": "object"},
	}

	instruction := buildInstruction(req)
	s.Contains(instruction, "Summarize the transcript.")
	s.Contains(instruction, `"type":"object"`)
}

func (s *SummarizerSuite) TestBuildInstructionWithoutSchema() {
	req := model.SummarizeRequest{Instruction: "Summarize the transcript."}
	s.Equal("Summarize the transcript.", buildInstruction(req))
}

func (s *SummarizerSuite) TestNewSummarizerDefaultsBaseURL() {
	s.T().Setenv(envBaseURL, "")

	summarizer, err := NewSummarizer(Config{})
	s.NoError(err)
	s.NotNil(summarizer)
}
