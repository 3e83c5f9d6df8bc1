package pipeline

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/prepare"
	"github.com/voicebrief-ai/audio-pipeline/pkg/summarize"
	"github.com/voicebrief-ai/audio-pipeline/pkg/transcribe"
)

type PipelineSuite struct {
	suite.Suite
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

type fakeCodec struct{}

func (fakeCodec) Decode(_ context.Context, framed []byte) ([]byte, error) {
	return append([]byte("decoded:"), framed...), nil
}

type fakeTranscriber struct {
	transcript string
	err        error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ model.PreparedAudio) (string, error) {
	return f.transcript, f.err
}

type fakeSummarizer struct {
	response string
	err      error
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ model.SummarizeRequest) (string, error) {
	return f.response, f.err
}

func (s *PipelineSuite) build(transcriber model.TranscriptionService, summarizer model.SummarizationService) *Pipeline {
	preparer := prepare.New(fakeCodec{})

	orchestrator, err := transcribe.New(transcriber)
	s.Require().NoError(err)

	chain, err := summarize.NewChain(summarizer, []string{"model-a"})
	s.Require().NoError(err)

	pipe, err := New(preparer, orchestrator, chain)
	s.Require().NoError(err)
	return pipe
}

func (s *PipelineSuite) TestRunEndToEnd() {
	pipe := s.build(
		&fakeTranscriber{transcript: "hello from the memo"},
		&fakeSummarizer{response: `{"brief_summary": "A short memo saying hello."}`},
	)

	result, err := pipe.Run(context.Background(), []byte("fake mp3 payload"), "memo.mp3")
	s.Require().NoError(err)

	s.Equal("hello from the memo", result.Transcript)
	s.Empty(result.PartialFailure)
	s.Equal("A short memo saying hello.", result.Summary.BriefSummary)
	s.False(result.Summary.Degraded)

	s.NotEmpty(result.Debug.RequestID)
	s.Equal("memo.mp3", result.Debug.Filename)
	s.Equal("audio/mpeg", result.Debug.MIMEType)
	s.Equal(len("fake mp3 payload"), result.Debug.SizeBytes)
}

func (s *PipelineSuite) TestEmptyUploadFails() {
	pipe := s.build(&fakeTranscriber{transcript: "x"}, &fakeSummarizer{response: "{}"})

	_, err := pipe.Run(context.Background(), nil, "memo.mp3")
	s.Require().Error(err)

	var pipeErr *Error
	s.Require().ErrorAs(err, &pipeErr)
	s.ErrorIs(pipeErr.Err, prepare.ErrEmptyUpload)
	s.NotEmpty(pipeErr.UserMessage)
	s.Equal("memo.mp3", pipeErr.Debug.Filename)
}

func (s *PipelineSuite) TestTranscriptionFailureCarriesUserMessage() {
	pipe := s.build(
		&fakeTranscriber{err: model.NewServiceError(http.StatusUnauthorized, "bad key")},
		&fakeSummarizer{response: "{}"},
	)

	_, err := pipe.Run(context.Background(), []byte("payload"), "memo.mp3")
	s.Require().Error(err)

	var pipeErr *Error
	s.Require().ErrorAs(err, &pipeErr)
	s.Equal(model.UserMessage(pipeErr.Err), pipeErr.UserMessage)
	s.NotEmpty(pipeErr.Debug.RequestID)
}

func (s *PipelineSuite) TestSummarizationExhaustionFails() {
	pipe := s.build(
		&fakeTranscriber{transcript: "hello"},
		&fakeSummarizer{err: model.NewServiceError(http.StatusNotFound, "no such model")},
	)

	_, err := pipe.Run(context.Background(), []byte("payload"), "memo.mp3")
	s.Require().Error(err)
	s.ErrorIs(err, summarize.ErrAllModelsExhausted)
}

func (s *PipelineSuite) TestUnparseableSummaryDegradesNotFails() {
	pipe := s.build(
		&fakeTranscriber{transcript: "hello"},
		&fakeSummarizer{response: "sorry, plain prose only"},
	)

	result, err := pipe.Run(context.Background(), []byte("payload"), "memo.mp3")
	s.Require().NoError(err)
	s.True(result.Summary.Degraded)
	s.Equal("sorry, plain prose only", result.Summary.BriefSummary)
}
