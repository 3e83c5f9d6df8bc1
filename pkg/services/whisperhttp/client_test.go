package whisperhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
)

type ClientSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) sampleAudio() model.PreparedAudio {
	return model.PreparedAudio{
		Buffer:   []byte("fake wav bytes"),
		Name:     "memo.wav",
		MIMEType: "audio/wav",
	}
}

func (s *ClientSuite) TestNewClientRequiresBaseURL() {
	s.T().Setenv(envBaseURL, "")
	_, err := NewClient(Config{})
	s.Error(err)
}

func (s *ClientSuite) TestTranscribeJSONResponse() {
	var gotPath, gotAuth string
	var gotForm struct {
		filename string
		partType string
		model    string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		s.Require().NoError(r.ParseMultipartForm(1 << 20))
		file, header, err := r.FormFile("file")
		s.Require().NoError(err)
		defer file.Close()

		gotForm.filename = header.Filename
		gotForm.partType = header.Header.Get("Content-Type")
		gotForm.model = r.FormValue("model")

		s.NoError(json.NewEncoder(w).Encode(transcriptionResponse{Text: "  hello world \n"}))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "secret", Model: "whisper-large-v3"})
	s.Require().NoError(err)

	transcript, err := client.Transcribe(context.Background(), s.sampleAudio())
	s.Require().NoError(err)

	s.Equal("hello world", transcript)
	s.Equal(transcriptionsPath, gotPath)
	s.Equal("Bearer secret", gotAuth)
	s.Equal("memo.wav", gotForm.filename)
	s.Equal("audio/wav", gotForm.partType)
	s.Equal("whisper-large-v3", gotForm.model)
}

func (s *ClientSuite) TestTranscribePlainTextResponse() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("plain transcript\n"))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	s.Require().NoError(err)

	transcript, err := client.Transcribe(context.Background(), s.sampleAudio())
	s.Require().NoError(err)
	s.Equal("plain transcript", transcript)
}

func (s *ClientSuite) TestTranscribeErrorResponse() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"message": "model not loaded"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	s.Require().NoError(err)

	_, err = client.Transcribe(context.Background(), s.sampleAudio())
	s.Require().Error(err)

	serviceErr, ok := model.AsServiceError(err)
	s.Require().True(ok)
	s.Equal(http.StatusNotFound, serviceErr.StatusCode)
	s.Equal("model not loaded", serviceErr.Message)
}

func (s *ClientSuite) TestTranscribeNonJSONErrorBody() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream worker crashed"))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	s.Require().NoError(err)

	_, err = client.Transcribe(context.Background(), s.sampleAudio())
	serviceErr, ok := model.AsServiceError(err)
	s.Require().True(ok)
	s.Equal(http.StatusServiceUnavailable, serviceErr.StatusCode)
	s.Equal("upstream worker crashed", serviceErr.Message)
}
