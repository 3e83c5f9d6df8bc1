// Package whisperhttp binds the transcription service boundary to any
// self-hosted endpoint speaking the OpenAI-compatible multipart
// transcription protocol (whisper.cpp server, faster-whisper, vLLM).
package whisperhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/voicebrief-ai/audio-pipeline/pkg/logging"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

const (
	providerName       = "whisper-http"
	transcriptionsPath = "/v1/audio/transcriptions"
	defaultHTTPTimeout = 300 * time.Second
	envBaseURL         = "WHISPER_BASE_URL"
	envAPIKey          = "WHISPER_API_KEY"
)

// Config carries the endpoint settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client implements model.TranscriptionService over multipart HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	modelName  string
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv(envBaseURL))
	}
	if baseURL == "" {
		return nil, utils.WrapIfNotNil(errors.New("base URL is required (set Config.BaseURL or WHISPER_BASE_URL)"))
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(envAPIKey))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		modelName:  strings.TrimSpace(cfg.Model),
	}, nil
}

func (c *Client) Transcribe(ctx context.Context, audio model.PreparedAudio) (string, error) {
	start := time.Now()
	meta := model.NewGenerationMetadata(providerName, c.modelName)

	log := logging.NewLogger(ctx)
	log.Infof("transcription_request provider=%s name=%q mime=%q size=%d", providerName, audio.Name, audio.MIMEType, audio.SizeBytes())

	body, contentType, err := buildMultipartBody(audio, c.modelName)
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcriptionsPath, body)
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}
	httpRequest.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", utils.WrapIfNotNil(err)
	}
	defer httpResponse.Body.Close()

	responseBits, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return "", utils.WrapIfNotNil(model.NewServiceError(httpResponse.StatusCode, extractErrorMessage(responseBits)))
	}

	meta.SetLatency(start)
	log.Infof("transcription_complete %s", meta)

	response := transcriptionResponse{}
	if err := json.Unmarshal(responseBits, &response); err != nil {
		// Some servers answer text/plain regardless of the requested format.
		return strings.TrimSpace(string(responseBits)), nil
	}
	return strings.TrimSpace(response.Text), nil
}

func buildMultipartBody(audio model.PreparedAudio, modelName string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, audio.Name))
	partHeader.Set("Content-Type", audio.MIMEType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio.Buffer); err != nil {
		return nil, "", err
	}

	if modelName != "" {
		if err := writer.WriteField("model", modelName); err != nil {
			return nil, "", err
		}
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func extractErrorMessage(responseBits []byte) string {
	apiErr := errorResponse{}
	if err := json.Unmarshal(responseBits, &apiErr); err == nil {
		if message := strings.TrimSpace(apiErr.Error.Message); message != "" {
			return message
		}
	}
	message := strings.TrimSpace(string(responseBits))
	if message == "" {
		message = "unknown transcription error"
	}
	return message
}
