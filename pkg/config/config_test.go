package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) writeConfig(content string) string {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaultIsValid() {
	s.NoError(Default().Validate())
}

func (s *ConfigSuite) TestLoadOverlaysDefaults() {
	path := s.writeConfig(`
transcription:
  provider: gemini
  model: gemini-2.0-flash
summarization:
  provider: ollama
  endpoint: http://localhost:11434
  models:
    - llama3
codec:
  binary_path: /usr/local/bin/ffmpeg
  allow_loose_scan: true
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("gemini", cfg.Transcription.Provider)
	s.Equal("gemini-2.0-flash", cfg.Transcription.Model)
	s.Equal("ollama", cfg.Summarization.Provider)
	s.Equal([]string{"llama3"}, cfg.Summarization.Models)
	s.Equal("/usr/local/bin/ffmpeg", cfg.Codec.BinaryPath)
	s.True(cfg.Codec.AllowLooseScan)

	// Unset fields fall back to defaults.
	s.Equal(20*1024*1024, cfg.Transcription.MaxRequestBytes)
	s.Equal(4, cfg.Transcription.MaxConcurrent)
	s.Equal("info", cfg.Logging.Level)
}

func (s *ConfigSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(s.T().TempDir(), "absent.yaml"))
	s.Error(err)
}

func (s *ConfigSuite) TestLoadMalformedYAML() {
	path := s.writeConfig("transcription: [not: a: mapping")
	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigSuite) TestEnvOverridesSecrets() {
	s.T().Setenv("TRANSCRIPTION_API_KEY", "env-transcribe-key")
	s.T().Setenv("SUMMARIZATION_API_KEY", "env-summarize-key")
	s.T().Setenv("CODEC_BINARY", "/opt/ffmpeg/bin/ffmpeg")

	path := s.writeConfig(`
transcription:
  provider: openai
  api_key: file-key
summarization:
  provider: openai
  models:
    - gpt-4o-mini
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("env-transcribe-key", cfg.Transcription.APIKey)
	s.Equal("env-summarize-key", cfg.Summarization.APIKey)
	s.Equal("/opt/ffmpeg/bin/ffmpeg", cfg.Codec.BinaryPath)
}

func (s *ConfigSuite) TestValidateRejections() {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing transcription provider", func(c *Config) { c.Transcription.Provider = "" }},
		{"non-positive request bytes", func(c *Config) { c.Transcription.MaxRequestBytes = 0 }},
		{"non-positive concurrency", func(c *Config) { c.Transcription.MaxConcurrent = -1 }},
		{"missing summarization provider", func(c *Config) { c.Summarization.Provider = "" }},
		{"empty model chain", func(c *Config) { c.Summarization.Models = nil }},
		{"blank model name", func(c *Config) { c.Summarization.Models = []string{"gpt-4o-mini", "  "} }},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			cfg := Default()
			tc.mutate(&cfg)
			s.Error(cfg.Validate())
		})
	}
}
