// Package config loads pipeline configuration from YAML with environment
// overrides for the secrets.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete pipeline configuration.
type Config struct {
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Codec         CodecConfig         `yaml:"codec"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// TranscriptionConfig selects and tunes the transcription backend.
type TranscriptionConfig struct {
	Provider        string `yaml:"provider"` // "openai", "gemini" or "whisper-http"
	Endpoint        string `yaml:"endpoint"`
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	MaxRequestBytes int    `yaml:"max_request_bytes"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
	TimeoutSeconds  int    `yaml:"timeout"`
}

// SummarizationConfig selects the summarization backend and the ordered
// model fallback chain.
type SummarizationConfig struct {
	Provider string   `yaml:"provider"` // "openai", "gemini", "bedrock" or "ollama"
	Endpoint string   `yaml:"endpoint"`
	APIKey   string   `yaml:"api_key"`
	Models   []string `yaml:"models"`
}

// CodecConfig locates the external AMR decoder.
type CodecConfig struct {
	BinaryPath string `yaml:"binary_path"`
	// AllowLooseScan enables the permissive payload-box scan fallback.
	AllowLooseScan bool `yaml:"allow_loose_scan"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Transcription: TranscriptionConfig{
			Provider:        "openai",
			MaxRequestBytes: 20 * 1024 * 1024,
			MaxConcurrent:   4,
			TimeoutSeconds:  300,
		},
		Summarization: SummarizationConfig{
			Provider: "openai",
			Models:   []string{"gpt-5-mini", "gpt-4o-mini"},
		},
		Codec: CodecConfig{
			BinaryPath: "ffmpeg",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path, overlays a .env file when one exists next to the
// process, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TRANSCRIPTION_API_KEY")); v != "" {
		cfg.Transcription.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SUMMARIZATION_API_KEY")); v != "" {
		cfg.Summarization.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("CODEC_BINARY")); v != "" {
		cfg.Codec.BinaryPath = v
	}
}

// Validate checks the fields that would otherwise fail deep inside the
// pipeline.
func (c Config) Validate() error {
	if c.Transcription.Provider == "" {
		return fmt.Errorf("config: transcription provider is required")
	}
	if c.Transcription.MaxRequestBytes <= 0 {
		return fmt.Errorf("config: transcription max_request_bytes must be positive, got %d", c.Transcription.MaxRequestBytes)
	}
	if c.Transcription.MaxConcurrent <= 0 {
		return fmt.Errorf("config: transcription max_concurrent must be positive, got %d", c.Transcription.MaxConcurrent)
	}
	if c.Summarization.Provider == "" {
		return fmt.Errorf("config: summarization provider is required")
	}
	if len(c.Summarization.Models) == 0 {
		return fmt.Errorf("config: at least one summarization model is required")
	}
	for _, modelID := range c.Summarization.Models {
		if strings.TrimSpace(modelID) == "" {
			return fmt.Errorf("config: summarization model names must not be blank")
		}
	}
	return nil
}
