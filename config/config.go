package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TranscriberWhisper = "whisper"
	TranscriberCloud   = "cloud"
)

type Config struct {
	Port        int            `env:"PORT" env-default:"8000"`
	Database    DatabaseConfig `env-prefix:"DATABASE_"`
	Storage     StorageConfig
	Transcriber string        `env:"TRANSCRIBER" env-default:"whisper"`
	Whisper     WhisperConfig `env-prefix:"WHISPER_"`
	CloudASR    CloudASRConfig
	Gemini      GeminiConfig   `env-prefix:"GEMINI_"`
	Pipeline    PipelineConfig `env-prefix:"PIPELINE_"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" env-default:"localhost"`
	Port     int    `env:"PORT" env-default:"5432"`
	User     string `env:"USER" env-default:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" env-default:"meetings"`
	SSLMode  string `env:"SSLMODE" env-default:"disable"`
}

type StorageConfig struct {
	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`
	ReportDir string `env:"REPORT_DIR" env-default:"reports"`
}

type WhisperConfig struct {
	ModelSize  string `env:"MODEL_SIZE" env-default:"tiny"`
	ModelDir   string `env:"MODEL_DIR" env-default:"models"`
	BinaryPath string `env:"BINARY_PATH" env-default:"whisper-cli"`
}

type CloudASRConfig struct {
	APIKey             string `env:"ASR_API_KEY"`
	URL                string `env:"ASR_URL"`
	StreamURL          string `env:"ASR_STREAM_URL"`
	StreamingThreshold int64  `env:"STREAMING_THRESHOLD_BYTES" env-default:"10485760"`
}

type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" env-default:"gemini-2.5-flash"`
}

type PipelineConfig struct {
	MaxConcurrent int `env:"MAX_CONCURRENT" env-default:"4"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("invalid configuration: " + err.Error())
	}

	return &cfg
}

// Validate rejects configurations that would otherwise surface as cryptic
// provider failures deep inside a pipeline run.
func (c *Config) Validate() error {
	switch c.Transcriber {
	case TranscriberWhisper:
		if c.Whisper.ModelSize == "" {
			return fmt.Errorf("WHISPER_MODEL_SIZE is required when TRANSCRIBER=%s", TranscriberWhisper)
		}
		if !validModelSize(c.Whisper.ModelSize) {
			return fmt.Errorf("unknown WHISPER_MODEL_SIZE %q: expected one of tiny, base, small, medium, large", c.Whisper.ModelSize)
		}
	case TranscriberCloud:
		if c.CloudASR.APIKey == "" {
			return fmt.Errorf("ASR_API_KEY is required when TRANSCRIBER=%s", TranscriberCloud)
		}
		if c.CloudASR.URL == "" {
			return fmt.Errorf("ASR_URL is required when TRANSCRIBER=%s", TranscriberCloud)
		}
	default:
		return fmt.Errorf("unknown TRANSCRIBER %q: expected %q or %q", c.Transcriber, TranscriberWhisper, TranscriberCloud)
	}

	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if c.Pipeline.MaxConcurrent <= 0 {
		c.Pipeline.MaxConcurrent = 4
	}

	return nil
}

func validModelSize(size string) bool {
	switch size {
	case "tiny", "base", "small", "medium", "large":
		return true
	}
	return false
}
