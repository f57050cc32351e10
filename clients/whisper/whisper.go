// Package whisper transcribes audio with a locally installed whisper.cpp
// binary. The model file is selected by a configured size (tiny, base,
// small, medium, large).
package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meetscribe/backend/pkg/executor"
	"github.com/meetscribe/backend/services/meeting/entity"
)

type Client struct {
	binaryPath string
	modelDir   string
	modelSize  string
	executor   executor.Executor
	log        *slog.Logger
}

func New(binaryPath, modelDir, modelSize string, exec executor.Executor, log *slog.Logger) *Client {
	log.Debug("creating whisper client",
		slog.String("binary", binaryPath),
		slog.String("model_size", modelSize))
	return &Client{
		binaryPath: binaryPath,
		modelDir:   modelDir,
		modelSize:  modelSize,
		executor:   exec,
		log:        log,
	}
}

// Transcribe runs whisper.cpp over the audio file and returns the plain-text
// transcript. For the "mixed" language hint the model auto-detects instead
// of being forced to one language.
func (c *Client) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("audio file not found: %s: %w", audioPath, entity.ErrNotFound)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("audio file is empty: %w", entity.ErrInvalidInput)
	}

	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	args := []string{
		"-m", filepath.Join(c.modelDir, "ggml-"+c.modelSize+".bin"),
		"-f", audioPath,
		"-otxt",
		"--output-file", outputPrefix,
	}
	if code := languageCode(language); code != "" {
		args = append(args, "-l", code)
	}

	c.log.Info("starting transcription",
		slog.String("audio_path", audioPath),
		slog.String("language", language))

	if _, err := c.executor.Execute(ctx, c.binaryPath, args...); err != nil {
		return "", entity.NewProviderError("whisper", err)
	}

	textPath := outputPrefix + ".txt"
	text, err := os.ReadFile(textPath)
	if err != nil {
		return "", entity.NewProviderError("whisper", fmt.Errorf("read transcript output: %w", err))
	}
	os.Remove(textPath)

	c.log.Info("transcription completed", slog.Int("length", len(text)))
	return strings.TrimSpace(string(text)), nil
}

// languageCode maps the upload language hint to a whisper language code.
// Whisper has no dedicated Cantonese model, so cantonese maps to zh; an
// empty return means auto-detect.
func languageCode(language string) string {
	switch strings.ToLower(language) {
	case entity.LanguageEnglish:
		return "en"
	case entity.LanguageMandarin, entity.LanguageCantonese:
		return "zh"
	default:
		return ""
	}
}
