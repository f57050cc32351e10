// Package cloudasr transcribes audio through a hosted speech-recognition
// API. Short recordings go through a single multipart upload; long-form
// audio is streamed over a persistent websocket connection.
package cloudasr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/meetscribe/backend/services/meeting/entity"
)

type Client struct {
	apiKey             string
	baseURL            string
	streamURL          string
	streamingThreshold int64
	httpClient         *http.Client
	dialer             *websocket.Dialer
	log                *slog.Logger
}

func New(apiKey, baseURL, streamURL string, streamingThreshold int64, log *slog.Logger) *Client {
	log.Debug("creating cloud asr client",
		slog.String("base_url", baseURL),
		slog.Bool("api_key_set", apiKey != ""),
		slog.Bool("streaming_enabled", streamURL != ""))
	return &Client{
		apiKey:             apiKey,
		baseURL:            baseURL,
		streamURL:          streamURL,
		streamingThreshold: streamingThreshold,
		httpClient:         &http.Client{},
		dialer:             websocket.DefaultDialer,
		log:                log,
	}
}

// Transcribe sends the audio to the hosted ASR service. Files at or above
// the streaming threshold go over the websocket variant when one is
// configured.
func (c *Client) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("audio file not found: %s: %w", audioPath, entity.ErrNotFound)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("audio file is empty: %w", entity.ErrInvalidInput)
	}

	if c.streamURL != "" && info.Size() >= c.streamingThreshold {
		return c.transcribeStream(ctx, audioPath, language)
	}

	return c.transcribeUpload(ctx, audioPath, language)
}

func (c *Client) transcribeUpload(ctx context.Context, audioPath, language string) (string, error) {
	c.log.Info("uploading audio for transcription",
		slog.String("audio_path", audioPath),
		slog.String("language", language))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if code := languageCode(language); code != "" {
		if err := writer.WriteField("language", code); err != nil {
			return "", entity.NewProviderError("cloud-asr", err)
		}
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", entity.NewProviderError("cloud-asr", fmt.Errorf("open audio file: %w", err))
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", entity.NewProviderError("cloud-asr", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", entity.NewProviderError("cloud-asr", err)
	}
	if err := writer.Close(); err != nil {
		return "", entity.NewProviderError("cloud-asr", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		return "", entity.NewProviderError("cloud-asr", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", entity.NewProviderError("cloud-asr", fmt.Errorf("calling ASR API: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", entity.NewProviderError("cloud-asr", fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", entity.NewProviderError("cloud-asr",
			fmt.Errorf("ASR API error (HTTP %d): %s", resp.StatusCode, string(respBody)))
	}

	var apiResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", entity.NewProviderError("cloud-asr", fmt.Errorf("parsing ASR response: %w", err))
	}

	c.log.Info("transcription completed", slog.Int("length", len(apiResp.Text)))
	return apiResp.Text, nil
}

// languageCode maps the upload language hint to the ASR language parameter;
// empty means let the service auto-detect (the "mixed" hint).
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
