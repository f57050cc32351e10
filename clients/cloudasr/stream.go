package cloudasr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/meetscribe/backend/services/meeting/entity"
)

const (
	streamChunkSize = 32 * 1024

	// How long to wait for a partial result between chunk sends. No result
	// within the wait means "not done yet", not a failure.
	streamReadWait = 500 * time.Millisecond

	// How long to wait for remaining results after all audio was sent.
	streamDrainWait = 30 * time.Second
)

// transcribeStream sends the audio in chunks over a persistent websocket
// connection and accumulates partial transcripts opportunistically. Chunk
// boundaries are not word-aligned, so the joined text is best-effort.
func (c *Client) transcribeStream(ctx context.Context, audioPath, language string) (string, error) {
	c.log.Info("streaming audio for transcription",
		slog.String("audio_path", audioPath),
		slog.String("language", language))

	file, err := os.Open(audioPath)
	if err != nil {
		return "", entity.NewProviderError("cloud-asr", fmt.Errorf("open audio file: %w", err))
	}
	defer file.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	url := c.streamURL
	if code := languageCode(language); code != "" {
		url += "?language=" + code
	}

	conn, resp, err := c.dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return "", entity.NewProviderError("cloud-asr",
				fmt.Errorf("websocket dial failed (HTTP %d): %w", resp.StatusCode, err))
		}
		return "", entity.NewProviderError("cloud-asr", fmt.Errorf("websocket dial failed: %w", err))
	}
	defer conn.Close()

	// A single goroutine owns every read on the connection. The gorilla conn
	// does not support concurrent reads, and a read error (including a
	// deadline timeout) is sticky, so reads must never race a deadline.
	// Partials arrive on partialCh; readErr holds the error that ended the
	// reader and partialCh is closed after it is set.
	partialCh := make(chan string)
	readErr := make(chan error, 1)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		defer close(partialCh)
		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			text := strings.TrimSpace(string(data))
			if text == "" {
				continue
			}
			select {
			case partialCh <- text:
			case <-quit:
				return
			}
		}
	}()

	var partials []string
	buf := make([]byte, streamChunkSize)
	closed := false

	for !closed {
		n, fileErr := file.Read(buf)
		if n > 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
				return "", entity.NewProviderError("cloud-asr", fmt.Errorf("send audio chunk: %w", err))
			}

			// Opportunistic pick-up between chunk sends.
			select {
			case partial, ok := <-partialCh:
				if !ok {
					if err := <-readErr; !isTerminalClose(err) {
						return "", entity.NewProviderError("cloud-asr", fmt.Errorf("receive partial result: %w", err))
					}
					closed = true
				} else {
					partials = append(partials, partial)
				}
			case <-time.After(streamReadWait):
			}
		}
		if fileErr != nil {
			break
		}
	}

	if !closed {
		// Input exhausted: tell the service we are done and drain what is
		// left. If the close frame cannot be sent the connection is already
		// dead and there is nothing left to drain.
		deadline := time.Now().Add(streamDrainWait)
		err := conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		if err != nil {
			c.log.Warn("failed to send close frame, skipping drain", slog.String("error", err.Error()))
		} else {
			drain := time.NewTimer(streamDrainWait)
			defer drain.Stop()

		drainLoop:
			for {
				select {
				case partial, ok := <-partialCh:
					if !ok {
						if err := <-readErr; !isTerminalClose(err) {
							return "", entity.NewProviderError("cloud-asr", fmt.Errorf("drain results: %w", err))
						}
						break drainLoop
					}
					partials = append(partials, partial)
				case <-drain.C:
					break drainLoop
				}
			}
		}
	}

	text := strings.Join(partials, " ")
	c.log.Info("streaming transcription completed",
		slog.Int("partials", len(partials)),
		slog.Int("length", len(text)))

	return text, nil
}

func isTerminalClose(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived) {
		return true
	}
	return errors.Is(err, websocket.ErrCloseSent)
}
