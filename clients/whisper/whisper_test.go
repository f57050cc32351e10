package whisper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meetscribe/backend/services/meeting/entity"
)

type fakeExecutor struct {
	name string
	args []string
	err  error

	// onExecute runs in place of the real binary, typically to drop the
	// transcript file the client expects to find afterwards.
	onExecute func()
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	if f.onExecute != nil {
		f.onExecute()
	}
	return "", f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeAudio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "meeting.wav")
	if err := os.WriteFile(path, []byte("fake audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	dir := t.TempDir()
	audioPath := writeAudio(t, dir)
	textPath := filepath.Join(dir, "meeting.txt")

	exec := &fakeExecutor{onExecute: func() {
		os.WriteFile(textPath, []byte("  Alice: hello everyone\n"), 0644)
	}}
	c := New("whisper-cli", "models", "tiny", exec, testLogger())

	text, err := c.Transcribe(context.Background(), audioPath, "english")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "Alice: hello everyone" {
		t.Errorf("transcript = %q", text)
	}

	if exec.name != "whisper-cli" {
		t.Errorf("binary = %q", exec.name)
	}
	want := []string{
		"-m", filepath.Join("models", "ggml-tiny.bin"),
		"-f", audioPath,
		"-otxt",
		"--output-file", strings.TrimSuffix(audioPath, ".wav"),
		"-l", "en",
	}
	if len(exec.args) != len(want) {
		t.Fatalf("args = %v, want %v", exec.args, want)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, exec.args[i], want[i])
		}
	}

	if _, err := os.Stat(textPath); !os.IsNotExist(err) {
		t.Error("intermediate transcript file was not cleaned up")
	}
}

func TestTranscribeMixedLanguageOmitsFlag(t *testing.T) {
	dir := t.TempDir()
	audioPath := writeAudio(t, dir)

	exec := &fakeExecutor{onExecute: func() {
		os.WriteFile(filepath.Join(dir, "meeting.txt"), []byte("text"), 0644)
	}}
	c := New("whisper-cli", "models", "tiny", exec, testLogger())

	if _, err := c.Transcribe(context.Background(), audioPath, "mixed"); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	for _, arg := range exec.args {
		if arg == "-l" {
			t.Errorf("mixed language should auto-detect, got args %v", exec.args)
		}
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	c := New("whisper-cli", "models", "tiny", &fakeExecutor{}, testLogger())

	_, err := c.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"), "english")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Transcribe() error = %v, want ErrNotFound", err)
	}
}

func TestTranscribeEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.wav")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	c := New("whisper-cli", "models", "tiny", &fakeExecutor{}, testLogger())

	_, err := c.Transcribe(context.Background(), path, "english")
	if !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("Transcribe() error = %v, want ErrInvalidInput", err)
	}
}

func TestTranscribeExecutorFailure(t *testing.T) {
	dir := t.TempDir()
	audioPath := writeAudio(t, dir)
	exec := &fakeExecutor{err: errors.New("exit status 1: model not found")}
	c := New("whisper-cli", "models", "tiny", exec, testLogger())

	_, err := c.Transcribe(context.Background(), audioPath, "english")
	var provErr *entity.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Transcribe() error = %v, want ProviderError", err)
	}
	if provErr.Provider != "whisper" {
		t.Errorf("provider = %q, want whisper", provErr.Provider)
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"english", "en"},
		{"English", "en"},
		{"mandarin", "zh"},
		{"cantonese", "zh"},
		{"mixed", ""},
		{"klingon", ""},
	}

	for _, tt := range tests {
		if got := languageCode(tt.language); got != tt.want {
			t.Errorf("languageCode(%q) = %q, want %q", tt.language, got, tt.want)
		}
	}
}
