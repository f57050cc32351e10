package executor

import "context"

// Executor runs external commands. The local transcription client depends on
// this interface so tests can substitute a fake.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
