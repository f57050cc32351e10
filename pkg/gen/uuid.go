// Package gen produces the unique identifiers under which uploaded audio
// files are stored on disk.
package gen

import (
	"github.com/google/uuid"
)

// IDGenerator yields a fresh identifier per stored upload. The function form
// keeps it swappable in tests.
type IDGenerator func() uuid.UUID

// NewID returns a time-ordered generator, so upload directories list
// roughly chronologically.
func NewID() IDGenerator {
	return func() uuid.UUID {
		return uuid.Must(uuid.NewUUID())
	}
}

// Next returns the next identifier; a nil generator yields uuid.Nil.
func (g IDGenerator) Next() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}

	return g()
}
