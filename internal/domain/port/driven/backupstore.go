package driven

import (
	"context"
	"time"
)

// BackupStore is the secondary durable store holding at most one
// whole-collection backup under a fixed record key.
type BackupStore interface {
	// SaveBackup replaces any prior backup with the serialized
	// collection and the time it was taken.
	SaveBackup(ctx context.Context, collection []byte, takenAt time.Time) error

	// LoadBackup returns the most recent backup. The second return is
	// false when no backup exists; absence is not an error.
	LoadBackup(ctx context.Context) ([]byte, bool, error)
}
