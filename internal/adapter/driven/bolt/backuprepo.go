// Package bolt is the driven adapter backing the secondary backup store
// with a bbolt database: one bucket, one fixed record key holding the
// serialized scan collection and the time it was taken.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/clssupply/idscanpro/internal/domain/port/driven"
)

const (
	backupBucket = "backups"
	backupKey    = "scans"
)

// Compile-time interface satisfaction check.
var _ driven.BackupStore = (*BackupRepo)(nil)

// backupRecord is the stored shape: the whole serialized collection
// plus the backup timestamp.
type backupRecord struct {
	Collection json.RawMessage `json:"collection"`
	TakenAt    string          `json:"taken_at"`
}

// BackupRepo is the bbolt implementation of the BackupStore port.
type BackupRepo struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the backup database at path and
// ensures the backup bucket exists.
func Open(path string) (*BackupRepo, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open backup db: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(backupBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create backup bucket: %w", err)
	}

	return &BackupRepo{db: db}, nil
}

// Close closes the backup database.
func (r *BackupRepo) Close() error {
	return r.db.Close()
}

// SaveBackup replaces any prior backup under the fixed record key.
func (r *BackupRepo) SaveBackup(_ context.Context, collection []byte, takenAt time.Time) error {
	data, err := json.Marshal(backupRecord{
		Collection: collection,
		TakenAt:    takenAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("serialize backup record: %w", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(backupBucket)).Put([]byte(backupKey), data)
	})
	if err != nil {
		return fmt.Errorf("write backup record: %w", err)
	}
	return nil
}

// LoadBackup returns the stored collection, or ok=false when no backup
// has ever been taken.
func (r *BackupRepo) LoadBackup(_ context.Context) ([]byte, bool, error) {
	var collection []byte
	found := false

	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(backupBucket)).Get([]byte(backupKey))
		if data == nil {
			return nil
		}

		var record backupRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("decode backup record: %w", err)
		}
		collection = append([]byte(nil), record.Collection...)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read backup record: %w", err)
	}

	return collection, found, nil
}
