package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clssupply/idscanpro/internal/domain/model"
)

// Backup copies the current collection wholesale into the secondary
// store, replacing any prior backup.
func (s *ScanService) Backup(ctx context.Context) (err error) {
	defer s.observe("backup", time.Now(), &err)

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return err
	}
	if scans == nil {
		scans = []model.Scan{} // keep "[]" rather than "null" in the backup
	}

	data, err := json.Marshal(scans)
	if err != nil {
		return fmt.Errorf("serialize backup: %w", err)
	}

	if err := s.backup.SaveBackup(ctx, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Restore replaces the primary collection with the most recent backup.
// Returns ErrNoBackup when none exists; the primary store is untouched
// in that case.
func (s *ScanService) Restore(ctx context.Context) (err error) {
	defer s.observe("restore", time.Now(), &err)

	data, ok, err := s.backup.LoadBackup(ctx)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if !ok {
		return ErrNoBackup
	}

	if err := s.kv.Set(ctx, scanHistoryKey, string(data)); err != nil {
		return fmt.Errorf("restore scan collection: %w", err)
	}
	s.updateSettings(ctx)
	return nil
}
