// Package application implements the scan record store on top of the
// driven ports: save, search, import/export, backup/restore and the
// size-bounded retention policy.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clssupply/idscanpro/internal/domain/model"
	"github.com/clssupply/idscanpro/internal/domain/port/driven"
	"github.com/clssupply/idscanpro/internal/metrics"
)

// Fixed keys in the primary key-value store.
const (
	scanHistoryKey = "idscanpro_scan_history"
	settingsKey    = "idscanpro_settings"
)

// Defaults for the retention policy. Both are configurable; see Options.
const (
	DefaultMaxStorageBytes int64 = 50 * 1024 * 1024
	DefaultMaxScans              = 1000
)

// ErrScanNotFound is returned by Update for an unknown scan id.
var ErrScanNotFound = errors.New("scan not found")

// ErrNoBackup is returned by Restore when no backup exists.
var ErrNoBackup = errors.New("no backup available")

// ErrInvalidImport is returned by Import when the payload is not a
// JSON array of scan records.
var ErrInvalidImport = errors.New("import payload is not a JSON array")

// Options configures a ScanService. Zero values fall back to defaults.
type Options struct {
	// MaxStorageBytes is the serialized-collection size ceiling that
	// triggers retention truncation on save.
	MaxStorageBytes int64

	// MaxScans is the number of most-recent scans kept when the
	// ceiling is exceeded, and the hard cap on collection length.
	MaxScans int

	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
}

// ScanService is the record store. It owns the durable scan collection
// through the KVStore port and whole-collection backups through the
// BackupStore port. It assumes a single logical writer; write ordering
// is serialized at the persistence boundary, not here.
type ScanService struct {
	kv       driven.KVStore
	backup   driven.BackupStore
	maxBytes int64
	maxScans int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewScanService creates a ScanService over the given stores.
func NewScanService(kv driven.KVStore, backup driven.BackupStore, opts Options) *ScanService {
	if opts.MaxStorageBytes <= 0 {
		opts.MaxStorageBytes = DefaultMaxStorageBytes
	}
	if opts.MaxScans <= 0 {
		opts.MaxScans = DefaultMaxScans
	}
	return &ScanService{
		kv:       kv,
		backup:   backup,
		maxBytes: opts.MaxStorageBytes,
		maxScans: opts.MaxScans,
		metrics:  opts.Metrics,
		logger:   slog.Default(),
	}
}

// Save persists a new scan built from already-decoded fields and the
// verbatim raw payload. The scan gets a fresh unique id, a
// creation-time timestamp, empty notes and auto-derived tags, and is
// prepended so the collection stays newest-first. When the serialized
// collection exceeds the configured byte ceiling or the scan cap, only
// the most recent MaxScans entries are kept before persisting.
func (s *ScanService) Save(ctx context.Context, fields []model.DecodedField, rawPayload string) (scan model.Scan, err error) {
	defer s.observe("save", time.Now(), &err)

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return model.Scan{}, err
	}

	if fields == nil {
		fields = []model.DecodedField{}
	}
	scan = model.Scan{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Fields:     fields,
		RawPayload: rawPayload,
		Notes:      "",
		Tags:       deriveTags(fields),
	}
	scans = append([]model.Scan{scan}, scans...)

	data, err := json.Marshal(scans)
	if err != nil {
		return model.Scan{}, fmt.Errorf("serialize scan collection: %w", err)
	}
	if int64(len(data)) > s.maxBytes || len(scans) > s.maxScans {
		if len(scans) > s.maxScans {
			s.logger.Warn("retention ceiling reached, truncating collection",
				"kept", s.maxScans, "dropped", len(scans)-s.maxScans)
			scans = scans[:s.maxScans]
		} else {
			s.logger.Warn("collection exceeds storage ceiling",
				"bytes", len(data), "scans", len(scans))
		}
	}

	if err := s.persist(ctx, scans); err != nil {
		return model.Scan{}, err
	}
	return scan, nil
}

// GetAll returns the collection as persisted, newest-first. Legacy
// records missing an id, tags or notes are repaired on read; no
// separate migration step exists.
func (s *ScanService) GetAll(ctx context.Context) (scans []model.Scan, err error) {
	defer s.observe("get_all", time.Now(), &err)
	return s.loadCollection(ctx)
}

// Search returns the scans matching all set filters. An empty filter
// set returns the whole collection unchanged in order.
func (s *ScanService) Search(ctx context.Context, filters model.SearchFilters) (scans []model.Scan, err error) {
	defer s.observe("search", time.Now(), &err)

	all, err := s.loadCollection(ctx)
	if err != nil {
		return nil, err
	}
	if filters.IsZero() {
		return all, nil
	}

	matched := make([]model.Scan, 0, len(all))
	for _, scan := range all {
		if matchesFilters(scan, filters) {
			matched = append(matched, scan)
		}
	}
	return matched, nil
}

// Update mutates the notes and/or tags of an existing scan. All other
// attributes are immutable after save. A nil argument leaves the
// corresponding attribute untouched.
func (s *ScanService) Update(ctx context.Context, id string, notes *string, tags []string) (scan model.Scan, err error) {
	defer s.observe("update", time.Now(), &err)

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return model.Scan{}, err
	}

	idx := -1
	for i := range scans {
		if scans[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Scan{}, fmt.Errorf("update scan %s: %w", id, ErrScanNotFound)
	}

	if notes != nil {
		scans[idx].Notes = *notes
	}
	if tags != nil {
		scans[idx].Tags = tags
	}

	if err := s.persist(ctx, scans); err != nil {
		return model.Scan{}, err
	}
	return scans[idx], nil
}

// Delete removes one scan by id. An unknown id is a no-op success.
func (s *ScanService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return err
	}

	kept := scans[:0]
	for _, scan := range scans {
		if scan.ID != id {
			kept = append(kept, scan)
		}
	}
	return s.persist(ctx, kept)
}

// ClearAll empties the collection entirely.
func (s *ScanService) ClearAll(ctx context.Context) (err error) {
	defer s.observe("clear_all", time.Now(), &err)

	if err := s.kv.Delete(ctx, scanHistoryKey); err != nil {
		return fmt.Errorf("clear scan collection: %w", err)
	}
	s.updateSettings(ctx)
	return nil
}

// Stats returns a snapshot of the collection: count, human-readable
// storage size, newest and oldest timestamps. Recomputed on demand.
func (s *ScanService) Stats(ctx context.Context) (stats model.StorageStats, err error) {
	defer s.observe("stats", time.Now(), &err)
	return s.computeStats(ctx)
}

func (s *ScanService) computeStats(ctx context.Context) (model.StorageStats, error) {
	var size int
	for _, key := range []string{scanHistoryKey, settingsKey} {
		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return model.StorageStats{}, fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			size += len(key) + len(raw)
		}
	}

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return model.StorageStats{}, err
	}

	stats := model.StorageStats{
		TotalScans:  len(scans),
		StorageUsed: formatStorageSize(size),
	}
	for _, scan := range scans {
		t := scan.Time()
		if stats.NewestScan == "" || t.After(mustTime(stats.NewestScan)) {
			stats.NewestScan = scan.Timestamp
		}
		if stats.OldestScan == "" || t.Before(mustTime(stats.OldestScan)) {
			stats.OldestScan = scan.Timestamp
		}
	}
	return stats, nil
}

func mustTime(ts string) time.Time {
	return model.Scan{Timestamp: ts}.Time()
}

// formatStorageSize renders a byte count with 1024-based units and
// two-decimal rounding, e.g. "1.5 KB", "43.25 MB".
func formatStorageSize(bytes int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[i]
}

func matchesFilters(scan model.Scan, f model.SearchFilters) bool {
	if f.Name != "" {
		fullName := model.FullName(scan.Fields)
		if !strings.Contains(strings.ToLower(fullName), strings.ToLower(f.Name)) {
			return false
		}
	}
	if f.LicenseNumber != "" {
		license := model.FieldValue(scan.Fields, "License Number")
		if !strings.Contains(strings.ToLower(license), strings.ToLower(f.LicenseNumber)) {
			return false
		}
	}
	if f.State != "" {
		state := model.FieldValue(scan.Fields, "State")
		if !strings.Contains(strings.ToLower(state), strings.ToLower(f.State)) {
			return false
		}
	}
	if f.DateRange != nil && !f.DateRange.Contains(scan.Time()) {
		return false
	}
	return true
}

// deriveTags builds the automatic tag set for a scan: the issuing
// state, the constant document type, and the gender when present.
func deriveTags(fields []model.DecodedField) []string {
	tags := []string{}
	if state := model.FieldValue(fields, "State"); state != "" {
		tags = append(tags, "State: "+state)
	}
	tags = append(tags, "Driver License")
	if gender := model.FieldValue(fields, "Gender"); gender != "" {
		tags = append(tags, "Gender: "+gender)
	}
	return tags
}

// loadCollection reads and repairs the persisted collection. An absent
// key is an empty collection, not an error.
func (s *ScanService) loadCollection(ctx context.Context) ([]model.Scan, error) {
	raw, ok, err := s.kv.Get(ctx, scanHistoryKey)
	if err != nil {
		return nil, fmt.Errorf("read scan collection: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var scans []model.Scan
	if err := json.Unmarshal([]byte(raw), &scans); err != nil {
		return nil, fmt.Errorf("decode scan collection: %w", err)
	}

	for i := range scans {
		repairScan(&scans[i])
	}
	return scans, nil
}

// repairScan backfills attributes that records written by older
// versions may lack.
func repairScan(scan *model.Scan) {
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	if scan.Tags == nil {
		scan.Tags = deriveTags(scan.Fields)
	}
	if scan.Fields == nil {
		scan.Fields = []model.DecodedField{}
	}
}

func (s *ScanService) persist(ctx context.Context, scans []model.Scan) error {
	if scans == nil {
		scans = []model.Scan{}
	}
	data, err := json.Marshal(scans)
	if err != nil {
		return fmt.Errorf("serialize scan collection: %w", err)
	}
	if err := s.kv.Set(ctx, scanHistoryKey, string(data)); err != nil {
		return fmt.Errorf("write scan collection: %w", err)
	}
	s.updateSettings(ctx)
	return nil
}

// updateSettings refreshes the settings blob under the secondary fixed
// key after a mutation. Failures are logged, never surfaced: the blob
// is diagnostic, not a source of truth.
func (s *ScanService) updateSettings(ctx context.Context) {
	stats, err := s.computeStats(ctx)
	if err != nil {
		s.logger.Warn("failed to compute stats for settings blob", "error", err)
		return
	}

	blob, err := json.Marshal(struct {
		LastUpdated string             `json:"last_updated"`
		Stats       model.StorageStats `json:"stats"`
	}{
		LastUpdated: time.Now().UTC().Format(time.RFC3339Nano),
		Stats:       stats,
	})
	if err != nil {
		s.logger.Warn("failed to serialize settings blob", "error", err)
		return
	}

	if err := s.kv.Set(ctx, settingsKey, string(blob)); err != nil {
		s.logger.Warn("failed to write settings blob", "error", err)
	}
}

// sortNewestFirst orders scans by timestamp descending. Used after
// import merges; save keeps the order by prepending instead.
func sortNewestFirst(scans []model.Scan) {
	sort.SliceStable(scans, func(i, j int) bool {
		return scans[i].Time().After(scans[j].Time())
	})
}

func (s *ScanService) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveStoreOp(op, time.Since(start).Seconds(), *err)
}
