package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clssupply/idscanpro/internal/domain/model"
)

// Import merges a previously exported JSON array into the collection.
// The operation is rejected outright when the top-level structure is
// not an array; individual malformed records only increment the
// skipped counter. Records whose id already exists are skipped, never
// overwritten. The merged collection is re-sorted newest-first and
// persisted once.
func (s *ScanService) Import(ctx context.Context, data []byte) (result model.ImportResult, err error) {
	defer s.observe("import", time.Now(), &err)

	// Unmarshal alone is not enough: a literal null also decodes into a
	// nil slice without error, and null is not a sequence.
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) == 0 || trimmed[0] != '[' {
		return model.ImportResult{}, ErrInvalidImport
	}

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return model.ImportResult{}, err
	}

	existing := make(map[string]bool, len(scans))
	for _, scan := range scans {
		existing[scan.ID] = true
	}

	for _, raw := range records {
		scan, ok := parseImportRecord(raw)
		if !ok {
			result.Skipped++
			continue
		}
		if scan.ID != "" && existing[scan.ID] {
			result.Skipped++
			continue
		}
		if scan.ID == "" {
			scan.ID = uuid.NewString()
		}
		if scan.Tags == nil {
			scan.Tags = deriveTags(scan.Fields)
		}

		existing[scan.ID] = true
		scans = append(scans, scan)
		result.Imported++
	}

	if result.Imported > 0 {
		sortNewestFirst(scans)
		if err := s.persist(ctx, scans); err != nil {
			return model.ImportResult{}, err
		}
	}
	return result, nil
}

// parseImportRecord validates the minimal scan shape: a string
// timestamp, a fields array and a string raw payload must all be
// present with the right types.
func parseImportRecord(raw json.RawMessage) (model.Scan, bool) {
	var probe struct {
		ID         string                `json:"id"`
		Timestamp  *string               `json:"timestamp"`
		Fields     *[]model.DecodedField `json:"fields"`
		RawPayload *string               `json:"raw_payload"`
		Notes      string                `json:"notes"`
		Tags       []string              `json:"tags"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return model.Scan{}, false
	}
	if probe.Timestamp == nil || probe.Fields == nil || probe.RawPayload == nil {
		return model.Scan{}, false
	}

	return model.Scan{
		ID:         probe.ID,
		Timestamp:  *probe.Timestamp,
		Fields:     *probe.Fields,
		RawPayload: *probe.RawPayload,
		Notes:      probe.Notes,
		Tags:       probe.Tags,
	}, true
}
