package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clssupply/idscanpro/internal/application"
	"github.com/clssupply/idscanpro/internal/domain/model"
)

func TestImport_RejectsNonArray(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})

	_, err := svc.Import(context.Background(), []byte(`{"not":"an array"}`))
	assert.Error(t, err)

	_, err = svc.Import(context.Background(), []byte(`not json at all`))
	assert.Error(t, err)
}

func TestImport_RejectsNull(t *testing.T) {
	svc, kv, _ := newTestService(application.Options{})

	// null decodes into a nil slice without an unmarshal error, but it
	// is not a sequence and must fail like any other non-array input.
	_, err := svc.Import(context.Background(), []byte(`null`))
	assert.ErrorIs(t, err, application.ErrInvalidImport)

	_, err = svc.Import(context.Background(), []byte("  \n null"))
	assert.ErrorIs(t, err, application.ErrInvalidImport)

	_, present := kv.m["idscanpro_scan_history"]
	assert.False(t, present, "nothing is persisted")
}

func TestImport_AddsValidRecords(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})
	ctx := context.Background()

	payload := `[
		{"id":"imp-1","timestamp":"2024-06-01T10:00:00Z","fields":[{"label":"State","value":"CA"}],"raw_payload":"r1","notes":"","tags":["State: CA"]},
		{"id":"imp-2","timestamp":"2024-07-01T10:00:00Z","fields":[],"raw_payload":"r2"}
	]`

	result, err := svc.Import(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{Imported: 2, Skipped: 0}, result)

	scans, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	// Re-sorted newest-first after the merge.
	assert.Equal(t, "imp-2", scans[0].ID)
	assert.Equal(t, "imp-1", scans[1].ID)
}

func TestImport_SkipsInvalidShapes(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})

	payload := `[
		{"id":"ok","timestamp":"2024-06-01T10:00:00Z","fields":[],"raw_payload":"r"},
		{"timestamp":"2024-06-01T10:00:00Z","fields":[]},
		{"timestamp":12345,"fields":[],"raw_payload":"r"},
		{"timestamp":"2024-06-01T10:00:00Z","fields":"not a sequence","raw_payload":"r"},
		"not an object"
	]`

	result, err := svc.Import(context.Background(), []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{Imported: 1, Skipped: 4}, result)
}

func TestImport_NeverOverwritesExistingID(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})
	ctx := context.Background()

	saved := mustSave(t, svc, nil, "original")

	payload := `[{"id":"` + saved.ID + `","timestamp":"2024-06-01T10:00:00Z","fields":[],"raw_payload":"impostor"}]`
	result, err := svc.Import(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{Imported: 0, Skipped: 1}, result)

	scans, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "original", scans[0].RawPayload)
}

func TestImport_BackfillsIDAndTags(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})
	ctx := context.Background()

	payload := `[{"timestamp":"2024-06-01T10:00:00Z","fields":[{"label":"State","value":"TX"}],"raw_payload":"r"}]`
	result, err := svc.Import(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	scans, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.NotEmpty(t, scans[0].ID)
	assert.Equal(t, []string{"State: TX", "Driver License"}, scans[0].Tags)
}

func TestImport_OfOwnExportIsAllSkipped(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})
	ctx := context.Background()

	mustSave(t, svc, licenseFields("A B", "", "", "", "CA"), "p1")
	mustSave(t, svc, licenseFields("C D", "", "", "", "NY"), "p2")

	blob, err := svc.Export(ctx, model.ExportOptions{Format: model.ExportJSON, IncludeRawPayload: true})
	require.NoError(t, err)

	result, err := svc.Import(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{Imported: 0, Skipped: 2}, result)

	scans, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, scans, 2)
}

func TestImport_EmptyArray(t *testing.T) {
	svc, kv, _ := newTestService(application.Options{})

	result, err := svc.Import(context.Background(), []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{}, result)
	// Nothing imported means nothing persisted.
	_, present := kv.m["idscanpro_scan_history"]
	assert.False(t, present)
}

func TestImport_RecordWithNullFieldsIsInvalid(t *testing.T) {
	svc, _, _ := newTestService(application.Options{})

	payload := `[{"timestamp":"2024-06-01T10:00:00Z","fields":null,"raw_payload":"r"}]`
	result, err := svc.Import(context.Background(), []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, model.ImportResult{Imported: 0, Skipped: 1}, result)
}
