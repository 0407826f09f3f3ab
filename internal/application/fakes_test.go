package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clssupply/idscanpro/internal/application"
	"github.com/clssupply/idscanpro/internal/domain/model"
)

var errUnavailable = errors.New("store unavailable")

// fakeKV is an in-memory KVStore with switchable failure modes.
type fakeKV struct {
	m          map[string]string
	failGet    bool
	failSet    bool
	failDelete bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{m: make(map[string]string)}
}

func (kv *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if kv.failGet {
		return "", false, errUnavailable
	}
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *fakeKV) Set(_ context.Context, key, value string) error {
	if kv.failSet {
		return errUnavailable
	}
	kv.m[key] = value
	return nil
}

func (kv *fakeKV) Delete(_ context.Context, key string) error {
	if kv.failDelete {
		return errUnavailable
	}
	delete(kv.m, key)
	return nil
}

// fakeBackup is an in-memory BackupStore holding one record.
type fakeBackup struct {
	data     []byte
	takenAt  time.Time
	has      bool
	failSave bool
	failLoad bool
}

func (b *fakeBackup) SaveBackup(_ context.Context, collection []byte, takenAt time.Time) error {
	if b.failSave {
		return errUnavailable
	}
	b.data = append([]byte(nil), collection...)
	b.takenAt = takenAt
	b.has = true
	return nil
}

func (b *fakeBackup) LoadBackup(_ context.Context) ([]byte, bool, error) {
	if b.failLoad {
		return nil, false, errUnavailable
	}
	if !b.has {
		return nil, false, nil
	}
	return b.data, true, nil
}

func newTestService(opts application.Options) (*application.ScanService, *fakeKV, *fakeBackup) {
	kv := newFakeKV()
	backup := &fakeBackup{}
	return application.NewScanService(kv, backup, opts), kv, backup
}

func mustSave(t *testing.T, svc *application.ScanService, fields []model.DecodedField, raw string) model.Scan {
	t.Helper()
	scan, err := svc.Save(context.Background(), fields, raw)
	if err != nil {
		t.Fatalf("save scan: %v", err)
	}
	return scan
}

func licenseFields(fullName, first, last, license, state string) []model.DecodedField {
	var fields []model.DecodedField
	if fullName != "" {
		fields = append(fields, model.DecodedField{Label: "Full Name", Value: fullName})
	}
	if first != "" {
		fields = append(fields, model.DecodedField{Label: "First Name", Value: first})
	}
	if last != "" {
		fields = append(fields, model.DecodedField{Label: "Last Name", Value: last})
	}
	if license != "" {
		fields = append(fields, model.DecodedField{Label: "License Number", Value: license})
	}
	if state != "" {
		fields = append(fields, model.DecodedField{Label: "State", Value: state})
	}
	return fields
}
