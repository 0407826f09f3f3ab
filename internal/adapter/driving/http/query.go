package httphandler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/clssupply/idscanpro/internal/domain/model"
)

// farFuture caps an open-ended date range; RFC 3339 timestamps cannot
// exceed year 9999 anyway.
var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// parseSearchFilters reads the optional search parameters: name,
// license_number, state, start, end (RFC 3339, inclusive).
func parseSearchFilters(r *http.Request) (model.SearchFilters, error) {
	q := r.URL.Query()

	filters := model.SearchFilters{
		Name:          q.Get("name"),
		LicenseNumber: q.Get("license_number"),
		State:         q.Get("state"),
	}

	dateRange, err := parseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return model.SearchFilters{}, err
	}
	filters.DateRange = dateRange

	return filters, nil
}

// parseExportOptions reads format (default json), include_raw and the
// optional date range.
func parseExportOptions(r *http.Request) (model.ExportOptions, error) {
	q := r.URL.Query()

	format := model.ExportFormat(q.Get("format"))
	if format == "" {
		format = model.ExportJSON
	}
	if !format.Valid() {
		return model.ExportOptions{}, fmt.Errorf("unsupported export format %q", format)
	}

	includeRaw := false
	if v := q.Get("include_raw"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return model.ExportOptions{}, fmt.Errorf("invalid include_raw value %q", v)
		}
		includeRaw = parsed
	}

	dateRange, err := parseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return model.ExportOptions{}, err
	}

	return model.ExportOptions{
		Format:            format,
		IncludeRawPayload: includeRaw,
		DateRange:         dateRange,
	}, nil
}

func parseDateRange(start, end string) (*model.DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	dr := model.DateRange{End: farFuture}
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp %q", start)
		}
		dr.Start = t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, fmt.Errorf("invalid end timestamp %q", end)
		}
		dr.End = t
	}

	return &dr, nil
}
