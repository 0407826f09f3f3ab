package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/clssupply/idscanpro/internal/domain/model"
)

// csvHeader is the fixed export header row. Columns never change order;
// missing fields render as empty cells.
var csvHeader = []string{
	"ID", "Timestamp", "Full Name", "First Name", "Last Name", "Date of Birth",
	"License Number", "State", "Address", "City", "ZIP", "Gender", "Height",
	"Weight", "Eye Color", "Hair Color", "Notes", "Tags",
}

// Export serializes the (optionally date-filtered) collection in the
// requested format and returns the blob. The whole operation succeeds
// or fails; no partial output is produced.
func (s *ScanService) Export(ctx context.Context, opts model.ExportOptions) (blob []byte, err error) {
	defer s.observe("export", time.Now(), &err)

	if !opts.Format.Valid() {
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}

	scans, err := s.loadCollection(ctx)
	if err != nil {
		return nil, err
	}

	if opts.DateRange != nil {
		filtered := make([]model.Scan, 0, len(scans))
		for _, scan := range scans {
			if opts.DateRange.Contains(scan.Time()) {
				filtered = append(filtered, scan)
			}
		}
		scans = filtered
	}

	switch opts.Format {
	case model.ExportCSV:
		return exportCSV(scans), nil
	case model.ExportPDF:
		return exportPDFText(scans), nil
	default:
		return exportJSON(scans, opts.IncludeRawPayload)
	}
}

// scanExport mirrors model.Scan with an omittable raw payload. The
// pointer keys omission to the export option alone: an included empty
// payload still serializes as "".
type scanExport struct {
	ID         string               `json:"id"`
	Timestamp  string               `json:"timestamp"`
	Fields     []model.DecodedField `json:"fields"`
	RawPayload *string              `json:"raw_payload,omitempty"`
	Notes      string               `json:"notes"`
	Tags       []string             `json:"tags"`
}

func exportJSON(scans []model.Scan, includeRawPayload bool) ([]byte, error) {
	out := make([]scanExport, 0, len(scans))
	for _, scan := range scans {
		e := scanExport{
			ID:        scan.ID,
			Timestamp: scan.Timestamp,
			Fields:    scan.Fields,
			Notes:     scan.Notes,
			Tags:      scan.Tags,
		}
		if includeRawPayload {
			raw := scan.RawPayload
			e.RawPayload = &raw
		}
		out = append(out, e)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize export: %w", err)
	}
	return data, nil
}

// exportCSV writes one row per scan. Every data cell is quoted with
// embedded quotes doubled. encoding/csv quotes only when required, so
// the fixed always-quote contract is written by hand.
func exportCSV(scans []model.Scan) []byte {
	lines := make([]string, 0, len(scans)+1)
	lines = append(lines, strings.Join(csvHeader, ","))

	for _, scan := range scans {
		f := scan.Fields
		cells := []string{
			scan.ID,
			scan.Timestamp,
			model.FieldValue(f, "Full Name"),
			model.FieldValue(f, "First Name"),
			model.FieldValue(f, "Last Name"),
			model.FieldValue(f, "Date of Birth"),
			model.FieldValue(f, "License Number"),
			model.FieldValue(f, "State"),
			model.FieldValue(f, "Street Address 1"),
			model.FieldValue(f, "City"),
			model.FieldValue(f, "ZIP Code"),
			model.FieldValue(f, "Gender"),
			model.FieldValue(f, "Height"),
			model.FieldValue(f, "Weight (lbs)"),
			model.FieldValue(f, "Eye Color"),
			model.FieldValue(f, "Hair Color"),
			scan.Notes,
			strings.Join(scan.Tags, "; "),
		}
		quoted := make([]string, len(cells))
		for i, c := range cells {
			quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}

	return []byte(strings.Join(lines, "\n"))
}

// exportPDFText renders a human-readable plain-text block per scan. It
// stands in for a real PDF body and is served under the PDF content
// type by the HTTP adapter.
func exportPDFText(scans []model.Scan) []byte {
	orNA := func(v string) string {
		if v == "" {
			return "N/A"
		}
		return v
	}

	var b strings.Builder
	for _, scan := range scans {
		date := scan.Timestamp
		if t := scan.Time(); !t.IsZero() {
			date = t.Format("Jan 2, 2006 3:04:05 PM")
		}
		notes := scan.Notes
		if notes == "" {
			notes = "None"
		}
		tags := strings.Join(scan.Tags, ", ")
		if tags == "" {
			tags = "None"
		}

		fmt.Fprintf(&b, "Scan ID: %s\n", scan.ID)
		fmt.Fprintf(&b, "Date: %s\n", date)
		fmt.Fprintf(&b, "Name: %s\n", orNA(model.FullName(scan.Fields)))
		fmt.Fprintf(&b, "License #: %s\n", orNA(model.FieldValue(scan.Fields, "License Number")))
		fmt.Fprintf(&b, "State: %s\n", orNA(model.FieldValue(scan.Fields, "State")))
		fmt.Fprintf(&b, "DOB: %s\n", orNA(model.FieldValue(scan.Fields, "Date of Birth")))
		fmt.Fprintf(&b, "Notes: %s\n", notes)
		fmt.Fprintf(&b, "Tags: %s\n", tags)
		b.WriteString("----------------------------\n")
	}
	return []byte(b.String())
}
