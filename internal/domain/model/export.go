package model

import "time"

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	// ExportPDF produces a human-readable plain-text block per scan.
	// It is a placeholder body served under the PDF content type, not a
	// binary PDF document.
	ExportPDF ExportFormat = "pdf"
)

// Valid reports whether the format is one of the supported encodings.
func (f ExportFormat) Valid() bool {
	return f == ExportJSON || f == ExportCSV || f == ExportPDF
}

// ContentType returns the MIME type for the exported blob.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv"
	case ExportPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Filename returns a download filename embedding the given date.
func (f ExportFormat) Filename(now time.Time) string {
	ext := string(f)
	if f == ExportPDF {
		ext = "pdf"
	}
	return "idscanpro-export-" + now.Format("2006-01-02") + "." + ext
}

// ExportOptions controls an export operation.
type ExportOptions struct {
	Format            ExportFormat
	IncludeRawPayload bool
	DateRange         *DateRange
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// StorageStats is a snapshot derived from the live collection; it is
// recomputed on demand and never stored as a source of truth.
type StorageStats struct {
	TotalScans  int    `json:"total_scans"`
	StorageUsed string `json:"storage_used"`
	NewestScan  string `json:"newest_scan,omitempty"`
	OldestScan  string `json:"oldest_scan,omitempty"`
}
