package model

import (
	"strings"
	"time"
)

// DecodedField is one labeled value extracted from a raw AAMVA payload.
// Fields are produced fresh on every decode and persisted only as part
// of a Scan.
type DecodedField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Scan is one persisted decode result: the structured fields, the raw
// payload they came from, and user-editable metadata. The JSON tags
// define both the durable storage shape and the API shape.
type Scan struct {
	ID         string         `json:"id"`
	Timestamp  string         `json:"timestamp"` // RFC 3339, set once at save time
	Fields     []DecodedField `json:"fields"`
	RawPayload string         `json:"raw_payload"`
	Notes      string         `json:"notes"`
	Tags       []string       `json:"tags"`
}

// Time parses the scan timestamp. Returns the zero time when the
// timestamp is absent or unparseable, so callers can sort and filter
// legacy records without erroring.
func (s Scan) Time() time.Time {
	t, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FieldValue returns the value of the named field, also matching the
// decoder's "Raw Code: <label>" fallback rows. Returns "" when absent.
func FieldValue(fields []DecodedField, label string) string {
	for _, f := range fields {
		if f.Label == label || f.Label == "Raw Code: "+label {
			return f.Value
		}
	}
	return ""
}

// FullName returns the scan's display name: the "Full Name" field if
// present, otherwise the "First Name Last Name" concatenation.
func FullName(fields []DecodedField) string {
	if v := FieldValue(fields, "Full Name"); v != "" {
		return v
	}
	return strings.TrimSpace(FieldValue(fields, "First Name") + " " + FieldValue(fields, "Last Name"))
}
