package aamva

import (
	"strings"

	"github.com/clssupply/idscanpro/internal/domain/model"
)

// Decode splits a raw AAMVA payload into labeled fields. The result is
// ordered: a synthesized Full Name first (when the payload carries name
// parts but no DBN), then catalog entries in catalog order, then
// unrecognized codes as "Raw Code: XXX" rows in order of appearance so
// no captured data is silently dropped. An empty or unrecognizable
// payload yields an empty slice, never an error.
func Decode(raw string) []model.DecodedField {
	if raw == "" {
		return nil
	}

	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	// Header skip is a heuristic, not a compliance check: payloads
	// without the "@" / "ANSI" preamble are parsed from the first line.
	start := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "@") {
		start = 1
		if len(lines) > 1 && strings.HasPrefix(lines[1], "ANSI") {
			start = 2
		}
	}

	// Last occurrence of a repeated code wins. Order of first
	// appearance is kept for the raw-code fallback rows below.
	fieldMap := make(map[string]string)
	var codeOrder []string
	for _, line := range lines[start:] {
		if len(line) < 3 {
			continue
		}
		code, val := line[:3], line[3:]
		if _, seen := fieldMap[code]; !seen {
			codeOrder = append(codeOrder, code)
		}
		fieldMap[code] = val
	}

	var fields []model.DecodedField
	hasLabel := func(label string) bool {
		for _, f := range fields {
			if f.Label == label {
				return true
			}
		}
		return false
	}

	matched := make(map[string]bool)
	for _, def := range Catalog {
		val, ok := fieldMap[def.Code]
		if !ok {
			continue
		}
		matched[def.Code] = true

		if def.Format != nil {
			val = def.Format(val)
		}
		if hasLabel(def.Label) {
			continue
		}
		// Two intentional suppression rules against near-duplicate
		// rows; there is no general de-duplication beyond these.
		if def.Label == "First Name" && hasLabel("First Name (Full)") {
			continue
		}
		if def.Label == "Last Name" && hasLabel("Family Name / Last Name") {
			continue
		}
		fields = append(fields, model.DecodedField{Label: def.Label, Value: val})
	}

	for _, code := range codeOrder {
		if !matched[code] {
			fields = append(fields, model.DecodedField{Label: "Raw Code: " + code, Value: fieldMap[code]})
		}
	}

	// Synthesize Full Name from parts unless the payload carried one.
	var parts []string
	for _, label := range []string{"First Name", "Middle Name", "Last Name"} {
		if v := model.FieldValue(fields, label); v != "" {
			parts = append(parts, v)
		}
	}
	if full := strings.Join(parts, " "); full != "" && !hasLabel("Full Name") {
		fields = append([]model.DecodedField{{Label: "Full Name", Value: full}}, fields...)
	}

	return fields
}
