package aamva_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clssupply/idscanpro/internal/aamva"
	"github.com/clssupply/idscanpro/internal/domain/model"
)

func TestDecode_SamplePayload(t *testing.T) {
	raw := "@\nANSI 123456\nDCSSMITH\nDACJOHN\nDAJCA"

	fields := aamva.Decode(raw)
	require.NotEmpty(t, fields)

	assert.Equal(t, model.DecodedField{Label: "Full Name", Value: "JOHN SMITH"}, fields[0],
		"synthesized Full Name sits at the front")
	assert.Equal(t, "SMITH", model.FieldValue(fields, "Last Name"))
	assert.Equal(t, "JOHN", model.FieldValue(fields, "First Name"))
	assert.Equal(t, "CA", model.FieldValue(fields, "State"))
}

func TestDecode_Empty(t *testing.T) {
	assert.Empty(t, aamva.Decode(""))
	assert.Empty(t, aamva.Decode("\n \n\t\n"))
}

func TestDecode_NoHeader(t *testing.T) {
	fields := aamva.Decode("DCSJONES\nDAJNY")
	assert.Equal(t, "JONES", model.FieldValue(fields, "Last Name"))
	assert.Equal(t, "NY", model.FieldValue(fields, "State"))
}

func TestDecode_UnknownCodesKeptAsRawRows(t *testing.T) {
	fields := aamva.Decode("@\nZZZmystery\nDAJTX")

	assert.Equal(t, "TX", model.FieldValue(fields, "State"))

	var raw *model.DecodedField
	for i := range fields {
		if fields[i].Label == "Raw Code: ZZZ" {
			raw = &fields[i]
		}
	}
	require.NotNil(t, raw, "unmatched codes must not be dropped")
	assert.Equal(t, "mystery", raw.Value)
}

func TestDecode_RepeatedCodeLastWins(t *testing.T) {
	fields := aamva.Decode("@\nDAJCA\nDAJOR")
	assert.Equal(t, "OR", model.FieldValue(fields, "State"))
}

func TestDecode_FormattersApplied(t *testing.T) {
	fields := aamva.Decode("@\nDBB19900215\nDBC1\nDAK123456789\nDAU069")

	assert.Equal(t, "02/15/1990", model.FieldValue(fields, "Date of Birth"))
	assert.Equal(t, "Male", model.FieldValue(fields, "Gender"))
	assert.Equal(t, "12345-6789", model.FieldValue(fields, "ZIP Code"))
	assert.Equal(t, `5'9"`, model.FieldValue(fields, "Height"))
}

func TestDecode_PayloadFullNameNotOverwritten(t *testing.T) {
	fields := aamva.Decode("@\nDBNJANE Q PUBLIC\nDACJANE\nDCSPUBLIC")

	// DBN carries a full name, so no synthesized entry is prepended.
	count := 0
	for _, f := range fields {
		if f.Label == "Full Name" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "JANE Q PUBLIC", model.FieldValue(fields, "Full Name"))
}

func TestDecode_MiddleNameJoinsSynthesizedFullName(t *testing.T) {
	fields := aamva.Decode("@\nDACJOHN\nDADQUINCY\nDCSADAMS")
	assert.Equal(t, "JOHN QUINCY ADAMS", model.FieldValue(fields, "Full Name"))
}

func TestDecode_ShortLinesIgnored(t *testing.T) {
	fields := aamva.Decode("@\nDA\nX\nDAJWA")
	assert.Equal(t, "WA", model.FieldValue(fields, "State"))
	assert.Len(t, fields, 1)
}

func TestDecode_DuplicateCatalogCodes(t *testing.T) {
	// DCS maps to both "Last Name" and "Family Name / Last Name" in
	// catalog order; both rows are emitted for one code, plus the Full
	// Name synthesized from the lone name part.
	fields := aamva.Decode("@\nDCSRIVERA")

	var labels []string
	for _, f := range fields {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"Full Name", "Last Name", "Family Name / Last Name"}, labels)
	assert.Equal(t, "RIVERA", model.FieldValue(fields, "Full Name"))
}
