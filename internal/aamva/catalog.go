// Package aamva decodes the multi-line text payload carried in the
// PDF417 barcode on North American driver's licenses and ID cards.
// Decoding is pure and tolerant: malformed payloads degrade to fewer
// recognized fields, never to an error.
package aamva

// FieldDefinition maps a 3-character AAMVA field code to a display
// label and an optional value formatter.
type FieldDefinition struct {
	Code   string
	Label  string
	Format func(string) string
}

// Catalog is the ordered list of recognized field codes. Order matters:
// it defines precedence when entries would produce colliding labels
// during decode, so this stays a slice rather than a map. A code may
// legitimately appear more than once under different labels (AAMVA
// revisions overlap); later entries for an already-emitted label are
// skipped by the decoder.
var Catalog = []FieldDefinition{
	{Code: "DCS", Label: "Last Name"},
	{Code: "DCT", Label: "First Name (Full)"},
	{Code: "DAC", Label: "First Name"},
	{Code: "DAD", Label: "Middle Name"},
	{Code: "DBB", Label: "Date of Birth", Format: FormatDate},
	{Code: "DBC", Label: "Gender", Format: FormatGender},
	{Code: "DAU", Label: "Height", Format: FormatHeight},
	{Code: "DAY", Label: "Eye Color"},
	{Code: "DAG", Label: "Street Address 1"},
	{Code: "DAH", Label: "Street Address 2"},
	{Code: "DAI", Label: "City"},
	{Code: "DAJ", Label: "State"},
	{Code: "DAK", Label: "ZIP Code", Format: FormatZIP},
	{Code: "DAQ", Label: "License Number"},
	{Code: "DCF", Label: "Document Discriminator"},
	{Code: "DCG", Label: "Country Identification"},
	{Code: "DDE", Label: "Last Name Truncation"},
	{Code: "DDF", Label: "First Name Truncation"},
	{Code: "DDG", Label: "Middle Name Truncation"},

	// Dates.
	{Code: "DBD", Label: "Issue Date", Format: FormatDate},
	{Code: "DBA", Label: "Expiration Date", Format: FormatDate},
	{Code: "DDH", Label: "Under 18 Until", Format: FormatDate},
	{Code: "DDI", Label: "Under 19 Until", Format: FormatDate},
	{Code: "DDJ", Label: "Under 21 Until", Format: FormatDate},

	// Physical characteristics.
	{Code: "DAW", Label: "Weight (lbs)"},
	{Code: "DAZ", Label: "Hair Color"},

	// License classification, endorsements, restrictions.
	{Code: "DCA", Label: "Jurisdiction-specific vehicle class"},
	{Code: "DCB", Label: "Jurisdiction-specific restriction codes"},
	{Code: "DCD", Label: "Jurisdiction-specific endorsement codes"},
	{Code: "DCH", Label: "Federal Commercial Vehicle Codes"},

	// Misc, including deliberate duplicates of codes mapped above.
	{Code: "DAZ", Label: "Hair Color"},
	{Code: "DCK", Label: "Customer ID Number (if different from DAQ)"},
	{Code: "DBN", Label: "Full Name"},
	{Code: "DCL", Label: "Race/Ethnicity"},
	{Code: "DCR", Label: "Compliance Type"},
	{Code: "DCS", Label: "Family Name / Last Name"},
	{Code: "DCT", Label: "Given Name / First Name"},
}
