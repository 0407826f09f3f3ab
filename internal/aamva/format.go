package aamva

import (
	"fmt"
	"strconv"
	"strings"
)

// Formatters never fail: input that doesn't match the expected shape is
// returned unchanged so nothing scanned off a card is lost.

// FormatDate renders an 8-digit AAMVA date as MM/DD/YYYY. Both common
// encodings are tried: CCYYMMDD first, then MMDDCCYY. A date is
// accepted when the year is after 1900, the month is 1-12 and the day
// is 1-31.
func FormatDate(s string) string {
	digits := digitsOnly(s)
	if len(digits) != 8 {
		return s
	}

	if validDate(digits[:4], digits[4:6], digits[6:8]) {
		return digits[4:6] + "/" + digits[6:8] + "/" + digits[:4]
	}
	if validDate(digits[4:8], digits[:2], digits[2:4]) {
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:8]
	}

	return s
}

func validDate(year, month, day string) bool {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return y > 1900 && m >= 1 && m <= 12 && d >= 1 && d <= 31
}

// FormatGender expands the AAMVA sex codes. Unknown codes pass through.
func FormatGender(code string) string {
	switch code {
	case "1", "M":
		return "Male"
	case "2", "F":
		return "Female"
	case "0", "9":
		return "Not Specified"
	default:
		return code
	}
}

// FormatHeight renders a height value as feet'inches". Values of up to
// three digits are total inches (the AAMVA norm, e.g. "069" is 5'9").
// Longer digit strings are read as one digit of feet followed by
// inches. Metric values ending in "cm" and anything unrecognized pass
// through unchanged.
func FormatHeight(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "cm") {
		return s
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return s
	}

	if len(s) <= 3 {
		return fmt.Sprintf("%d'%d\"", n/12, n%12)
	}

	feet := int(s[0] - '0')
	inches, err := strconv.Atoi(s[1:])
	if err == nil && inches < 12 {
		return fmt.Sprintf("%d'%d\"", feet, inches)
	}

	return s
}

// FormatZIP renders 9-digit US ZIP codes as NNNNN-NNNN and 5-digit ones
// bare. Any other length (Canadian and other non-US postal formats)
// returns the original input.
func FormatZIP(s string) string {
	digits := digitsOnly(s)
	switch len(digits) {
	case 9:
		return digits[:5] + "-" + digits[5:]
	case 5:
		return digits
	default:
		return s
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
