package model

import "time"

// DateRange is an inclusive timestamp interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SearchFilters narrows a scan listing. All filters are optional and
// combined with AND semantics; the zero value matches everything.
type SearchFilters struct {
	Name          string
	LicenseNumber string
	State         string
	DateRange     *DateRange
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.Name == "" && f.LicenseNumber == "" && f.State == "" && f.DateRange == nil
}
