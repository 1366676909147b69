// Package sanitize filters flight records coming back from the flight service
// so that nothing downstream has to nil-check a section.
package sanitize

import "github.com/Domenick1991/airbooking-desk/internal/domain"

// Flights returns the valid records of in, in their original order. The input
// slice and its records are left untouched.
func Flights(in []domain.FlightRecord) []domain.FlightRecord {
	out := make([]domain.FlightRecord, 0, len(in))
	for _, f := range in {
		if f.Valid() {
			out = append(out, f)
		}
	}
	return out
}

// Dropped counts the records Flights would discard.
func Dropped(in []domain.FlightRecord) int {
	n := 0
	for _, f := range in {
		if !f.Valid() {
			n++
		}
	}
	return n
}
