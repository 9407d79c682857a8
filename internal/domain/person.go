package domain

import "strings"

// MissingLastName is written as the last name when a record is created from a
// single-token name. Lookups use an empty last name instead.
const MissingLastName = "(MISSING)"

// Person is an individual as stored in the external directory.
// The directory owns it; we only pass it through.
type Person struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CampusID   string `json:"campus_id,omitempty"`
	CampusName string `json:"campus_name,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SplitName splits name on whitespace. first is the first token; last is the
// final token when there are at least two, otherwise missingLast.
// ok is false when name has no tokens at all.
func SplitName(name, missingLast string) (first, last string, ok bool) {
	pieces := strings.Fields(name)
	if len(pieces) == 0 {
		return "", missingLast, false
	}
	first = pieces[0]
	last = missingLast
	if len(pieces) > 1 {
		last = pieces[len(pieces)-1]
	}
	return first, last, true
}
