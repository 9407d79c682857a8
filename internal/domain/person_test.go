package domain

import "testing"

func TestSplitName(t *testing.T) {
	testCases := []struct {
		name        string
		missingLast string
		first       string
		last        string
		ok          bool
	}{
		{"Jane Doe", "", "Jane", "Doe", true},
		{"  Mary   Ann  Smith ", "", "Mary", "Smith", true},
		{"Jane\tDoe", MissingLastName, "Jane", "Doe", true},
		{"Cher", "", "Cher", "", true},
		{"Cher", MissingLastName, "Cher", "(MISSING)", true},
		{"", "", "", "", false},
		{"   ", MissingLastName, "", "(MISSING)", false},
	}

	for _, tc := range testCases {
		first, last, ok := SplitName(tc.name, tc.missingLast)
		if first != tc.first || last != tc.last || ok != tc.ok {
			t.Errorf("SplitName(%q, %q) = (%q, %q, %v); expected (%q, %q, %v)",
				tc.name, tc.missingLast, first, last, ok, tc.first, tc.last, tc.ok)
		}
	}
}

func TestPersonFullName(t *testing.T) {
	p := Person{FirstName: "Jane", LastName: "Doe"}
	if p.FullName() != "Jane Doe" {
		t.Errorf("Expected 'Jane Doe', got %q", p.FullName())
	}

	p = Person{FirstName: "Cher"}
	if p.FullName() != "Cher" {
		t.Errorf("Expected 'Cher', got %q", p.FullName())
	}
}
