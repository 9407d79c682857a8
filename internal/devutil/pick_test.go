package devutil

import (
	"reflect"
	"testing"

	"ccb-bridge/internal/domain"
)

func TestPick(t *testing.T) {
	person := domain.Person{ID: "48", FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}

	testCases := []struct {
		name     string
		input    any
		keys     []string
		expected map[string]any
	}{
		{
			name:     "Pick from struct uses json tags",
			input:    person,
			keys:     []string{"id", "email"},
			expected: map[string]any{"id": "48", "email": "jane@x.com"},
		},
		{
			name:     "Omitted and unknown keys are skipped",
			input:    person,
			keys:     []string{"phone", "nope", "last_name"},
			expected: map[string]any{"last_name": "Doe"},
		},
		{
			name:     "Pick from map",
			input:    map[string]any{"a": 1.0, "b": "x"},
			keys:     []string{"a"},
			expected: map[string]any{"a": 1.0},
		},
		{
			name:     "Non-object input",
			input:    []string{"a"},
			keys:     []string{"a"},
			expected: map[string]any{},
		},
		{
			name:     "Unencodable input",
			input:    make(chan int),
			keys:     []string{"a"},
			expected: map[string]any{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Pick(tc.input, tc.keys...)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Pick() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestSplitFields(t *testing.T) {
	got := SplitFields(" id, ,first_name,")
	want := []string{"id", "first_name"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitFields() = %v, want %v", got, want)
	}
	if SplitFields("") != nil {
		t.Error("Expected nil for empty input")
	}
}
