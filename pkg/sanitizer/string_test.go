package sanitizer

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  The Forest Hiker  ",
			want:  "The Forest Hiker",
		},
		{
			name:  "multiple spaces between words",
			input: "The    Forest   Hiker",
			want:  "The Forest Hiker",
		},
		{
			name:  "tabs and newlines",
			input: "The\t\nForest Hiker",
			want:  "The Forest Hiker",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := String(tt.input)
			if got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{
			name: "plain field",
			key:  "difficulty",
			want: true,
		},
		{
			name: "empty key",
			key:  "",
			want: false,
		},
		{
			name: "operator injection",
			key:  "$where",
			want: false,
		},
		{
			name: "path traversal",
			key:  "startLocation.coordinates",
			want: false,
		},
		{
			name: "camel case field",
			key:  "ratingsAverage",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterKey(tt.key)
			if got != tt.want {
				t.Errorf("FilterKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
