package models

import "testing"

func TestClassify(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		markup *float64
		want   HighlightTier
	}{
		{"absent markup", nil, HighlightNone},
		{"negative markup", ptr(-3.5), HighlightNone},
		{"just below yellow", ptr(4.99), HighlightNone},
		{"yellow lower bound inclusive", ptr(5.00), HighlightYellow},
		{"inside yellow band", ptr(7.5), HighlightYellow},
		{"just below green", ptr(9.99), HighlightYellow},
		{"green lower bound inclusive", ptr(10.00), HighlightGreen},
		{"far above green", ptr(250.0), HighlightGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.markup); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.markup, got, tt.want)
			}
		})
	}
}
