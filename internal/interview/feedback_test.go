package interview

import "testing"

func TestParseScore(t *testing.T) {
	tests := []struct {
		name     string
		feedback string
		expected int
	}{
		{"plain", "Result: PASS\nScore: 7\nStrengths: ...", 7},
		{"lowercase", "overall score of 9 out of 10", 9},
		{"bold markdown", "**Score:** 3/10", 3},
		{"first integer wins", "Score: 6 (previous attempt 4)", 6},
		{"no score", "The candidate did well overall.", DefaultScore},
		{"score word without number on line", "Score:\nnone", DefaultScore},
		{"empty", "", DefaultScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScore(tt.feedback); got != tt.expected {
				t.Errorf("ParseScore(%q) = %d, expected %d", tt.feedback, got, tt.expected)
			}
		})
	}
}

func TestIsPassed(t *testing.T) {
	tests := []struct {
		name     string
		feedback string
		expected bool
	}{
		{"pass", "Result: PASS", true},
		{"fail", "Result: FAIL", false},
		{"both words", "Did not pass: FAIL", false},
		{"neither", "Needs more practice.", false},
		{"passionate", "A passionate candidate", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPassed(tt.feedback); got != tt.expected {
				t.Errorf("IsPassed(%q) = %v, expected %v", tt.feedback, got, tt.expected)
			}
		})
	}
}
