package match

import "testing"

func TestSimilarityIdentical(t *testing.T) {
	for _, s := range []string{"a", "Elden Ring", "ゲーム", "  spaced  "} {
		if got := Similarity(s, s); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Elden Ring", "Elden Rings"},
		{"kitten", "sitting"},
		{"", "hello"},
		{"Portal 2", "Portal"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"abc", ""},
		{"abc", "xyz"},
		{"Elden Ring", "Totally Different Title"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarityOrdering(t *testing.T) {
	near := Similarity("Elden Ring", "Elden Rings")
	far := Similarity("Elden Ring", "Totally Different Title")
	if near <= far {
		t.Errorf("near match %v should beat far match %v", near, far)
	}
}

func TestSimilarityCaseFolded(t *testing.T) {
	if got := Similarity("ELDEN RING", "elden ring"); got != 1.0 {
		t.Errorf("case-only difference scored %v, want 1.0", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"abc", "abcd", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"", "hello", 5},
		{"hello", "", 5},
	}

	for _, tc := range tests {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			result := levenshtein([]rune(tc.a), []rune(tc.b))
			if result != tc.expected {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}
