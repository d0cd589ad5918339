package fuzzy

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		label string
		query string
		want  float64
		match bool
	}{
		{name: "exact", label: "Apple", query: "apple", want: ExactScore, match: true},
		{name: "prefix substring", label: "apple", query: "ap", want: 0, match: true},
		{name: "inner substring", label: "pineapple", query: "apple", want: 4, match: true},
		{name: "subsequence with gap", label: "grape", query: "gp", want: 1020, match: true},
		{name: "back to back subsequence", label: "a-b", query: "a-b", want: ExactScore, match: true},
		{name: "subsequence no gaps beyond first", label: "xaybz", query: "ab", want: 1010, match: true},
		{name: "no match", label: "banana", query: "xyz", want: math.Inf(1), match: false},
		{name: "partial subsequence", label: "grape", query: "gpz", want: math.Inf(1), match: false},
		{name: "blank query", label: "anything", query: "   ", want: 0, match: true},
		{name: "empty query", label: "anything", query: "", want: 0, match: true},
		{name: "unicode substring counts runes", label: "ééabc", query: "ab", want: 2, match: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Score(tt.label, tt.query)
			if ok != tt.match {
				t.Fatalf("Score(%q, %q) match = %v, want %v", tt.label, tt.query, ok, tt.match)
			}
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.label, tt.query, got, tt.want)
			}
		})
	}
}

func TestScore_SubsequenceGapPenalty(t *testing.T) {
	// c-a-t with one skipped rune between each consumed rune.
	got, ok := Score("cxaxt", "cat")
	if !ok {
		t.Fatal("expected match")
	}
	if got != SubsequenceBase+2*GapPenalty {
		t.Errorf("score = %v, want %v", got, SubsequenceBase+2*GapPenalty)
	}
}

func TestScore_Deterministic(t *testing.T) {
	for i := 0; i < 50; i++ {
		a, _ := Score("src/components/DropdownSelector.tsx", "dds")
		b, _ := Score("src/components/DropdownSelector.tsx", "dds")
		if a != b {
			t.Fatalf("scores differ: %v vs %v", a, b)
		}
	}
}

func TestScore_SubstringBeatsSubsequence(t *testing.T) {
	sub, _ := Score("apple", "ap")
	seq, _ := Score("a-p-ricot", "ap")
	if !(sub < seq) {
		t.Errorf("substring score %v should be better than subsequence %v", sub, seq)
	}
}

func TestMatch(t *testing.T) {
	if !Match("grape", "gp") {
		t.Error("grape should match gp")
	}
	if Match("grape", "pg") {
		t.Error("grape should not match pg (order matters)")
	}
}

func TestPositions(t *testing.T) {
	tests := []struct {
		label string
		query string
		want  []int
	}{
		{"apple", "pl", []int{2, 3}},
		{"grape", "gp", []int{0, 3}},
		{"grape", "xyz", nil},
		{"grape", "", nil},
	}
	for _, tt := range tests {
		got := Positions(tt.label, tt.query)
		if len(got) != len(tt.want) {
			t.Fatalf("Positions(%q, %q) = %v, want %v", tt.label, tt.query, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Positions(%q, %q)[%d] = %d, want %d", tt.label, tt.query, i, got[i], tt.want[i])
			}
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("/Home/A", "/home/a") {
		t.Error("expected case-insensitive equality")
	}
	if Equal("/home/a", "/home/b") {
		t.Error("different strings reported equal")
	}
}
