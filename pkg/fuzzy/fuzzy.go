// Package fuzzy scores how well a candidate label matches a typed query.
//
// Matching tries, in order: case-insensitive equality, case-insensitive
// substring containment, then an fzf-style subsequence walk. Scores are
// lower-is-better so callers can sort ascending.
package fuzzy

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// ExactScore is returned when the label equals the query ignoring case.
	ExactScore = -1000

	// SubsequenceBase is the starting score of a subsequence match.
	// A back-to-back subsequence scores exactly this value.
	SubsequenceBase = 1000

	// GapPenalty is added per skipped label rune between two consumed
	// query runes.
	GapPenalty = 10
)

// NoMatch is the score of a candidate that does not match.
var NoMatch = math.Inf(1)

func fold(s string) []rune {
	return []rune(cases.Lower(language.Und).String(s))
}

// IsBlank reports whether the query should be treated as empty.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Score returns the match score of label against query and whether it
// matched at all. A blank query matches everything with score 0.
func Score(label, query string) (float64, bool) {
	if IsBlank(query) {
		return 0, true
	}
	text := fold(label)
	pattern := fold(query)

	if runesEqual(text, pattern) {
		return ExactScore, true
	}
	if idx := runeIndex(text, pattern); idx >= 0 {
		return float64(idx), true
	}

	score := SubsequenceBase
	qi := 0
	last := -1
	for i := 0; i < len(text) && qi < len(pattern); i++ {
		if text[i] != pattern[qi] {
			continue
		}
		if last != -1 {
			score += (i - last - 1) * GapPenalty
		}
		last = i
		qi++
	}
	if qi != len(pattern) {
		return NoMatch, false
	}
	return float64(score), true
}

// Match reports whether label matches query.
func Match(label, query string) bool {
	_, ok := Score(label, query)
	return ok
}

// Positions returns the rune offsets in label that the query consumed,
// for highlighting. It returns nil when the label does not match or the
// query is blank.
func Positions(label, query string) []int {
	if IsBlank(query) {
		return nil
	}
	text := fold(label)
	pattern := fold(query)

	if idx := runeIndex(text, pattern); idx >= 0 {
		out := make([]int, len(pattern))
		for i := range pattern {
			out[i] = idx + i
		}
		return out
	}

	out := make([]int, 0, len(pattern))
	qi := 0
	for i := 0; i < len(text) && qi < len(pattern); i++ {
		if text[i] == pattern[qi] {
			out = append(out, i)
			qi++
		}
	}
	if qi != len(pattern) {
		return nil
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// runeIndex is strings.Index over rune slices so that offsets count runes,
// not bytes.
func runeIndex(text, pattern []rune) int {
	if len(pattern) == 0 {
		return 0
	}
	for i := 0; i+len(pattern) <= len(text); i++ {
		if text[i] != pattern[0] {
			continue
		}
		j := 1
		for j < len(pattern) && text[i+j] == pattern[j] {
			j++
		}
		if j == len(pattern) {
			return i
		}
	}
	return -1
}

// Equal reports whether a and b are equal under the same case folding the
// scorer uses.
func Equal(a, b string) bool {
	return runesEqual(fold(a), fold(b))
}
