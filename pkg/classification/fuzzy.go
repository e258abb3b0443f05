package classification

import (
	"context"
	"math"
)

// FuzzyStep computes an edit-distance similarity ratio (0-100) between the
// placeholder-normalized clause and template. The threshold is inclusive.
type FuzzyStep struct {
	threshold int
}

func NewFuzzyStep(threshold int) *FuzzyStep {
	return &FuzzyStep{threshold: threshold}
}

func (s *FuzzyStep) Name() string { return "fuzzy" }

func (s *FuzzyStep) Evaluate(_ context.Context, in StepInput) StepOutcome {
	ratio := Ratio(in.ClauseStruct, in.TemplateStruct)
	score := floatPtr(float64(ratio) / 100.0)

	if ratio >= s.threshold {
		out := terminal(VerdictStandard, confidenceFuzzy, MatchTypeFuzzy)
		out.Score = score
		return out
	}

	out := nonTerminal()
	out.Score = score
	return out
}

// Ratio is the normalized lexical similarity of two strings as an integer
// percentage: 100 means identical, 0 means nothing in common. It is derived
// from the Levenshtein distance over the longer string's length, rounded to
// the nearest integer.
func Ratio(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}
	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshteinDistance(s1, s2)
	return int(math.Round(100 * float64(maxLen-dist) / float64(maxLen)))
}

// levenshteinDistance calculates the edit distance between two strings.
// Uses Wagner-Fischer dynamic programming approach with O(m*n) time complexity.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Optimize space to O(min(m,n))
	if len1 > len2 {
		r1, r2 = r2, r1
		len1, len2 = len2, len1
	}

	prev := make([]int, len1+1)
	curr := make([]int, len1+1)

	for i := 0; i <= len1; i++ {
		prev[i] = i
	}

	for j := 1; j <= len2; j++ {
		curr[0] = j
		for i := 1; i <= len1; i++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[i] = min(prev[i]+1, min(curr[i-1]+1, prev[i-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len1]
}
