package services

import (
	"math"

	"github.com/clauseguard/clauseguard/pkg/classification"
)

// highRiskConfidence is the floor above which a Non-Standard verdict is
// surfaced as high risk in the batch summary.
const highRiskConfidence = 0.75

// Summary aggregates one batch's verdicts for reporting.
type Summary struct {
	TotalClauses         int     `json:"total_clauses"`
	StandardCount        int     `json:"standard_clauses"`
	NonStandardCount     int     `json:"non_standard_clauses"`
	AmbiguousCount       int     `json:"ambiguous_clauses"`
	FailedCount          int     `json:"failed_clauses"`
	CompliancePercentage float64 `json:"compliance_percentage"`
	AverageConfidence    float64 `json:"average_confidence"`

	// HighRiskSequences lists the sequence numbers of clauses classified
	// Non-Standard with high confidence.
	HighRiskSequences []int `json:"high_risk_sequences"`
}

// BuildSummary computes aggregate statistics over a batch. clauses and
// entries correspond by index.
func BuildSummary(clauses []classification.Clause, entries []BatchEntry) Summary {
	s := Summary{TotalClauses: len(entries), HighRiskSequences: []int{}}

	var confidenceSum float64
	classified := 0
	for i, entry := range entries {
		if entry.Result == nil {
			s.FailedCount++
			continue
		}
		classified++
		confidenceSum += entry.Result.Confidence

		switch entry.Result.Classification {
		case classification.VerdictStandard:
			s.StandardCount++
		case classification.VerdictNonStandard:
			s.NonStandardCount++
			if entry.Result.Confidence > highRiskConfidence {
				s.HighRiskSequences = append(s.HighRiskSequences, clauses[i].Sequence)
			}
		case classification.VerdictAmbiguous:
			s.AmbiguousCount++
		}
	}

	if classified > 0 {
		s.CompliancePercentage = round1(float64(s.StandardCount) / float64(classified) * 100)
		s.AverageConfidence = round3(confidenceSum / float64(classified))
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
