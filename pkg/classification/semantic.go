package classification

import (
	"context"
	"math"

	"github.com/clauseguard/clauseguard/pkg/embedding"
	"github.com/clauseguard/clauseguard/pkg/observability"
	"github.com/clauseguard/clauseguard/pkg/observability/metrics"
)

// SemanticStep compares clause and template in embedding space. It is the
// only step whose confidence derives from the score instead of being fixed.
//
// The step is never fatal: any provider failure (including a caller-imposed
// timeout) skips the step and the cascade proceeds to methodology detection.
type SemanticStep struct {
	provider     embedding.Provider
	threshold    float64
	ambiguousLow float64
}

func NewSemanticStep(provider embedding.Provider, threshold, ambiguousLow float64) *SemanticStep {
	return &SemanticStep{
		provider:     provider,
		threshold:    threshold,
		ambiguousLow: ambiguousLow,
	}
}

func (s *SemanticStep) Name() string { return "semantic" }

func (s *SemanticStep) Evaluate(ctx context.Context, in StepInput) StepOutcome {
	if s.provider == nil {
		return StepOutcome{}
	}

	clauseVec, err := s.provider.Embed(ctx, in.Clause.Text)
	if err != nil {
		observability.Warnf("Semantic step skipped for clause %d: %v", in.Clause.Sequence, err)
		metrics.RecordEmbeddingSkip()
		return StepOutcome{}
	}
	templateVec, err := s.provider.Embed(ctx, in.Template.Text)
	if err != nil {
		observability.Warnf("Semantic step skipped for clause %d: %v", in.Clause.Sequence, err)
		metrics.RecordEmbeddingSkip()
		return StepOutcome{}
	}

	// Cosine similarity lands in [-1,1]; policy operates on [0,1].
	similarity := CosineSimilarity(clauseVec, templateVec)
	if similarity < 0 {
		similarity = 0
	} else if similarity > 1 {
		similarity = 1
	}
	score := floatPtr(similarity)

	switch {
	case similarity >= s.threshold:
		out := terminal(VerdictStandard, confidenceSemantic, MatchTypeSemantic)
		out.Score = score
		return out
	case similarity >= s.ambiguousLow:
		out := terminal(VerdictAmbiguous, similarity, MatchTypeSemanticAmbiguous)
		out.Score = score
		return out
	default:
		out := nonTerminal()
		out.Score = score
		return out
	}
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
