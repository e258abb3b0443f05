package classification

import (
	"context"

	"github.com/clauseguard/clauseguard/pkg/templates"
)

// StepInput carries one clause, its canonical template, and the precomputed
// normalized forms shared by the cascade steps. Forms are computed once per
// classification call so every step sees identical bytes.
type StepInput struct {
	Clause   Clause
	Template templates.Template

	// Case/whitespace normalization only
	ClauseNorm   string
	TemplateNorm string

	// Full placeholder normalization
	ClauseStruct   string
	TemplateStruct string
}

// StepOutcome is what one cascade step reports back to the orchestrator.
type StepOutcome struct {
	// Executed is false when the step was skipped entirely (embedding
	// provider unavailable). Skipped steps leave no trace.
	Executed bool

	// Terminal stops the cascade with the verdict below.
	Terminal   bool
	Verdict    Verdict
	Confidence float64
	MatchType  string

	// Score, when set, is recorded in the step trace and, for terminal
	// outcomes, surfaced as the result's similarity score.
	Score *float64
}

// Step is one stage of the classification cascade. Steps are stateless with
// respect to individual calls and safe for concurrent use; all tunables are
// bound at construction from the immutable configuration bundle.
type Step interface {
	Name() string
	Evaluate(ctx context.Context, in StepInput) StepOutcome
}

func nonTerminal() StepOutcome {
	return StepOutcome{Executed: true}
}

func terminal(v Verdict, confidence float64, matchType string) StepOutcome {
	return StepOutcome{
		Executed:   true,
		Terminal:   true,
		Verdict:    v,
		Confidence: confidence,
		MatchType:  matchType,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
