package classification

import "context"

// ExactStep compares the clause and template after case/whitespace
// normalization only. Byte equality here is the strongest possible signal.
type ExactStep struct{}

func (ExactStep) Name() string { return "exact" }

func (ExactStep) Evaluate(_ context.Context, in StepInput) StepOutcome {
	if in.ClauseNorm != "" && in.ClauseNorm == in.TemplateNorm {
		return terminal(VerdictStandard, confidenceExact, MatchTypeExact)
	}
	return nonTerminal()
}

// StructuralStep compares the two sides after full placeholder
// normalization. It captures value substitution ("95%" vs "XX%") while
// requiring the surrounding structure to be identical.
type StructuralStep struct{}

func (StructuralStep) Name() string { return "structural" }

func (StructuralStep) Evaluate(_ context.Context, in StepInput) StepOutcome {
	if in.ClauseStruct != "" && in.ClauseStruct == in.TemplateStruct {
		return terminal(VerdictStandard, confidenceStructural, MatchTypeStructural)
	}
	return nonTerminal()
}
