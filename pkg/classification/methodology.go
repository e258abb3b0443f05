package classification

import (
	"context"
	"strings"

	"github.com/clauseguard/clauseguard/pkg/observability"
)

// MethodologyStep flags clauses whose payment-calculation basis differs from
// the template's: a clause priced off billed charges against a template
// priced off a Medicare rate is non-standard even when the wording is close.
//
// Tokens are configured per jurisdiction in match-priority order. The step
// is non-terminal whenever either side yields no clear methodology token.
type MethodologyStep struct {
	tokensByJurisdiction map[string][]string
}

func NewMethodologyStep(tokens map[string][]string) *MethodologyStep {
	return &MethodologyStep{tokensByJurisdiction: tokens}
}

func (s *MethodologyStep) Name() string { return "methodology" }

func (s *MethodologyStep) Evaluate(_ context.Context, in StepInput) StepOutcome {
	tokens := s.tokensByJurisdiction[in.Clause.Jurisdiction]
	if len(tokens) == 0 {
		return nonTerminal()
	}

	clauseToken := extractMethodologyToken(in.ClauseNorm, tokens)
	if clauseToken == "" {
		return nonTerminal()
	}
	templateToken := extractMethodologyToken(in.TemplateNorm, tokens)
	if templateToken == "" {
		return nonTerminal()
	}

	if clauseToken != templateToken {
		observability.Debugf("Methodology mismatch for clause %d: clause=%q template=%q",
			in.Clause.Sequence, clauseToken, templateToken)
		return terminal(VerdictNonStandard, confidenceMethodology, MatchTypeMethodologyMismatch)
	}
	return nonTerminal()
}

// extractMethodologyToken returns the first configured token found in the
// normalized text, or "" when none applies.
func extractMethodologyToken(normText string, tokens []string) string {
	for _, token := range tokens {
		if strings.Contains(normText, strings.ToLower(token)) {
			return token
		}
	}
	return ""
}
