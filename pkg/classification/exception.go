package classification

import (
	"context"
	"fmt"
	"regexp"
	"unicode"

	"github.com/clauseguard/clauseguard/pkg/observability"
)

// ExceptionStep scans the raw clause text for conditional/carve-out language.
// It runs first and is never overridden: a carve-out is non-standard no
// matter how closely the unconditional portion matches the template.
type ExceptionStep struct {
	tokens   []string
	compiled []*regexp.Regexp
}

// NewExceptionStep compiles the configured exception tokens into
// case-insensitive, word-boundary matchers. Boundaries are only anchored
// against word characters so tokens ending in punctuation ("however,")
// still match.
func NewExceptionStep(tokens []string) (*ExceptionStep, error) {
	s := &ExceptionStep{tokens: tokens}
	for _, token := range tokens {
		pattern := "(?i)" + regexp.QuoteMeta(token)
		runes := []rune(token)
		if len(runes) > 0 && isWordRune(runes[0]) {
			pattern = "(?i)\\b" + regexp.QuoteMeta(token)
		}
		if len(runes) > 0 && isWordRune(runes[len(runes)-1]) {
			pattern += "\\b"
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exception token %q: %w", token, err)
		}
		s.compiled = append(s.compiled, re)
	}
	return s, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *ExceptionStep) Name() string { return "exception" }

func (s *ExceptionStep) Evaluate(_ context.Context, in StepInput) StepOutcome {
	for i, re := range s.compiled {
		if re.MatchString(in.Clause.Text) {
			observability.Debugf("Exception token %q found in clause %d", s.tokens[i], in.Clause.Sequence)
			return terminal(VerdictNonStandard, confidenceException, MatchTypeException)
		}
	}
	return nonTerminal()
}
