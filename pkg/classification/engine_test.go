package classification

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauseguard/clauseguard/pkg/config"
	"github.com/clauseguard/clauseguard/pkg/templates"
)

const (
	timelyFilingTemplate = "Claims must be submitted within 120 days of the date of service."
	feeScheduleTemplate  = "Reimbursement shall be XX% of the current fee schedule rate."
)

// stubProvider serves fixed vectors per exact input text.
type stubProvider struct {
	vectors map[string][]float64
	err     error
}

func (p *stubProvider) Embed(_ context.Context, text string) ([]float64, error) {
	if p.err != nil {
		return nil, p.err
	}
	vec, ok := p.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return vec, nil
}

func testEngineConfig() *config.EngineConfig {
	return &config.EngineConfig{
		FuzzyThreshold:    70,
		SemanticThreshold: 0.60,
		AmbiguousLow:      0.50,
		AmbiguousHigh:     0.70,
		ExceptionTokens: []string{
			"except", "unless", "provided that", "subject to",
			"however,", "save that", "notwithstanding", "only if",
		},
		MethodologyTokens: map[string][]string{
			"TN": {"medicare rate", "medicaid rate", "billed charge", "fee schedule"},
		},
		PlaceholderPatterns: []config.PlaceholderPattern{
			{Pattern: `\bxx\s*%`, Token: "PERCENTAGE"},
			{Pattern: `\d+(\.\d+)?\s*%`, Token: "PERCENTAGE"},
			{Pattern: `\d+`, Token: "NUMBER"},
		},
		Templates: []config.TemplateEntry{
			{Jurisdiction: "TN", Attribute: "Timely Filing", Text: timelyFilingTemplate},
			{Jurisdiction: "TN", Attribute: "Fee Schedule", Text: feeScheduleTemplate},
		},
	}
}

func newTestEngine(t *testing.T, provider *stubProvider) *Engine {
	t.Helper()
	cfg := testEngineConfig()
	store, err := templates.NewStore(cfg.Templates)
	require.NoError(t, err)

	var engine *Engine
	if provider == nil {
		engine, err = NewEngine(cfg, store, nil)
	} else {
		engine, err = NewEngine(cfg, store, provider)
	}
	require.NoError(t, err)
	return engine
}

// requireTraceShape checks the audit-trail invariants every result must
// uphold: traces appear in cascade order, the terminal step (if any) is last
// and is the only one marked passed.
func requireTraceShape(t *testing.T, res *Result) {
	t.Helper()
	require.NotEmpty(t, res.Steps)

	passed := 0
	for _, s := range res.Steps {
		if s.Passed {
			passed++
		}
	}
	if res.MatchType == MatchTypeUnresolved {
		assert.Zero(t, passed, "unresolved result must have no passed step")
	} else {
		assert.Equal(t, 1, passed, "exactly one step may pass")
		assert.True(t, res.Steps[len(res.Steps)-1].Passed, "terminal step must be last")
	}
}

func TestClassifyExceptionWins(t *testing.T) {
	engine := newTestEngine(t, nil)

	res, err := engine.Classify(context.Background(), Clause{
		Text:         "Claims must be submitted within 120 days except for emergency services.",
		Attribute:    "Timely Filing",
		Jurisdiction: "TN",
		Sequence:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictNonStandard, res.Classification)
	assert.Equal(t, 0.90, res.Confidence)
	assert.Equal(t, MatchTypeException, res.MatchType)
	assert.Empty(t, res.MatchedTemplateText)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "exception", res.Steps[0].StepName)
	requireTraceShape(t, res)
}

func TestClassifyExactMatch(t *testing.T) {
	engine := newTestEngine(t, nil)

	// Case, whitespace and edge punctuation differences only.
	res, err := engine.Classify(context.Background(), Clause{
		Text:         "CLAIMS   must be submitted within 120 days of the date of service",
		Attribute:    "Timely Filing",
		Jurisdiction: "TN",
		Sequence:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictStandard, res.Classification)
	assert.Equal(t, 0.99, res.Confidence)
	assert.Equal(t, MatchTypeExact, res.MatchType)
	assert.Equal(t, timelyFilingTemplate, res.MatchedTemplateText)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "exact", res.Steps[1].StepName)
	requireTraceShape(t, res)
}

func TestClassifyStructuralMatch(t *testing.T) {
	engine := newTestEngine(t, nil)

	// "95%" and "XX%" converge to the same placeholder token.
	res, err := engine.Classify(context.Background(), Clause{
		Text:         "Reimbursement shall be 95% of the current fee schedule rate.",
		Attribute:    "Fee Schedule",
		Jurisdiction: "TN",
		Sequence:     3,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictStandard, res.Classification)
	assert.Equal(t, 0.95, res.Confidence)
	assert.Equal(t, MatchTypeStructural, res.MatchType)
	assert.Equal(t, feeScheduleTemplate, res.MatchedTemplateText)
	require.Len(t, res.Steps, 3)
	assert.Equal(t, "structural", res.Steps[2].StepName)
	requireTraceShape(t, res)
}

func TestClassifyFuzzyMatch(t *testing.T) {
	engine := newTestEngine(t, nil)

	res, err := engine.Classify(context.Background(), Clause{
		Text:         "Claims shall be filed within 120 days of the date of service.",
		Attribute:    "Timely Filing",
		Jurisdiction: "TN",
		Sequence:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictStandard, res.Classification)
	assert.Equal(t, 0.90, res.Confidence)
	assert.Equal(t, MatchTypeFuzzy, res.MatchType)
	assert.Equal(t, timelyFilingTemplate, res.MatchedTemplateText)
	require.NotNil(t, res.SimilarityScore)
	assert.GreaterOrEqual(t, *res.SimilarityScore, 0.70)
	assert.Less(t, *res.SimilarityScore, 1.0)
	require.Len(t, res.Steps, 4)
	assert.Equal(t, "fuzzy", res.Steps[3].StepName)
	requireTraceShape(t, res)
}

func TestClassifySemantic(t *testing.T) {
	// Rewritten far enough from the template that the lexical steps all
	// fail, leaving the verdict to the embedding comparison.
	const clauseText = "Submission of claims is governed by the timeline in the provider manual."

	clause := Clause{
		Text:         clauseText,
		Attribute:    "Timely Filing",
		Jurisdiction: "TN",
		Sequence:     5,
	}

	t.Run("AtThresholdIsStandard", func(t *testing.T) {
		engine := newTestEngine(t, &stubProvider{vectors: map[string][]float64{
			clauseText:           {3, 4},
			timelyFilingTemplate: {1, 0},
		}})

		res, err := engine.Classify(context.Background(), clause)
		require.NoError(t, err)

		assert.Equal(t, VerdictStandard, res.Classification)
		assert.Equal(t, 0.85, res.Confidence)
		assert.Equal(t, MatchTypeSemantic, res.MatchType)
		assert.Equal(t, timelyFilingTemplate, res.MatchedTemplateText)
		require.NotNil(t, res.SimilarityScore)
		assert.Equal(t, 0.60, *res.SimilarityScore)
		require.Len(t, res.Steps, 5)
		assert.Equal(t, "semantic", res.Steps[4].StepName)
		requireTraceShape(t, res)
	})

	t.Run("MidBandIsAmbiguous", func(t *testing.T) {
		// cos([59,81],[1,0]) = 0.5888, inside [0.50, 0.60)
		engine := newTestEngine(t, &stubProvider{vectors: map[string][]float64{
			clauseText:           {59, 81},
			timelyFilingTemplate: {1, 0},
		}})

		res, err := engine.Classify(context.Background(), clause)
		require.NoError(t, err)

		assert.Equal(t, VerdictAmbiguous, res.Classification)
		assert.Equal(t, MatchTypeSemanticAmbiguous, res.MatchType)
		assert.Equal(t, timelyFilingTemplate, res.MatchedTemplateText)
		require.NotNil(t, res.SimilarityScore)
		assert.InDelta(t, 0.5888, *res.SimilarityScore, 0.001)
		assert.Equal(t, *res.SimilarityScore, res.Confidence,
			"ambiguous confidence is the similarity itself")
		requireTraceShape(t, res)
	})

	t.Run("BelowBandFallsThrough", func(t *testing.T) {
		engine := newTestEngine(t, &stubProvider{vectors: map[string][]float64{
			clauseText:           {1, 3},
			timelyFilingTemplate: {1, 0},
		}})

		res, err := engine.Classify(context.Background(), clause)
		require.NoError(t, err)

		// No methodology tokens on either side, so nothing terminates.
		assert.Equal(t, VerdictAmbiguous, res.Classification)
		assert.Equal(t, 0.30, res.Confidence)
		assert.Equal(t, MatchTypeUnresolved, res.MatchType)
		assert.Empty(t, res.MatchedTemplateText)
		require.Len(t, res.Steps, 6)
		requireTraceShape(t, res)
	})
}

func TestClassifySemanticSkippedOnProviderError(t *testing.T) {
	engine := newTestEngine(t, &stubProvider{err: errors.New("endpoint unreachable")})

	res, err := engine.Classify(context.Background(), Clause{
		Text:         "Submission of claims is governed by the timeline in the provider manual.",
		Attribute:    "Timely Filing",
		Jurisdiction: "TN",
		Sequence:     6,
	})
	require.NoError(t, err)

	// The skipped step leaves no trace; the cascade continues.
	require.Len(t, res.Steps, 5)
	for _, s := range res.Steps {
		assert.NotEqual(t, "semantic", s.StepName)
	}
	assert.Equal(t, VerdictAmbiguous, res.Classification)
	assert.Equal(t, MatchTypeUnresolved, res.MatchType)
}

func TestClassifyMethodologyMismatch(t *testing.T) {
	engine := newTestEngine(t, nil)

	res, err := engine.Classify(context.Background(), Clause{
		Text:         "Payment will be calculated at 100% of billed charges for all covered services.",
		Attribute:    "Fee Schedule",
		Jurisdiction: "TN",
		Sequence:     7,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictNonStandard, res.Classification)
	assert.Equal(t, 0.85, res.Confidence)
	assert.Equal(t, MatchTypeMethodologyMismatch, res.MatchType)
	assert.Empty(t, res.MatchedTemplateText)
	require.Len(t, res.Steps, 5)
	assert.Equal(t, "methodology", res.Steps[4].StepName)
	requireTraceShape(t, res)
}

func TestClassifyEmptyClause(t *testing.T) {
	engine := newTestEngine(t, nil)

	for name, text := range map[string]string{"Empty": "", "WhitespaceOnly": "   \n\t "} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.Classify(context.Background(), Clause{
				Text:         text,
				Attribute:    "Timely Filing",
				Jurisdiction: "TN",
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyClause))
		})
	}
}

func TestClassifyMissingTemplate(t *testing.T) {
	engine := newTestEngine(t, nil)

	_, err := engine.Classify(context.Background(), Clause{
		Text:         "Some clause text.",
		Attribute:    "No Such Attribute",
		Jurisdiction: "TN",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, templates.ErrMissingTemplate))
}

func TestClassifyDeterministic(t *testing.T) {
	const clauseText = "Submission of claims is governed by the timeline in the provider manual."
	engine := newTestEngine(t, &stubProvider{vectors: map[string][]float64{
		clauseText:           {59, 81},
		timelyFilingTemplate: {1, 0},
	}})

	clause := Clause{
		Text:         clauseText,
		Attribute:    "Timely Filing",
		Jurisdiction: "TN",
		Sequence:     8,
	}

	first, err := engine.Classify(context.Background(), clause)
	require.NoError(t, err)
	second, err := engine.Classify(context.Background(), clause)
	require.NoError(t, err)

	require.Equal(t, first.Classification, second.Classification)
	require.Equal(t, first.Confidence, second.Confidence)
	require.Equal(t, first.MatchType, second.MatchType)
	require.Equal(t, len(first.Steps), len(second.Steps))
	for i := range first.Steps {
		assert.Equal(t, first.Steps[i].StepName, second.Steps[i].StepName)
		assert.Equal(t, first.Steps[i].Passed, second.Steps[i].Passed)
	}
}

func TestEngineTemplateCount(t *testing.T) {
	engine := newTestEngine(t, nil)
	assert.Equal(t, 2, engine.TemplateCount())
}
