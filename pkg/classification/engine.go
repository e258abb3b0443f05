package classification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clauseguard/clauseguard/pkg/config"
	"github.com/clauseguard/clauseguard/pkg/embedding"
	"github.com/clauseguard/clauseguard/pkg/normalize"
	"github.com/clauseguard/clauseguard/pkg/observability"
	"github.com/clauseguard/clauseguard/pkg/observability/metrics"
	"github.com/clauseguard/clauseguard/pkg/templates"
)

// Engine runs the classification cascade for one clause at a time. It is a
// pure, synchronous computation: no shared mutable state across calls, so a
// single Engine serves any number of concurrent callers.
//
// The cascade order is fixed: exception, exact, structural, fuzzy, semantic,
// methodology. The first terminal outcome wins; when nothing terminates the
// clause is Ambiguous with match type "unresolved".
type Engine struct {
	store      *templates.Store
	normalizer *normalize.Normalizer
	steps      []Step
}

// NewEngine wires the cascade from an immutable configuration bundle. The
// embedding provider may be nil, in which case the semantic step is skipped
// for every clause.
func NewEngine(cfg *config.EngineConfig, store *templates.Store, provider embedding.Provider) (*Engine, error) {
	normalizer, err := normalize.New(cfg.PlaceholderPatterns)
	if err != nil {
		return nil, fmt.Errorf("building normalizer: %w", err)
	}

	exception, err := NewExceptionStep(cfg.ExceptionTokens)
	if err != nil {
		return nil, fmt.Errorf("building exception step: %w", err)
	}

	return &Engine{
		store:      store,
		normalizer: normalizer,
		steps: []Step{
			exception,
			ExactStep{},
			StructuralStep{},
			NewFuzzyStep(cfg.FuzzyThreshold),
			NewSemanticStep(provider, cfg.SemanticThreshold, cfg.AmbiguousLow),
			NewMethodologyStep(cfg.MethodologyTokens),
		},
	}, nil
}

// Classify classifies one clause against its canonical template. The two
// failure modes are a missing template (templates.ErrMissingTemplate) and
// empty clause text (ErrEmptyClause); both propagate to the caller with no
// substitute verdict.
func (e *Engine) Classify(ctx context.Context, clause Clause) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(clause.Text) == "" {
		return nil, fmt.Errorf("%w: sequence=%d", ErrEmptyClause, clause.Sequence)
	}

	template, err := e.store.Lookup(clause.Jurisdiction, clause.Attribute)
	if err != nil {
		return nil, err
	}

	in := StepInput{
		Clause:         clause,
		Template:       template,
		ClauseNorm:     e.normalizer.Normalize(clause.Text),
		TemplateNorm:   e.normalizer.Normalize(template.Text),
		ClauseStruct:   e.normalizer.ApplyPlaceholders(clause.Text),
		TemplateStruct: e.normalizer.ApplyPlaceholders(template.Text),
	}

	result := &Result{}
	for _, step := range e.steps {
		outcome := step.Evaluate(ctx, in)
		if !outcome.Executed {
			continue
		}

		result.Steps = append(result.Steps, StepTrace{
			StepName: step.Name(),
			Passed:   outcome.Terminal,
			Score:    outcome.Score,
		})

		if outcome.Terminal {
			result.Classification = outcome.Verdict
			result.Confidence = outcome.Confidence
			result.MatchType = outcome.MatchType
			result.SimilarityScore = outcome.Score
			if outcome.Verdict == VerdictStandard || outcome.MatchType == MatchTypeSemanticAmbiguous {
				result.MatchedTemplateText = template.Text
			}
			e.finish(clause, result, start)
			return result, nil
		}
	}

	// No step terminated: too divergent for a match, not divergent enough
	// for a confident Non-Standard. Route to human review.
	result.Classification = VerdictAmbiguous
	result.Confidence = confidenceUnresolved
	result.MatchType = MatchTypeUnresolved
	e.finish(clause, result, start)
	return result, nil
}

func (e *Engine) finish(clause Clause, result *Result, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordClassification(clause.Jurisdiction, clause.Attribute,
		string(result.Classification), result.MatchType, elapsed.Seconds())
	observability.Debugf("Classified clause %d (%s/%s): %s via %s in %v",
		clause.Sequence, clause.Jurisdiction, clause.Attribute,
		result.Classification, result.MatchType, elapsed)
}

// TemplateCount reports how many templates the engine can classify against.
func (e *Engine) TemplateCount() int {
	return e.store.Len()
}
