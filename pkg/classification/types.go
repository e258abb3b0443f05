package classification

import "errors"

// Verdict is the final classification of a clause against its canonical
// template.
type Verdict string

const (
	VerdictStandard    Verdict = "Standard"
	VerdictNonStandard Verdict = "Non-Standard"
	VerdictAmbiguous   Verdict = "Ambiguous"
)

// ErrEmptyClause is returned when a clause has no usable text. The clause
// fails fast; it is never silently classified.
var ErrEmptyClause = errors.New("clause text is empty")

// Clause is one candidate unit of contract text, produced by the upstream
// extraction step. Immutable input to the engine.
type Clause struct {
	Text         string `json:"clause_text"`
	Attribute    string `json:"attribute"`
	Jurisdiction string `json:"jurisdiction"`
	Sequence     int    `json:"sequence"`
}

// StepTrace records one cascade step's outcome. Traces are appended in
// cascade order and never mutated after append.
type StepTrace struct {
	StepName string   `json:"step_name"`
	Passed   bool     `json:"passed"`
	Score    *float64 `json:"score,omitempty"`
}

// Result is the final verdict for one clause, produced exactly once and
// owned by the caller after return.
type Result struct {
	Classification      Verdict     `json:"classification"`
	Confidence          float64     `json:"confidence"`
	MatchedTemplateText string      `json:"matched_template_text,omitempty"`
	SimilarityScore     *float64    `json:"similarity_score,omitempty"`
	MatchType           string      `json:"match_type"`
	Steps               []StepTrace `json:"steps"`
}

// Match type labels identifying which cascade step produced the verdict.
const (
	MatchTypeException           = "exception"
	MatchTypeExact               = "exact"
	MatchTypeStructural          = "structural"
	MatchTypeFuzzy               = "fuzzy"
	MatchTypeSemantic            = "semantic"
	MatchTypeSemanticAmbiguous   = "semantic_ambiguous"
	MatchTypeMethodologyMismatch = "methodology_mismatch"
	MatchTypeUnresolved          = "unresolved"
)

// Confidence is fixed per terminal step; only the semantic ambiguous band
// derives confidence from the similarity score.
const (
	confidenceException   = 0.90
	confidenceExact       = 0.99
	confidenceStructural  = 0.95
	confidenceFuzzy       = 0.90
	confidenceSemantic    = 0.85
	confidenceMethodology = 0.85

	// confidenceUnresolved is the fixed confidence for the Ambiguous default
	// when no step terminates. The engine contract allows anything in
	// [0, 0.5]; 0.30 was chosen so unresolved clauses sort below every
	// semantic-ambiguous clause surfaced for review.
	confidenceUnresolved = 0.30
)
