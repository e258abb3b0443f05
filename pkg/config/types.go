package config

// EngineConfig is the full configuration bundle for the clause classification
// engine. It is loaded once at startup and treated as immutable for the
// lifetime of a classification batch; reconfiguration goes through Replace
// with a freshly parsed bundle, never partial mutation.
type EngineConfig struct {
	// Thresholds for the fuzzy and semantic cascade steps
	FuzzyThreshold    int     `yaml:"fuzzy_threshold"`    // 0-100, inclusive lower bound
	SemanticThreshold float64 `yaml:"semantic_threshold"` // 0-1
	AmbiguousLow      float64 `yaml:"ambiguous_low"`      // 0-1
	AmbiguousHigh     float64 `yaml:"ambiguous_high"`     // 0-1, reporting bound only

	// ExceptionTokens are words or phrases signaling a conditional carve-out.
	// Any match makes the clause Non-Standard regardless of later steps.
	ExceptionTokens []string `yaml:"exception_tokens"`

	// MethodologyTokens maps a jurisdiction to the payment-methodology
	// vocabulary used by the mismatch detector, in match-priority order.
	MethodologyTokens map[string][]string `yaml:"methodology_tokens"`

	// PlaceholderPatterns rewrite variable substrings to fixed tokens before
	// structural comparison. Patterns apply in list order, first-match-wins
	// per character span.
	PlaceholderPatterns []PlaceholderPattern `yaml:"placeholder_patterns"`

	// Templates holds the canonical clause text per (jurisdiction, attribute).
	Templates []TemplateEntry `yaml:"templates"`

	// Embedding configures the semantic similarity provider. Optional: when
	// absent the semantic step is skipped.
	Embedding EmbeddingConfig `yaml:"embedding"`

	// BatchWorkers bounds concurrent clause classification in the service layer.
	BatchWorkers int `yaml:"batch_workers"`
}

// PlaceholderPattern is one pattern -> token rewrite rule.
type PlaceholderPattern struct {
	Pattern string `yaml:"pattern"`
	Token   string `yaml:"token"`
}

// TemplateEntry is the canonical gold-standard text for one attribute in one
// jurisdiction. Exactly one entry may exist per (jurisdiction, attribute).
type TemplateEntry struct {
	Jurisdiction string `yaml:"jurisdiction"`
	Attribute    string `yaml:"attribute"`
	Text         string `yaml:"text"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding endpoint.
type EmbeddingConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Defaults applied when the corresponding field is absent from the file.
const (
	DefaultFuzzyThreshold    = 70
	DefaultSemanticThreshold = 0.60
	DefaultAmbiguousLow      = 0.50
	DefaultAmbiguousHigh     = 0.70
	DefaultBatchWorkers      = 8
)

func (c *EngineConfig) applyDefaults() {
	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if c.SemanticThreshold == 0 {
		c.SemanticThreshold = DefaultSemanticThreshold
	}
	if c.AmbiguousLow == 0 {
		c.AmbiguousLow = DefaultAmbiguousLow
	}
	if c.AmbiguousHigh == 0 {
		c.AmbiguousHigh = DefaultAmbiguousHigh
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = DefaultBatchWorkers
	}
	if c.Embedding.TimeoutSeconds == 0 {
		c.Embedding.TimeoutSeconds = 10
	}
}
