package config

import (
	"fmt"
	"regexp"
	"strings"
)

// validateConfigStructure performs structural validation on the parsed config.
// Any error here is fatal at load time: classification never starts with a
// partially valid bundle.
func validateConfigStructure(cfg *EngineConfig) error {
	if cfg.FuzzyThreshold < 0 || cfg.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy_threshold must be in [0,100], got %d", cfg.FuzzyThreshold)
	}
	if cfg.SemanticThreshold < 0 || cfg.SemanticThreshold > 1 {
		return fmt.Errorf("semantic_threshold must be in [0,1], got %.3f", cfg.SemanticThreshold)
	}
	if cfg.AmbiguousLow < 0 || cfg.AmbiguousLow > 1 {
		return fmt.Errorf("ambiguous_low must be in [0,1], got %.3f", cfg.AmbiguousLow)
	}
	if cfg.AmbiguousHigh < 0 || cfg.AmbiguousHigh > 1 {
		return fmt.Errorf("ambiguous_high must be in [0,1], got %.3f", cfg.AmbiguousHigh)
	}
	if cfg.AmbiguousLow > cfg.SemanticThreshold {
		return fmt.Errorf("ambiguous_low (%.3f) must not exceed semantic_threshold (%.3f)",
			cfg.AmbiguousLow, cfg.SemanticThreshold)
	}
	if cfg.BatchWorkers < 1 {
		return fmt.Errorf("batch_workers must be positive, got %d", cfg.BatchWorkers)
	}

	for i, p := range cfg.PlaceholderPatterns {
		if strings.TrimSpace(p.Pattern) == "" {
			return fmt.Errorf("placeholder_patterns[%d]: pattern cannot be empty", i)
		}
		if strings.TrimSpace(p.Token) == "" {
			return fmt.Errorf("placeholder_patterns[%d]: token cannot be empty", i)
		}
		if _, err := regexp.Compile("(?i)" + p.Pattern); err != nil {
			return fmt.Errorf("placeholder_patterns[%d]: invalid pattern %q: %w", i, p.Pattern, err)
		}
	}

	for i, token := range cfg.ExceptionTokens {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("exception_tokens[%d]: token cannot be empty", i)
		}
	}

	for jurisdiction, tokens := range cfg.MethodologyTokens {
		if strings.TrimSpace(jurisdiction) == "" {
			return fmt.Errorf("methodology_tokens: jurisdiction key cannot be empty")
		}
		for i, token := range tokens {
			if strings.TrimSpace(token) == "" {
				return fmt.Errorf("methodology_tokens[%s][%d]: token cannot be empty", jurisdiction, i)
			}
		}
	}

	if len(cfg.Templates) == 0 {
		return fmt.Errorf("at least one template must be configured")
	}
	seen := make(map[string]bool, len(cfg.Templates))
	for i, t := range cfg.Templates {
		if strings.TrimSpace(t.Jurisdiction) == "" {
			return fmt.Errorf("templates[%d]: jurisdiction cannot be empty", i)
		}
		if strings.TrimSpace(t.Attribute) == "" {
			return fmt.Errorf("templates[%d]: attribute cannot be empty", i)
		}
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("templates[%d] (%s/%s): text cannot be empty", i, t.Jurisdiction, t.Attribute)
		}
		key := t.Jurisdiction + "\x00" + t.Attribute
		if seen[key] {
			return fmt.Errorf("duplicate template for jurisdiction %q, attribute %q: exactly one canonical template is allowed per pair",
				t.Jurisdiction, t.Attribute)
		}
		seen[key] = true
	}

	return nil
}
