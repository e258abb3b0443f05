package templates

import (
	"errors"
	"fmt"
	"sort"

	"github.com/clauseguard/clauseguard/pkg/config"
	"github.com/clauseguard/clauseguard/pkg/observability"
)

// ErrMissingTemplate is returned when no canonical template exists for a
// (jurisdiction, attribute) pair. This is fatal for that clause's
// classification and is propagated to the caller, never defaulted.
var ErrMissingTemplate = errors.New("no template for jurisdiction/attribute pair")

// Template is the canonical gold-standard text for one attribute in one
// jurisdiction.
type Template struct {
	Jurisdiction string
	Attribute    string
	Text         string
}

type key struct {
	jurisdiction string
	attribute    string
}

// Store is an immutable mapping from (jurisdiction, attribute) to the
// canonical clause text, built once at startup from configuration.
type Store struct {
	templates map[key]Template
}

// NewStore builds the store from configuration entries. Duplicates are
// rejected: exactly one canonical template exists per pair.
func NewStore(entries []config.TemplateEntry) (*Store, error) {
	m := make(map[key]Template, len(entries))
	for _, e := range entries {
		k := key{jurisdiction: e.Jurisdiction, attribute: e.Attribute}
		if _, dup := m[k]; dup {
			return nil, fmt.Errorf("duplicate template for %s/%s", e.Jurisdiction, e.Attribute)
		}
		m[k] = Template{
			Jurisdiction: e.Jurisdiction,
			Attribute:    e.Attribute,
			Text:         e.Text,
		}
	}
	observability.Infof("Template store loaded: %d templates", len(m))
	return &Store{templates: m}, nil
}

// Lookup returns the canonical template for the pair, or ErrMissingTemplate.
func (s *Store) Lookup(jurisdiction, attribute string) (Template, error) {
	t, ok := s.templates[key{jurisdiction: jurisdiction, attribute: attribute}]
	if !ok {
		return Template{}, fmt.Errorf("%w: jurisdiction=%q attribute=%q", ErrMissingTemplate, jurisdiction, attribute)
	}
	return t, nil
}

// Len reports the number of loaded templates.
func (s *Store) Len() int {
	return len(s.templates)
}

// Jurisdictions returns the distinct jurisdictions with at least one
// template, sorted.
func (s *Store) Jurisdictions() []string {
	seen := make(map[string]bool)
	for k := range s.templates {
		seen[k.jurisdiction] = true
	}
	out := make([]string, 0, len(seen))
	for j := range seen {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}
