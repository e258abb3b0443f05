package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clauseguard/clauseguard/pkg/config"
)

// edgePunctuation is trimmed from the ends of a clause before comparison.
// Interior punctuation is preserved: it carries structure.
const edgePunctuation = " \t\n.,;:!?\"'`*-_()[]{}"

var whitespaceRegex = regexp.MustCompile(`\s+`)

// placeholderRule is one compiled pattern -> token rewrite.
type placeholderRule struct {
	re    *regexp.Regexp
	token string
}

// Normalizer rewrites clause text into the canonical forms the matchers
// compare. It is total and deterministic: the same input always yields
// byte-identical output, and no input can make it fail.
type Normalizer struct {
	rules []placeholderRule
}

// New compiles the ordered placeholder pattern list. Patterns are matched
// case-insensitively; a pattern that does not compile is a configuration
// error surfaced at construction, never during classification.
func New(patterns []config.PlaceholderPattern) (*Normalizer, error) {
	rules := make([]placeholderRule, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("placeholder pattern %d (%q): %w", i, p.Pattern, err)
		}
		rules = append(rules, placeholderRule{re: re, token: p.Token})
	}
	return &Normalizer{rules: rules}, nil
}

// Normalize lowercases, collapses whitespace runs to a single space, and
// strips leading/trailing punctuation noise.
func (n *Normalizer) Normalize(text string) string {
	lowered := strings.ToLower(text)
	collapsed := whitespaceRegex.ReplaceAllString(lowered, " ")
	return strings.Trim(collapsed, edgePunctuation)
}

// segment is a run of text that is either still open to rewriting or locked
// because an earlier pattern already claimed it.
type segment struct {
	text   string
	locked bool
}

// ApplyPlaceholders normalizes the text and then applies the placeholder
// patterns in list order. Each pattern rewrites all of its non-overlapping
// matches to its token; once a span is rewritten it is locked and later
// patterns never reconsider it (first-match-wins per character span).
func (n *Normalizer) ApplyPlaceholders(text string) string {
	segments := []segment{{text: n.Normalize(text)}}

	for _, rule := range n.rules {
		next := make([]segment, 0, len(segments))
		for _, seg := range segments {
			if seg.locked {
				next = append(next, seg)
				continue
			}
			next = append(next, rewriteSegment(seg.text, rule)...)
		}
		segments = next
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.text)
	}
	return b.String()
}

// rewriteSegment splits one open segment around the rule's matches, locking
// the rewritten spans.
func rewriteSegment(text string, rule placeholderRule) []segment {
	locs := rule.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []segment{{text: text}}
	}

	out := make([]segment, 0, len(locs)*2+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			out = append(out, segment{text: text[prev:loc[0]]})
		}
		out = append(out, segment{text: rule.token, locked: true})
		prev = loc[1]
	}
	if prev < len(text) {
		out = append(out, segment{text: text[prev:]})
	}
	return out
}
