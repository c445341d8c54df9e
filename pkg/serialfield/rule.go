package serialfield

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/rules"
)

// Rule is one row of a pattern list. Options is nil until the row is
// configured.
type Rule struct {
	Type    rules.Kind     `json:"type" yaml:"type"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Patterns is the ordered rule list persisted on the field.
type Patterns []Rule

// Clone returns a deep copy of the list (options maps are copied one level).
func (p Patterns) Clone() Patterns {
	if p == nil {
		return nil
	}
	out := make(Patterns, len(p))
	for i, rule := range p {
		out[i] = Rule{Type: rule.Type, Options: cloneOptions(rule.Options)}
	}
	return out
}

func cloneOptions(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Issue reports a pattern row that breaks the catalog invariants.
type Issue struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("patterns[%d]: %s", i.Index, i.Message)
}

// Check reports rows whose type is not in catalog or whose options carry
// keys the type does not declare.
func Check(patterns Patterns, catalog *rules.Catalog) []Issue {
	var issues []Issue
	for idx, rule := range patterns {
		if _, ok := catalog.Lookup(rule.Type); !ok {
			issues = append(issues, Issue{Index: idx, Message: fmt.Sprintf("unknown rule type %q", rule.Type)})
			continue
		}
		for _, key := range catalog.UnknownKeys(rule.Type, rule.Options) {
			issues = append(issues, Issue{Index: idx, Message: fmt.Sprintf("option %q is not declared by %q", key, rule.Type)})
		}
	}
	return issues
}

// OptionsCell renders the "rule content" column for a row. Unknown types
// render nothing.
func OptionsCell(rule Rule, catalog *rules.Catalog, locale string, t i18n.Translator) []rules.OptionSummary {
	return catalog.Summarize(rule.Type, rule.Options, locale, t)
}
