package rules

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/uischema"
)

// Catalog is an immutable, ordered set of rule types.
type Catalog struct {
	types  []RuleType
	byKind map[Kind]RuleType
}

var defaultCatalog = NewCatalog(FixedText{}, Autoincrement{}, DateStamp{})

// DefaultCatalog returns the built-in catalog: fixed text, autoincrement and
// date, in that order.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NewCatalog builds a catalog from types. Later duplicates of a kind are
// ignored.
func NewCatalog(types ...RuleType) *Catalog {
	c := &Catalog{byKind: make(map[Kind]RuleType, len(types))}
	for _, rt := range types {
		if rt == nil {
			continue
		}
		if _, exists := c.byKind[rt.Kind()]; exists {
			continue
		}
		c.byKind[rt.Kind()] = rt
		c.types = append(c.types, rt)
	}
	return c
}

// Lookup returns the rule type for kind.
func (c *Catalog) Lookup(kind Kind) (RuleType, bool) {
	if c == nil {
		return nil, false
	}
	rt, ok := c.byKind[kind]
	return rt, ok
}

// Types returns the rule types in declaration order.
func (c *Catalog) Types() []RuleType {
	if c == nil {
		return nil
	}
	return append([]RuleType(nil), c.types...)
}

// Kinds returns the registered kinds in declaration order.
func (c *Catalog) Kinds() []Kind {
	if c == nil {
		return nil
	}
	out := make([]Kind, 0, len(c.types))
	for _, rt := range c.types {
		out = append(out, rt.Kind())
	}
	return out
}

// Enum lists the type select choices in the order the field editor shows
// them: autoincrement first.
func Enum() []model.EnumOption {
	return []model.EnumOption{
		{Label: i18n.Expr("Autoincrement"), Value: string(KindInteger)},
		{Label: i18n.Expr("Fixed text"), Value: string(KindString)},
		{Label: i18n.Expr("Date"), Value: string(KindDate)},
	}
}

// Defaults returns the default option values declared by the kind's fieldset.
func (c *Catalog) Defaults(kind Kind) map[string]any {
	rt, ok := c.Lookup(kind)
	if !ok {
		return nil
	}
	out := make(map[string]any)
	for _, field := range rt.Fieldset() {
		if field.HasDefault {
			out[field.Name] = field.Default
		}
	}
	return out
}

// Panel returns the configuration panel schema for kind: an object rendered
// as a fieldset whose properties are the kind's option fields.
func (c *Catalog) Panel(kind Kind) (uischema.Schema, bool) {
	rt, ok := c.Lookup(kind)
	if !ok {
		return uischema.Schema{}, false
	}
	props := uischema.FromFields(rt.Fieldset())
	for i := range props {
		props[i].Schema.Title = i18n.Expr(props[i].Schema.Title)
	}
	return uischema.Schema{
		Type:       string(model.FieldTypeObject),
		Component:  "fieldset",
		Properties: props,
	}, true
}

// OptionSummary is one rendered option of a rule row.
type OptionSummary struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

// Summarize renders the options of a row in fieldset order. Keys without a
// renderer or field are skipped. Unknown kinds render nothing.
func (c *Catalog) Summarize(kind Kind, options map[string]any, locale string, t i18n.Translator) []OptionSummary {
	rt, ok := c.Lookup(kind)
	if !ok || len(options) == 0 {
		return nil
	}
	var out []OptionSummary
	for _, field := range rt.Fieldset() {
		value, present := options[field.Name]
		if !present {
			continue
		}
		display, ok := rt.Render(field.Name, value)
		if !ok {
			continue
		}
		text := display.Message
		if !display.Literal {
			text = i18n.T(t, locale, display.Message, display.Args)
		}
		out = append(out, OptionSummary{
			Key:   field.Name,
			Title: i18n.T(t, locale, field.Title),
			Text:  text,
			HTML:  renderHTML(text, display.Code),
		})
	}
	return out
}

var (
	summaryPolicyOnce sync.Once
	summaryPolicy     *bluemonday.Policy
)

func renderHTML(text string, code bool) string {
	tag := "span"
	if code {
		tag = "code"
	}
	markup := fmt.Sprintf("<%s>%s</%s>", tag, html.EscapeString(text), tag)
	return strings.TrimSpace(summarySanitizer().Sanitize(markup))
}

func summarySanitizer() *bluemonday.Policy {
	summaryPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("code", "span")
		summaryPolicy = policy
	})
	return summaryPolicy
}
