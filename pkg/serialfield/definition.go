package serialfield

import (
	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/uischema"
)

// Component names the field editor registers with the host renderer.
const (
	ComponentRuleTypeSelect  = "RuleTypeSelect"
	ComponentRuleOptionsCell = "RuleOptionsCell"
	ComponentRuleConfigForm  = "RuleConfigForm"
)

// FieldName is the interface name of the serial string field type.
const FieldName = "serialString"

// DefaultValue is the column template a new serial string field starts from.
type DefaultValue struct {
	Type     string          `json:"type"`
	UISchema uischema.Schema `json:"uiSchema"`
}

// Operator is a filter operator offered for the field.
type Operator struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	NoValue bool   `json:"noValue,omitempty"`
}

// Filterable lists the filter operators of the field.
type Filterable struct {
	Operators []Operator `json:"operators"`
}

// Definition is the field type descriptor consumed by the schema-driven
// collection editor.
type Definition struct {
	Name            string              `json:"name"`
	Type            string              `json:"type"`
	Group           string              `json:"group"`
	Order           int                 `json:"order"`
	Title           string              `json:"title"`
	Sortable        bool                `json:"sortable"`
	Default         DefaultValue        `json:"default"`
	HasDefaultValue bool                `json:"hasDefaultValue"`
	Properties      uischema.Properties `json:"properties"`
	Filterable      Filterable          `json:"filterable"`
}

// NewDefinition assembles the serial string field type around catalog.
func NewDefinition(catalog *rules.Catalog) Definition {
	if catalog == nil {
		catalog = rules.DefaultCatalog()
	}
	props := append(defaultProps(), uischema.Property{Name: "unique", Schema: uniqueProp()})
	props = append(props, uischema.Property{Name: "patterns", Schema: patternsProp(catalog)})
	return Definition{
		Name:     FieldName,
		Type:     string(model.FieldTypeObject),
		Group:    "advanced",
		Order:    2,
		Title:    i18n.Expr("Serial string"),
		Sortable: true,
		Default: DefaultValue{
			Type: string(model.FieldTypeString),
			UISchema: uischema.Schema{
				Type:      string(model.FieldTypeString),
				Component: "code",
			},
		},
		HasDefaultValue: false,
		Properties:      props,
		Filterable:      Filterable{Operators: StringOperators()},
	}
}

// StringOperators are the filter operators shared by text-like fields.
func StringOperators() []Operator {
	return []Operator{
		{Label: i18n.Expr("contains"), Value: "$includes"},
		{Label: i18n.Expr("does not contain"), Value: "$notIncludes"},
		{Label: i18n.Expr("is"), Value: "$eq"},
		{Label: i18n.Expr("is not"), Value: "$ne"},
		{Label: i18n.Expr("is empty"), Value: "$empty", NoValue: true},
		{Label: i18n.Expr("is not empty"), Value: "$notEmpty", NoValue: true},
	}
}

func defaultProps() uischema.Properties {
	return uischema.Properties{
		{Name: "uiSchema.title", Schema: uischema.Schema{
			Type:      string(model.FieldTypeString),
			Title:     i18n.Expr("Field display name"),
			Required:  true,
			Decorator: "FormItem",
			Component: "Input",
		}},
		{Name: "name", Schema: uischema.Schema{
			Type:        string(model.FieldTypeString),
			Title:       i18n.Expr("Field name"),
			Required:    true,
			Description: i18n.Expr("Randomly generated and can be modified. Support letters, numbers and underscores, must start with an letter."),
			Decorator:   "FormItem",
			Component:   "Input",
		}},
	}
}

func uniqueProp() uischema.Schema {
	return uischema.Schema{
		Type:      string(model.FieldTypeBoolean),
		Content:   i18n.Expr("Unique"),
		Decorator: "FormItem",
		Component: "Checkbox",
	}
}

func column(title string, extra map[string]any, children uischema.Properties) uischema.Schema {
	props := map[string]any{"title": title}
	for k, v := range extra {
		props[k] = v
	}
	return uischema.Schema{
		Type:           string(model.FieldTypeVoid),
		Component:      "ArrayTable.Column",
		ComponentProps: props,
		Properties:     children,
	}
}

func patternsProp(catalog *rules.Catalog) uischema.Schema {
	enum := rules.Enum()
	filtered := enum[:0:0]
	for _, option := range enum {
		if _, ok := catalog.Lookup(rules.Kind(option.Value.(string))); ok {
			filtered = append(filtered, option)
		}
	}

	item := uischema.Schema{
		Type: string(model.FieldTypeObject),
		Properties: uischema.Properties{
			{Name: "sort", Schema: column("", map[string]any{"width": 50, "align": "center"}, uischema.Properties{
				{Name: "sort", Schema: uischema.Schema{Type: string(model.FieldTypeVoid), Component: "ArrayTable.SortHandle"}},
			})},
			{Name: "type", Schema: column(i18n.Expr("Type"), nil, uischema.Properties{
				{Name: "type", Schema: uischema.Schema{
					Type:      string(model.FieldTypeString),
					Required:  true,
					Decorator: "FormItem",
					Component: ComponentRuleTypeSelect,
					Enum:      filtered,
				}},
			})},
			{Name: "options", Schema: column(i18n.Expr("Rule content"), nil, uischema.Properties{
				{Name: "options", Schema: uischema.Schema{
					Type:      string(model.FieldTypeObject),
					Component: ComponentRuleOptionsCell,
					Reactions: []uischema.Reaction{{
						Dependencies: []string{".type"},
						When:         "{{$deps[0]}}",
						Fulfill:      map[string]any{"state": map[string]any{"value": "{{{}}}"}},
					}},
				}},
			})},
			{Name: "operations", Schema: column(i18n.Expr("Operations"), map[string]any{"dataIndex": "operations", "fixed": "right"}, uischema.Properties{
				{Name: "config", Schema: uischema.Schema{
					Type:      string(model.FieldTypeVoid),
					Title:     i18n.Expr("Configure"),
					Component: ComponentRuleConfigForm,
				}},
				{Name: "remove", Schema: uischema.Schema{
					Type:      string(model.FieldTypeVoid),
					Component: "ArrayTable.Remove",
				}},
			})},
		},
	}

	return uischema.Schema{
		Type:      string(model.FieldTypeArray),
		Title:     i18n.Expr("Serial rules"),
		Decorator: "FormItem",
		Component: "ArrayTable",
		Items:     &item,
		Properties: uischema.Properties{
			{Name: "add", Schema: uischema.Schema{
				Type:           string(model.FieldTypeVoid),
				Title:          i18n.Expr("Add rule"),
				Component:      "ArrayTable.Addition",
				ComponentProps: map[string]any{"defaultValue": map[string]any{"type": string(DefaultRuleType)}},
			}},
		},
	}
}

// Compile returns a copy of d with every `{{t("...")}}` expression resolved
// for locale.
func (d Definition) Compile(locale string, t i18n.Translator) Definition {
	out := d
	out.Title = i18n.Compile(d.Title, locale, t)
	out.Default.UISchema = compileSchema(d.Default.UISchema, locale, t)
	out.Properties = compileProperties(d.Properties, locale, t)
	out.Filterable.Operators = make([]Operator, len(d.Filterable.Operators))
	for i, op := range d.Filterable.Operators {
		op.Label = i18n.Compile(op.Label, locale, t)
		out.Filterable.Operators[i] = op
	}
	return out
}

func compileProperties(props uischema.Properties, locale string, t i18n.Translator) uischema.Properties {
	if props == nil {
		return nil
	}
	out := make(uischema.Properties, len(props))
	for i, prop := range props {
		out[i] = uischema.Property{Name: prop.Name, Schema: compileSchema(prop.Schema, locale, t)}
	}
	return out
}

func compileSchema(s uischema.Schema, locale string, t i18n.Translator) uischema.Schema {
	s.Title = i18n.Compile(s.Title, locale, t)
	s.Description = i18n.Compile(s.Description, locale, t)
	s.Content = i18n.Compile(s.Content, locale, t)
	if len(s.Enum) > 0 {
		enum := make([]model.EnumOption, len(s.Enum))
		for i, option := range s.Enum {
			enum[i] = model.EnumOption{Label: i18n.Compile(option.Label, locale, t), Value: option.Value}
		}
		s.Enum = enum
	}
	if title, ok := s.ComponentProps["title"].(string); ok {
		props := make(map[string]any, len(s.ComponentProps))
		for k, v := range s.ComponentProps {
			props[k] = v
		}
		props["title"] = i18n.Compile(title, locale, t)
		s.ComponentProps = props
	}
	if s.Items != nil {
		item := compileSchema(*s.Items, locale, t)
		s.Items = &item
	}
	s.Properties = compileProperties(s.Properties, locale, t)
	return s
}
