package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
	// FieldTypeVoid marks layout-only nodes that carry no value.
	FieldTypeVoid FieldType = "void"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single constraint applied to a field. Numeric
// bounds and length limits encode their threshold in Params["value"] while
// pattern rules keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// EnumOption is a labelled choice for select-like components.
type EnumOption struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Field models one configurable option of a rule. Title holds an i18n key,
// not display text.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Title    string    `json:"title,omitempty"`
	Required bool      `json:"required"`
	// HasDefault distinguishes an explicit nil default from no default.
	HasDefault     bool              `json:"-"`
	Default        any               `json:"default,omitempty"`
	Component      string            `json:"component,omitempty"`
	Decorator      string            `json:"decorator,omitempty"`
	ComponentProps map[string]any    `json:"componentProps,omitempty"`
	Enum           []EnumOption      `json:"enum,omitempty"`
	Validations    []ValidationRule  `json:"validations,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Validation returns the first rule of the given kind.
func (f Field) Validation(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// Min builds a lower-bound rule.
func Min(value string) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMin, Params: map[string]string{"value": value}}
}

// Max builds an upper-bound rule.
func Max(value string) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMax, Params: map[string]string{"value": value}}
}
