package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Kind identifies a rule variant in persisted patterns.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindDate    Kind = "date"
)

var ErrUnknownRuleType = errors.New("rules: unknown rule type")

// ParseKind validates raw against the known kinds.
func ParseKind(raw string) (Kind, error) {
	switch kind := Kind(strings.TrimSpace(raw)); kind {
	case KindString, KindInteger, KindDate:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRuleType, raw)
	}
}

// Display is the renderer output for one option value. Message is an i18n
// key unless Literal is set.
type Display struct {
	Message string
	Args    map[string]any
	Literal bool
	Code    bool
}

// RuleType is implemented by FixedText, Autoincrement and DateStamp only.
type RuleType interface {
	Kind() Kind
	// Title returns the i18n key of the rule name.
	Title() string
	Fieldset() []model.Field
	// Render summarises one option; ok is false when key has no renderer.
	Render(key string, value any) (Display, bool)

	sealed()
}

// FixedText emits its configured text verbatim.
type FixedText struct{}

func (FixedText) Kind() Kind    { return KindString }
func (FixedText) Title() string { return "Fixed text" }
func (FixedText) sealed()       {}

func (FixedText) Fieldset() []model.Field {
	return []model.Field{
		{
			Name:      "value",
			Type:      model.FieldTypeString,
			Title:     "Text content",
			Component: "Input",
		},
	}
}

func (FixedText) Render(key string, value any) (Display, bool) {
	if key != "value" {
		return Display{}, false
	}
	return Display{Message: stringValue(value), Literal: true, Code: true}, true
}

// Autoincrement emits a zero-padded counter that may reset on a cron cycle.
type Autoincrement struct{}

func (Autoincrement) Kind() Kind    { return KindInteger }
func (Autoincrement) Title() string { return "Autoincrement" }
func (Autoincrement) sealed()       {}

func (Autoincrement) Fieldset() []model.Field {
	return []model.Field{
		{
			Name:           "digits",
			Type:           model.FieldTypeNumber,
			Title:          "Digits",
			Component:      "InputNumber",
			ComponentProps: map[string]any{"max": 10},
			Validations:    []model.ValidationRule{model.Max("10")},
			Required:       true,
			HasDefault:     true,
			Default:        1,
		},
		{
			Name:           "start",
			Type:           model.FieldTypeNumber,
			Title:          "Start from",
			Component:      "InputNumber",
			ComponentProps: map[string]any{"min": 0},
			Validations:    []model.ValidationRule{model.Min("0")},
			Required:       true,
			HasDefault:     true,
			Default:        0,
		},
		{
			Name:       "cycle",
			Type:       model.FieldTypeString,
			Title:      "Reset cycle",
			Component:  CycleComponent,
			Enum:       cycleEnum(),
			HasDefault: true,
			Default:    nil,
		},
	}
}

func (Autoincrement) Render(key string, value any) (Display, bool) {
	switch key {
	case "digits":
		return Display{Message: "{{value}} Digits", Args: map[string]any{"value": value}}, true
	case "start":
		return Display{Message: "Starts from {{value}}", Args: map[string]any{"value": value}}, true
	case "cycle":
		return cycleDisplay(value), true
	default:
		return Display{}, false
	}
}

// DefaultDateFormat is used when a date rule has no format option.
const DefaultDateFormat = "YYYYMMDD"

// DateStamp emits the generation time in the configured format.
type DateStamp struct{}

func (DateStamp) Kind() Kind    { return KindDate }
func (DateStamp) Title() string { return "Date" }
func (DateStamp) sealed()       {}

func (DateStamp) Fieldset() []model.Field {
	return []model.Field{
		{
			Name:       "format",
			Type:       model.FieldTypeString,
			Title:      "Date format",
			Component:  "Input",
			HasDefault: true,
			Default:    DefaultDateFormat,
		},
	}
}

func (DateStamp) Render(key string, value any) (Display, bool) {
	if key != "format" {
		return Display{}, false
	}
	format := stringValue(value)
	if format == "" {
		format = DefaultDateFormat
	}
	return Display{Message: format, Literal: true, Code: true}, true
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprint(v)
	}
}
