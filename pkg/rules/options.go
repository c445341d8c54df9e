package rules

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formkit/pkg/model"
)

// FixedTextOptions are the typed options of a KindString rule.
type FixedTextOptions struct {
	Value string `mapstructure:"value"`
}

// AutoincrementOptions are the typed options of a KindInteger rule. A nil
// Cycle means the counter never resets.
type AutoincrementOptions struct {
	Digits int     `mapstructure:"digits"`
	Start  int     `mapstructure:"start"`
	Cycle  *string `mapstructure:"cycle"`
}

// DateOptions are the typed options of a KindDate rule.
type DateOptions struct {
	Format string `mapstructure:"format"`
}

// DecodeOptions merges the kind's defaults with options and decodes them
// into the kind's typed options struct.
func (c *Catalog) DecodeOptions(kind Kind, options map[string]any) (any, error) {
	rt, ok := c.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, kind)
	}
	merged := c.Defaults(kind)
	for k, v := range options {
		merged[k] = v
	}
	switch rt.(type) {
	case FixedText:
		var out FixedTextOptions
		if err := decode(merged, &out); err != nil {
			return out, err
		}
		return out, nil
	case Autoincrement:
		var out AutoincrementOptions
		if err := decode(merged, &out); err != nil {
			return out, err
		}
		return out, nil
	case DateStamp:
		var out DateOptions
		if err := decode(merged, &out); err != nil {
			return out, err
		}
		if out.Format == "" {
			out.Format = DefaultDateFormat
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, kind)
	}
}

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("rules: decode options: %w", err)
	}
	return nil
}

// OptionIssue reports one option that violates its fieldset declaration.
type OptionIssue struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (i OptionIssue) Error() string {
	return fmt.Sprintf("%s: %s", i.Key, i.Message)
}

// ValidateOptions checks options against the constraints the kind's fieldset
// declares (required, min/max) plus cron syntax for the reset cycle. It is
// opt-in: nothing in the configure flow calls it implicitly.
func (c *Catalog) ValidateOptions(kind Kind, options map[string]any) error {
	rt, ok := c.Lookup(kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRuleType, kind)
	}
	var errs []error
	for _, field := range rt.Fieldset() {
		value, present := options[field.Name]
		if !present || value == nil {
			if field.Required {
				errs = append(errs, OptionIssue{Key: field.Name, Message: "is required"})
			}
			continue
		}
		if issue, bad := checkBounds(field, value); bad {
			errs = append(errs, issue)
		}
		if field.Component == CycleComponent {
			if expr := CycleValue(value); expr != nil {
				if _, err := ParseCron(*expr); err != nil {
					errs = append(errs, OptionIssue{Key: field.Name, Message: err.Error()})
				}
			}
		}
	}
	return errors.Join(errs...)
}

// UnknownKeys lists option keys the kind's fieldset does not declare.
func (c *Catalog) UnknownKeys(kind Kind, options map[string]any) []string {
	rt, ok := c.Lookup(kind)
	if !ok {
		return nil
	}
	known := make(map[string]struct{})
	for _, field := range rt.Fieldset() {
		known[field.Name] = struct{}{}
	}
	var out []string
	for key := range options {
		if _, ok := known[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func checkBounds(field model.Field, value any) (OptionIssue, bool) {
	if field.Type != model.FieldTypeNumber && field.Type != model.FieldTypeInteger {
		return OptionIssue{}, false
	}
	var n float64
	if err := mapstructure.WeakDecode(value, &n); err != nil {
		return OptionIssue{Key: field.Name, Message: "must be a number"}, true
	}
	if rule, ok := field.Validation(model.ValidationRuleMin); ok {
		if limit, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil && n < limit {
			return OptionIssue{Key: field.Name, Message: "must be at least " + rule.Params["value"]}, true
		}
	}
	if rule, ok := field.Validation(model.ValidationRuleMax); ok {
		if limit, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil && n > limit {
			return OptionIssue{Key: field.Name, Message: "must be at most " + rule.Params["value"]}, true
		}
	}
	return OptionIssue{}, false
}
