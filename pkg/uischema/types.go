package uischema

import (
	"bytes"
	"encoding/json"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Reaction describes a declarative dependency between schema nodes, e.g.
// resetting a value when a sibling changes.
type Reaction struct {
	Dependencies []string       `json:"dependencies,omitempty"`
	When         string         `json:"when,omitempty"`
	Fulfill      map[string]any `json:"fulfill,omitempty"`
}

// Schema is one UI schema node.
type Schema struct {
	Type        string
	Name        string
	Title       string
	Description string
	Required    bool
	// HasDefault emits `default` even when Default is nil.
	HasDefault     bool
	Default        any
	Enum           []model.EnumOption
	Decorator      string
	DecoratorProps map[string]any
	Component      string
	ComponentProps map[string]any
	Content        string
	ReadPretty     bool
	Reactions      []Reaction
	Items          *Schema
	Properties     Properties
}

// Property is a named child schema.
type Property struct {
	Name   string
	Schema Schema
}

// Properties is an ordered set of child schemas.
type Properties []Property

// Get returns the child with the given name.
func (p Properties) Get(name string) (Schema, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Schema, true
		}
	}
	return Schema{}, false
}

// Names lists child names in order.
func (p Properties) Names() []string {
	out := make([]string, 0, len(p))
	for _, prop := range p {
		out = append(out, prop.Name)
	}
	return out
}

func (p Properties) MarshalJSON() ([]byte, error) {
	obj := newObject()
	for _, prop := range p {
		if err := obj.add(prop.Name, prop.Schema); err != nil {
			return nil, err
		}
	}
	return obj.bytes(), nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	obj := newObject()
	fields := []struct {
		key   string
		value any
		skip  bool
	}{
		{"type", s.Type, s.Type == ""},
		{"name", s.Name, s.Name == ""},
		{"title", s.Title, s.Title == ""},
		{"description", s.Description, s.Description == ""},
		{"required", true, !s.Required},
		{"default", s.Default, !s.HasDefault && s.Default == nil},
		{"enum", s.Enum, len(s.Enum) == 0},
		{"x-decorator", s.Decorator, s.Decorator == ""},
		{"x-decorator-props", s.DecoratorProps, len(s.DecoratorProps) == 0},
		{"x-component", s.Component, s.Component == ""},
		{"x-component-props", s.ComponentProps, len(s.ComponentProps) == 0},
		{"x-content", s.Content, s.Content == ""},
		{"x-read-pretty", true, !s.ReadPretty},
		{"x-reactions", s.Reactions, len(s.Reactions) == 0},
		{"items", s.Items, s.Items == nil},
		{"properties", s.Properties, len(s.Properties) == 0},
	}
	for _, f := range fields {
		if f.skip {
			continue
		}
		if err := obj.add(f.key, f.value); err != nil {
			return nil, err
		}
	}
	return obj.bytes(), nil
}

// FromField converts a model field into a schema node decorated with
// FormItem when the field does not name its own decorator.
func FromField(field model.Field) Schema {
	decorator := field.Decorator
	if decorator == "" {
		decorator = "FormItem"
	}
	var props map[string]any
	if len(field.ComponentProps) > 0 {
		props = make(map[string]any, len(field.ComponentProps))
		for k, v := range field.ComponentProps {
			props[k] = v
		}
	}
	return Schema{
		Type:           string(field.Type),
		Title:          field.Title,
		Required:       field.Required,
		HasDefault:     field.HasDefault,
		Default:        field.Default,
		Enum:           append([]model.EnumOption(nil), field.Enum...),
		Decorator:      decorator,
		Component:      field.Component,
		ComponentProps: props,
	}
}

// FromFields converts an ordered fieldset into properties.
func FromFields(fields []model.Field) Properties {
	out := make(Properties, 0, len(fields))
	for _, field := range fields {
		out = append(out, Property{Name: field.Name, Schema: FromField(field)})
	}
	return out
}

type object struct {
	buf   bytes.Buffer
	count int
	err   error
}

func newObject() *object {
	o := &object{}
	o.buf.WriteByte('{')
	return o
}

func (o *object) add(key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if o.count > 0 {
		o.buf.WriteByte(',')
	}
	o.buf.Write(k)
	o.buf.WriteByte(':')
	o.buf.Write(v)
	o.count++
	return nil
}

func (o *object) bytes() []byte {
	o.buf.WriteByte('}')
	return o.buf.Bytes()
}
