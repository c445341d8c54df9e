package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/serialfield"
)

type menuAction int

const (
	actionAdd menuAction = iota
	actionType
	actionConfigure
	actionMove
	actionRemove
	actionSave
	actionQuit
)

var menuLabels = map[menuAction]string{
	actionAdd:       "Add rule",
	actionType:      "Change type",
	actionConfigure: "Configure",
	actionMove:      "Move",
	actionRemove:    "Delete",
	actionSave:      "Save",
	actionQuit:      "Quit without saving",
}

// Editor edits a pattern list interactively. Every change goes through the
// serialfield reducer, so the editor never touches rows directly.
type Editor struct {
	driver       Driver
	catalog      *rules.Catalog
	configurator *serialfield.Configurator
	locale       string
	translator   i18n.Translator
}

type EditorOption func(*Editor)

func WithCatalog(catalog *rules.Catalog) EditorOption {
	return func(e *Editor) {
		if catalog != nil {
			e.catalog = catalog
		}
	}
}

// WithLocale translates titles and summaries with t.
func WithLocale(locale string, t i18n.Translator) EditorOption {
	return func(e *Editor) {
		e.locale = locale
		e.translator = t
	}
}

// WithConfigurator replaces the default configurator, which validates
// submitted options against the fieldset.
func WithConfigurator(c *serialfield.Configurator) EditorOption {
	return func(e *Editor) {
		if c != nil {
			e.configurator = c
		}
	}
}

func NewEditor(driver Driver, opts ...EditorOption) *Editor {
	e := &Editor{
		driver:  driver,
		catalog: rules.DefaultCatalog(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.configurator == nil {
		e.configurator = serialfield.NewConfigurator(e.catalog,
			serialfield.WithSubmitHook(serialfield.ValidatingHook(e.catalog)))
	}
	return e
}

// Edit runs the menu loop until the user saves or quits. It returns the
// edited list and true on save, or the untouched input and false on quit.
func (e *Editor) Edit(ctx context.Context, patterns serialfield.Patterns) (serialfield.Patterns, bool, error) {
	current := patterns.Clone()
	for {
		if err := e.driver.Info(ctx, e.Render(current)); err != nil {
			return patterns, false, err
		}

		actions := menuFor(current)
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = e.t(menuLabels[a])
		}
		idx, err := e.driver.Select(ctx, SelectConfig{Message: e.t("Serial number rules"), Options: labels})
		if err != nil {
			return patterns, false, err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		var cmd *serialfield.Command
		switch actions[idx] {
		case actionAdd:
			cmd = &serialfield.Command{Op: serialfield.AddRule}
		case actionType:
			cmd, err = e.changeType(ctx, current)
		case actionConfigure:
			cmd, err = e.configure(ctx, current)
		case actionMove:
			cmd, err = e.move(ctx, current)
		case actionRemove:
			cmd, err = e.remove(ctx, current)
		case actionSave:
			issues := serialfield.Check(current, e.catalog)
			if len(issues) == 0 {
				return current, true, nil
			}
			for _, issue := range issues {
				if err := e.driver.Info(ctx, issue.Error()); err != nil {
					return patterns, false, err
				}
			}
			continue
		case actionQuit:
			return patterns, false, nil
		}
		if err != nil {
			return patterns, false, err
		}
		if cmd == nil {
			continue
		}
		next, err := serialfield.Apply(current, *cmd)
		if err != nil {
			if err := e.driver.Info(ctx, err.Error()); err != nil {
				return patterns, false, err
			}
			continue
		}
		current = next
	}
}

// Render lists the rows with their type title and option summaries.
func (e *Editor) Render(patterns serialfield.Patterns) string {
	if len(patterns) == 0 {
		return e.t("No rules")
	}
	lines := make([]string, 0, len(patterns))
	for i, row := range patterns {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, e.rowLabel(row)))
	}
	return strings.Join(lines, "\n")
}

func (e *Editor) rowLabel(row serialfield.Rule) string {
	title := string(row.Type)
	if rt, ok := e.catalog.Lookup(row.Type); ok {
		title = e.t(rt.Title())
	}
	summaries := serialfield.OptionsCell(row, e.catalog, e.locale, e.translator)
	if len(summaries) == 0 {
		return title
	}
	parts := make([]string, len(summaries))
	for i, s := range summaries {
		parts[i] = s.Title + ": " + s.Text
	}
	return title + "  " + strings.Join(parts, ", ")
}

func menuFor(patterns serialfield.Patterns) []menuAction {
	if len(patterns) == 0 {
		return []menuAction{actionAdd, actionSave, actionQuit}
	}
	return []menuAction{actionAdd, actionType, actionConfigure, actionMove, actionRemove, actionSave, actionQuit}
}

func (e *Editor) pickRow(ctx context.Context, patterns serialfield.Patterns, message string) (int, error) {
	if len(patterns) == 1 {
		return 0, nil
	}
	labels := make([]string, len(patterns))
	for i, row := range patterns {
		labels[i] = fmt.Sprintf("%d. %s", i+1, e.rowLabel(row))
	}
	return e.driver.Select(ctx, SelectConfig{Message: e.t(message), Options: labels})
}

func (e *Editor) changeType(ctx context.Context, patterns serialfield.Patterns) (*serialfield.Command, error) {
	row, err := e.pickRow(ctx, patterns, "Rule")
	if err != nil {
		return nil, err
	}
	types := e.catalog.Types()
	labels := make([]string, len(types))
	current := 0
	for i, rt := range types {
		labels[i] = e.t(rt.Title())
		if row >= 0 && row < len(patterns) && rt.Kind() == patterns[row].Type {
			current = i
		}
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: e.t("Type"), Options: labels, DefaultIndex: current})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(types) {
		return nil, nil
	}
	return &serialfield.Command{Op: serialfield.SetRuleType, Index: row, Type: types[idx].Kind()}, nil
}

func (e *Editor) configure(ctx context.Context, patterns serialfield.Patterns) (*serialfield.Command, error) {
	row, err := e.pickRow(ctx, patterns, "Rule")
	if err != nil {
		return nil, err
	}
	draft, err := e.configurator.Open(patterns, row)
	if err != nil {
		return nil, e.driver.Info(ctx, err.Error())
	}
	rt, _ := e.catalog.Lookup(draft.Type)

	values := make(map[string]any)
	for _, field := range rt.Fieldset() {
		current, ok := draft.Initial[field.Name]
		if !ok && field.HasDefault {
			current = field.Default
		}
		value, err := e.askField(ctx, field, current)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	cmd, err := draft.Submit(values)
	if err != nil {
		return nil, e.driver.Info(ctx, err.Error())
	}
	return &cmd, nil
}

func (e *Editor) askField(ctx context.Context, field model.Field, current any) (any, error) {
	if field.Component == rules.CycleComponent {
		return e.askCycle(ctx, field, current)
	}
	def := ""
	if current != nil {
		def = fmt.Sprint(current)
	}
	switch field.Type {
	case model.FieldTypeNumber, model.FieldTypeInteger:
		answer, err := e.driver.Input(ctx, InputConfig{
			Message: e.t(field.Title),
			Default: def,
			Validator: func(s string) error {
				_, err := strconv.Atoi(strings.TrimSpace(s))
				return err
			},
		})
		if err != nil {
			return nil, err
		}
		return strconv.Atoi(strings.TrimSpace(answer))
	default:
		return e.driver.Input(ctx, InputConfig{Message: e.t(field.Title), Default: def})
	}
}

func (e *Editor) askCycle(ctx context.Context, field model.Field, current any) (any, error) {
	editor := rules.NewCycleEditor(rules.CycleValue(current))
	cycles := rules.Cycles()
	labels := make([]string, len(cycles))
	for i, c := range cycles {
		labels[i] = e.t(c.Label)
	}
	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:      e.t(field.Title),
		Options:      labels,
		DefaultIndex: int(editor.Choice()),
	})
	if err != nil {
		return nil, err
	}
	if idx >= 0 && idx < len(cycles) && cycles[idx].Choice != editor.Choice() {
		editor.Select(cycles[idx].Choice)
	}
	if editor.CustomVisible() {
		def := ""
		if v := editor.Value(); v != nil {
			def = *v
		}
		expr, err := e.driver.Input(ctx, InputConfig{
			Message: e.t("Cron expression"),
			Default: def,
			Validator: func(s string) error {
				_, err := rules.ParseCron(s)
				return err
			},
		})
		if err != nil {
			return nil, err
		}
		editor.SetCustom(strings.TrimSpace(expr))
	}
	if v := editor.Value(); v != nil {
		return *v, nil
	}
	return nil, nil
}

func (e *Editor) move(ctx context.Context, patterns serialfield.Patterns) (*serialfield.Command, error) {
	from, err := e.pickRow(ctx, patterns, "Rule")
	if err != nil {
		return nil, err
	}
	positions := make([]string, len(patterns))
	for i := range patterns {
		positions[i] = strconv.Itoa(i + 1)
	}
	to, err := e.driver.Select(ctx, SelectConfig{Message: e.t("Move to position"), Options: positions, DefaultIndex: from})
	if err != nil {
		return nil, err
	}
	return &serialfield.Command{Op: serialfield.ReorderRule, Index: from, To: to}, nil
}

func (e *Editor) remove(ctx context.Context, patterns serialfield.Patterns) (*serialfield.Command, error) {
	row, err := e.pickRow(ctx, patterns, "Rule")
	if err != nil {
		return nil, err
	}
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{Message: e.t("Delete this rule?")})
	if err != nil || !ok {
		return nil, err
	}
	return &serialfield.Command{Op: serialfield.RemoveRule, Index: row}, nil
}

func (e *Editor) t(key string) string {
	return i18n.T(e.translator, e.locale, key)
}
