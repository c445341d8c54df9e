package rules

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/model"
)

// CycleComponent is the component name of the reset cycle input.
const CycleComponent = "CycleSelect"

var ErrInvalidCron = errors.New("rules: invalid cron expression")

// CycleChoice is the short-list choice shown by the reset cycle select.
type CycleChoice int

const (
	CycleNone CycleChoice = iota
	CycleDaily
	CycleWeekly
	CycleMonthly
	CycleYearly
	CycleCustom
)

// Cycle is one row of the reset cycle table. Cron is empty for CycleNone,
// which persists as null.
type Cycle struct {
	Choice CycleChoice
	Label  string
	Cron   string
}

var cycleTable = []Cycle{
	{Choice: CycleNone, Label: "No reset"},
	{Choice: CycleDaily, Label: "Daily", Cron: "0 0 * * *"},
	{Choice: CycleWeekly, Label: "Every Monday", Cron: "0 0 * * 1"},
	{Choice: CycleMonthly, Label: "Monthly", Cron: "0 0 1 * *"},
	{Choice: CycleYearly, Label: "Yearly", Cron: "0 0 1 1 *"},
	// seed value when switching to the custom editor
	{Choice: CycleCustom, Label: "Custom", Cron: "* * * * *"},
}

// Cycles returns the reset cycle table.
func Cycles() []Cycle {
	return append([]Cycle(nil), cycleTable...)
}

// ChoiceForCron maps a stored cycle back to the short-list choice: nil is
// CycleNone, a cron equal to a table entry is that entry, anything else is
// CycleCustom.
func ChoiceForCron(value *string) CycleChoice {
	if value == nil {
		return CycleNone
	}
	for _, entry := range cycleTable {
		if entry.Choice == CycleNone {
			continue
		}
		if entry.Cron == *value {
			return entry.Choice
		}
	}
	return CycleCustom
}

// CronForChoice returns the value persisted for choice. CycleNone and
// out-of-range choices persist nil, never an empty string.
func CronForChoice(choice CycleChoice) *string {
	if choice <= CycleNone || int(choice) >= len(cycleTable) {
		return nil
	}
	expr := cycleTable[choice].Cron
	return &expr
}

// CycleValue reads a raw option value (nil, string or *string).
func CycleValue(value any) *string {
	switch v := value.(type) {
	case string:
		return &v
	case *string:
		if v == nil {
			return nil
		}
		s := *v
		return &s
	default:
		return nil
	}
}

// CycleEditor holds the state of the reset cycle input: a choice select plus
// a free-form cron editor shown for CycleCustom.
type CycleEditor struct {
	value *string
}

func NewCycleEditor(value *string) *CycleEditor {
	e := &CycleEditor{}
	if value != nil {
		s := *value
		e.value = &s
	}
	return e
}

// Choice returns the selected short-list entry.
func (e *CycleEditor) Choice() CycleChoice {
	return ChoiceForCron(e.value)
}

// Select switches to choice, replacing the value with the choice's cron.
func (e *CycleEditor) Select(choice CycleChoice) {
	e.value = CronForChoice(choice)
}

// CustomVisible reports whether the free-form cron editor is shown.
func (e *CycleEditor) CustomVisible() bool {
	return e.Choice() == CycleCustom
}

// SetCustom stores a free-form cron expression.
func (e *CycleEditor) SetCustom(expr string) {
	e.value = &expr
}

// Value returns the value to persist.
func (e *CycleEditor) Value() *string {
	if e.value == nil {
		return nil
	}
	s := *e.value
	return &s
}

// ParseCron parses a standard five-field cron expression.
func ParseCron(expr string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidCron, expr, err)
	}
	return schedule, nil
}

// NextReset returns the first reset boundary strictly after after.
func NextReset(expr string, after time.Time) (time.Time, error) {
	schedule, err := ParseCron(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(after), nil
}

func cycleEnum() []model.EnumOption {
	out := make([]model.EnumOption, 0, len(cycleTable))
	for _, entry := range cycleTable {
		out = append(out, model.EnumOption{Label: i18n.Expr(entry.Label), Value: int(entry.Choice)})
	}
	return out
}

func cycleDisplay(value any) Display {
	current := CycleValue(value)
	choice := ChoiceForCron(current)
	if choice == CycleCustom {
		return Display{Message: *current, Literal: true, Code: true}
	}
	return Display{Message: cycleTable[choice].Label}
}
