package serialfield

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/rules"
)

var (
	ErrIndexOutOfRange = errors.New("serialfield: index out of range")
	ErrUnknownOp       = errors.New("serialfield: unknown op")
)

// Op names a pattern list edit.
type Op string

const (
	AddRule        Op = "add"
	RemoveRule     Op = "remove"
	ReorderRule    Op = "reorder"
	SetRuleType    Op = "setType"
	SetRuleOptions Op = "setOptions"
)

// DefaultRuleType is the type of a freshly added row.
const DefaultRuleType = rules.KindInteger

// Command is one edit of the pattern list. Index addresses the row; To is
// the destination of ReorderRule; Type and Options carry the payload of
// SetRuleType and SetRuleOptions.
type Command struct {
	Op      Op             `json:"op"`
	Index   int            `json:"index"`
	To      int            `json:"to,omitempty"`
	Type    rules.Kind     `json:"type,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// Apply returns a new list with cmd applied. The input list is not mutated.
func Apply(patterns Patterns, cmd Command) (Patterns, error) {
	out := patterns.Clone()
	switch cmd.Op {
	case AddRule:
		return append(out, Rule{Type: DefaultRuleType}), nil
	case RemoveRule:
		if err := checkIndex(out, cmd.Index); err != nil {
			return patterns, err
		}
		return append(out[:cmd.Index], out[cmd.Index+1:]...), nil
	case ReorderRule:
		if err := checkIndex(out, cmd.Index); err != nil {
			return patterns, err
		}
		if err := checkIndex(out, cmd.To); err != nil {
			return patterns, err
		}
		return move(out, cmd.Index, cmd.To), nil
	case SetRuleType:
		if err := checkIndex(out, cmd.Index); err != nil {
			return patterns, err
		}
		if out[cmd.Index].Type != cmd.Type {
			out[cmd.Index] = Rule{Type: cmd.Type, Options: map[string]any{}}
		}
		return out, nil
	case SetRuleOptions:
		if err := checkIndex(out, cmd.Index); err != nil {
			return patterns, err
		}
		kind := cmd.Type
		if kind == "" {
			kind = out[cmd.Index].Type
		}
		out[cmd.Index] = Rule{Type: kind, Options: cloneOptions(cmd.Options)}
		return out, nil
	default:
		return patterns, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

// ApplyAll applies cmds in order and stops at the first error.
func ApplyAll(patterns Patterns, cmds ...Command) (Patterns, error) {
	current := patterns
	for i, cmd := range cmds {
		next, err := Apply(current, cmd)
		if err != nil {
			return current, fmt.Errorf("command %d: %w", i, err)
		}
		current = next
	}
	return current, nil
}

func checkIndex(p Patterns, idx int) error {
	if idx < 0 || idx >= len(p) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, idx, len(p))
	}
	return nil
}

func move(p Patterns, from, to int) Patterns {
	if from == to {
		return p
	}
	row := p[from]
	p = append(p[:from], p[from+1:]...)
	p = append(p[:to], append(Patterns{row}, p[to:]...)...)
	return p
}
