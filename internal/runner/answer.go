package runner

import (
	"encoding/json"
	"strconv"
)

// Answer is the tagged variant for the four answer shapes a question can
// take. Serialization to the wire string is one exhaustive implementation
// per variant: scalars via their string form, selections JSON-encoded.
type Answer interface {
	// Serialize returns the string carried in the submission payload.
	Serialize() (string, error)
	// Empty reports whether the answer counts as unanswered for the
	// required-question gate.
	Empty() bool
}

type TextAnswer string

func (a TextAnswer) Serialize() (string, error) { return string(a), nil }
func (a TextAnswer) Empty() bool                { return a == "" }

// ScaleAnswer holds a value the rendering layer already clamped to the
// question's [ScaleMin, ScaleMax]; the runner does not re-check bounds.
type ScaleAnswer int

func (a ScaleAnswer) Serialize() (string, error) { return strconv.Itoa(int(a)), nil }
func (a ScaleAnswer) Empty() bool                { return false }

type ChoiceAnswer string

func (a ChoiceAnswer) Serialize() (string, error) { return string(a), nil }
func (a ChoiceAnswer) Empty() bool                { return a == "" }

// MultiChoiceAnswer is a set of selected options. Membership, not position,
// determines state; the slice keeps selection order only for stable output.
type MultiChoiceAnswer []string

func (a MultiChoiceAnswer) Serialize() (string, error) {
	if a == nil {
		a = MultiChoiceAnswer{}
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a MultiChoiceAnswer) Empty() bool { return len(a) == 0 }

func (a MultiChoiceAnswer) Contains(option string) bool {
	for _, o := range a {
		if o == option {
			return true
		}
	}
	return false
}

// Toggle returns the set with option added if absent, removed if present.
// Two toggles of the same option are a no-op pair.
func (a MultiChoiceAnswer) Toggle(option string) MultiChoiceAnswer {
	out := make(MultiChoiceAnswer, 0, len(a)+1)
	removed := false
	for _, o := range a {
		if o == option {
			removed = true
			continue
		}
		out = append(out, o)
	}
	if !removed {
		out = append(out, option)
	}
	return out
}
