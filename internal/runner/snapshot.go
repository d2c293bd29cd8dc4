package runner

import (
	"encoding/json"
	"fmt"

	"tedp_backend/internal/model"
)

// Answer snapshots carry an explicit type tag so the variant survives a trip
// through JSON; decoding is one exhaustive switch over the tag.
const (
	answerKindText   = "text"
	answerKindScale  = "scale"
	answerKindChoice = "choice"
	answerKindMulti  = "multi_choice"
)

type AnswerSnapshot struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// Snapshot is the JSON-serializable form of one flow instance, used to park
// runner state between stateless requests. One snapshot still means one
// respondent, one attempt.
type Snapshot struct {
	PIN       string                  `json:"pin"`
	Questions []model.Question        `json:"questions"`
	Answers   map[uint]AnswerSnapshot `json:"answers"`
	Page      int                     `json:"page"`
	State     State                   `json:"state"`
}

func snapshotAnswer(a Answer) (AnswerSnapshot, error) {
	switch v := a.(type) {
	case TextAnswer:
		raw, err := json.Marshal(string(v))
		return AnswerSnapshot{Kind: answerKindText, Value: raw}, err
	case ScaleAnswer:
		raw, err := json.Marshal(int(v))
		return AnswerSnapshot{Kind: answerKindScale, Value: raw}, err
	case ChoiceAnswer:
		raw, err := json.Marshal(string(v))
		return AnswerSnapshot{Kind: answerKindChoice, Value: raw}, err
	case MultiChoiceAnswer:
		raw, err := json.Marshal([]string(v))
		return AnswerSnapshot{Kind: answerKindMulti, Value: raw}, err
	default:
		return AnswerSnapshot{}, fmt.Errorf("unknown answer variant %T", a)
	}
}

func restoreAnswer(s AnswerSnapshot) (Answer, error) {
	switch s.Kind {
	case answerKindText:
		var v string
		if err := json.Unmarshal(s.Value, &v); err != nil {
			return nil, err
		}
		return TextAnswer(v), nil
	case answerKindScale:
		var v int
		if err := json.Unmarshal(s.Value, &v); err != nil {
			return nil, err
		}
		return ScaleAnswer(v), nil
	case answerKindChoice:
		var v string
		if err := json.Unmarshal(s.Value, &v); err != nil {
			return nil, err
		}
		return ChoiceAnswer(v), nil
	case answerKindMulti:
		var v []string
		if err := json.Unmarshal(s.Value, &v); err != nil {
			return nil, err
		}
		return MultiChoiceAnswer(v), nil
	default:
		return nil, fmt.Errorf("unknown answer kind %q", s.Kind)
	}
}

func (r *Runner) Snapshot() (Snapshot, error) {
	s := Snapshot{
		PIN:       r.pin,
		Questions: r.questions,
		Answers:   make(map[uint]AnswerSnapshot, len(r.answers)),
		Page:      r.page,
		State:     r.state,
	}
	for id, a := range r.answers {
		snap, err := snapshotAnswer(a)
		if err != nil {
			return Snapshot{}, err
		}
		s.Answers[id] = snap
	}
	return s, nil
}

// Restore rebuilds a runner from a snapshot taken by Snapshot.
func Restore(s Snapshot) (*Runner, error) {
	r, err := New(s.Questions, s.PIN)
	if err != nil {
		return nil, err
	}
	if s.Page < 0 || s.Page >= r.TotalPages() {
		return nil, fmt.Errorf("snapshot page %d out of range", s.Page)
	}
	for id, snap := range s.Answers {
		a, err := restoreAnswer(snap)
		if err != nil {
			return nil, err
		}
		r.answers[id] = a
	}
	r.page = s.Page
	r.state = s.State
	// An in-flight submission never survives a restore; the guard is per
	// in-memory instance.
	if r.state == StateSubmitting {
		r.state = StateInProgress
	}
	return r, nil
}
