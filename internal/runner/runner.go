// Package runner drives a respondent through a paginated questionnaire:
// fixed-size question pages, per-page required-answer gating, answer
// accumulation keyed by question id, and final payload assembly. It owns no
// I/O; submission goes through the Submitter collaborator and the caller is
// responsible for serializing access to one Runner instance.
package runner

import (
	"context"
	"sort"

	"tedp_backend/internal/model"
)

// PageSize is the fixed number of questions per page.
const PageSize = 5

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateCancelled  State = "cancelled"
)

// PayloadAnswer pairs a question id with the serialized answer value.
type PayloadAnswer struct {
	QuestionID int    `json:"questionId"`
	Value      string `json:"value"`
}

// Payload is built once at submit time and never mutated afterward.
type Payload struct {
	PIN     string          `json:"pin"`
	Answers []PayloadAnswer `json:"answers"`
}

// Submitter is the external network collaborator; all-or-nothing, no
// partial-success semantics.
type Submitter interface {
	SubmitSurvey(ctx context.Context, p Payload) error
}

// Runner holds the state of one flow instance: one respondent, one attempt.
// It is not safe for concurrent use.
type Runner struct {
	pin       string
	questions []model.Question
	answers   map[uint]Answer
	page      int
	state     State
	inFlight  bool
}

// New sorts the questions by Order ascending and starts the cursor on page
// zero with an empty answer set. An empty question list is rejected outright
// rather than rendered as a "no questions" state.
func New(questions []model.Question, pin string) (*Runner, error) {
	if len(questions) == 0 {
		return nil, ErrEmptySurvey
	}

	qs := make([]model.Question, len(questions))
	copy(qs, questions)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })

	return &Runner{
		pin:       pin,
		questions: qs,
		answers:   make(map[uint]Answer),
		state:     StateNotStarted,
	}, nil
}

// Start moves the flow out of the intro/consent screen and into page zero.
func (r *Runner) Start() error {
	switch r.state {
	case StateNotStarted:
		r.state = StateInProgress
		return nil
	case StateCancelled:
		return ErrCancelled
	default:
		return ErrAlreadyStarted
	}
}

func (r *Runner) State() State { return r.state }

func (r *Runner) Page() int { return r.page }

func (r *Runner) TotalPages() int {
	return (len(r.questions) + PageSize - 1) / PageSize
}

// Questions returns the full sorted question set.
func (r *Runner) Questions() []model.Question { return r.questions }

// PageQuestions returns the questions on page i.
func (r *Runner) PageQuestions(i int) []model.Question {
	if i < 0 || i >= r.TotalPages() {
		return nil
	}
	start := i * PageSize
	end := start + PageSize
	if end > len(r.questions) {
		end = len(r.questions)
	}
	return r.questions[start:end]
}

// CurrentQuestions returns the questions on the current page.
func (r *Runner) CurrentQuestions() []model.Question {
	return r.PageQuestions(r.page)
}

// AnswerFor returns the recorded answer for a question, if any.
func (r *Runner) AnswerFor(questionID uint) (Answer, bool) {
	a, ok := r.answers[questionID]
	return a, ok
}

func (r *Runner) question(questionID uint) (*model.Question, bool) {
	for i := range r.questions {
		if r.questions[i].ID == questionID {
			return &r.questions[i], true
		}
	}
	return nil, false
}

// Record sets or replaces the answer for a question. Type and requiredness
// are deliberately not checked here; they are enforced at page advance and
// submit time only. A nil answer is rejected so every recorded entry can be
// serialized; clearing an answer means recording its empty variant.
func (r *Runner) Record(questionID uint, a Answer) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if a == nil {
		return ErrNilAnswer
	}
	if _, ok := r.question(questionID); !ok {
		return ErrUnknownQuestion
	}
	r.answers[questionID] = a
	return nil
}

// ToggleChoice flips the membership of option in a multiple-choice answer.
// Toggling an absent option selects it, toggling a selected one removes it.
func (r *Runner) ToggleChoice(questionID uint, option string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	q, ok := r.question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if q.Type != model.QuestionMultipleChoice {
		return ErrNotMultiChoice
	}

	current, _ := r.answers[questionID].(MultiChoiceAnswer)
	r.answers[questionID] = current.Toggle(option)
	return nil
}

func (r *Runner) mutable() error {
	switch r.state {
	case StateInProgress:
		return nil
	case StateNotStarted:
		return ErrNotStarted
	case StateCancelled:
		return ErrCancelled
	case StateSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrSubmitInFlight
	}
}

// MissingRequired returns the ids of required questions on the current page
// without a non-empty answer. Recomputed on every call, never cached: the
// answer set can change between checks.
func (r *Runner) MissingRequired() []uint {
	var missing []uint
	for _, q := range r.CurrentQuestions() {
		if !q.IsRequired {
			continue
		}
		a, ok := r.answers[q.ID]
		if !ok || a.Empty() {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// CanAdvance reports whether every required question on the current page has
// a non-empty answer.
func (r *Runner) CanAdvance() bool {
	return len(r.MissingRequired()) == 0
}

// Advance moves to the next page if the current page's required questions
// are all answered. On failure it returns a ValidationError naming the
// offending question ids and leaves the cursor in place.
func (r *Runner) Advance() error {
	if err := r.mutable(); err != nil {
		return err
	}
	if missing := r.MissingRequired(); len(missing) > 0 {
		return &ValidationError{QuestionIDs: missing}
	}
	if r.page >= r.TotalPages()-1 {
		return ErrLastPage
	}
	r.page++
	return nil
}

// Retreat moves back one page without any validation. A respondent can
// always revisit prior answers; they may have since cleared an answer that
// passed the forward gate, which is an accepted asymmetry, not a bug.
func (r *Runner) Retreat() error {
	if err := r.mutable(); err != nil {
		return err
	}
	if r.page == 0 {
		return ErrFirstPage
	}
	r.page--
	return nil
}

// Cancel abandons the flow and discards the answer set and cursor. Nothing
// has reached the server; a fresh instance is required for another attempt.
func (r *Runner) Cancel() {
	r.answers = make(map[uint]Answer)
	r.page = 0
	r.inFlight = false
	r.state = StateCancelled
}

// BuildPayload serializes every recorded answer, ordered by the original
// question order for a deterministic wire form.
func (r *Runner) BuildPayload() (Payload, error) {
	p := Payload{PIN: r.pin, Answers: make([]PayloadAnswer, 0, len(r.answers))}
	for _, q := range r.questions {
		a, ok := r.answers[q.ID]
		if !ok {
			continue
		}
		value, err := a.Serialize()
		if err != nil {
			return Payload{}, err
		}
		p.Answers = append(p.Answers, PayloadAnswer{QuestionID: int(q.ID), Value: value})
	}
	return p, nil
}

// Submit builds the payload and hands it to the collaborator. Preconditions:
// the cursor is on the last page and its required questions are answered. A
// second call while one is outstanding is rejected, not queued. On failure
// the answer set and cursor survive so the respondent can retry.
func (r *Runner) Submit(ctx context.Context, s Submitter) error {
	switch r.state {
	case StateNotStarted:
		return ErrNotStarted
	case StateCancelled:
		return ErrCancelled
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateSubmitting:
		return ErrSubmitInFlight
	}
	if r.inFlight {
		return ErrSubmitInFlight
	}
	if r.page != r.TotalPages()-1 {
		return ErrNotLastPage
	}
	if missing := r.MissingRequired(); len(missing) > 0 {
		return &ValidationError{QuestionIDs: missing}
	}

	payload, err := r.BuildPayload()
	if err != nil {
		return err
	}

	r.state = StateSubmitting
	r.inFlight = true
	err = s.SubmitSurvey(ctx, payload)
	r.inFlight = false
	if err != nil {
		r.state = StateInProgress
		return &SubmitError{Err: err}
	}

	r.state = StateSubmitted
	return nil
}
