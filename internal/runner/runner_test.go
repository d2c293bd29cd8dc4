package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedp_backend/internal/model"
)

func makeQuestions(n int, required ...uint) []model.Question {
	req := make(map[uint]bool, len(required))
	for _, id := range required {
		req[id] = true
	}
	qs := make([]model.Question, n)
	for i := 0; i < n; i++ {
		id := uint(i + 1)
		qs[i] = model.Question{
			BaseModel:  model.BaseModel{ID: id},
			Order:      i + 1,
			Text:       fmt.Sprintf("question %d", id),
			Type:       model.QuestionText,
			IsRequired: req[id],
		}
	}
	return qs
}

func startedRunner(t *testing.T, qs []model.Question, pin string) *Runner {
	t.Helper()
	r, err := New(qs, pin)
	require.NoError(t, err)
	require.NoError(t, r.Start())
	return r
}

type fakeSubmitter struct {
	calls    int
	payloads []Payload
	err      error
	during   func(*Runner)
}

func (f *fakeSubmitter) SubmitSurvey(_ context.Context, p Payload) error {
	f.calls++
	f.payloads = append(f.payloads, p)
	return f.err
}

func TestNewRejectsEmptySurvey(t *testing.T) {
	_, err := New(nil, "123456")
	assert.ErrorIs(t, err, ErrEmptySurvey)
}

func TestNewSortsByOrder(t *testing.T) {
	qs := []model.Question{
		{BaseModel: model.BaseModel{ID: 3}, Order: 30, Type: model.QuestionText},
		{BaseModel: model.BaseModel{ID: 1}, Order: 10, Type: model.QuestionText},
		{BaseModel: model.BaseModel{ID: 2}, Order: 20, Type: model.QuestionText},
	}
	r, err := New(qs, "123456")
	require.NoError(t, err)

	got := r.Questions()
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, uint(3), got[2].ID)
}

func TestPagination(t *testing.T) {
	tests := []struct {
		questions int
		pages     int
	}{
		{1, 1},
		{4, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
		{23, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d questions", tt.questions), func(t *testing.T) {
			r, err := New(makeQuestions(tt.questions), "123456")
			require.NoError(t, err)
			assert.Equal(t, tt.pages, r.TotalPages())

			// the union of all pages is the full sorted set, no
			// duplicates, no omissions
			seen := make(map[uint]bool)
			total := 0
			for i := 0; i < r.TotalPages(); i++ {
				for _, q := range r.PageQuestions(i) {
					assert.False(t, seen[q.ID], "question %d appears twice", q.ID)
					seen[q.ID] = true
					total++
				}
			}
			assert.Equal(t, tt.questions, total)
		})
	}
}

func TestStartTransition(t *testing.T) {
	r, err := New(makeQuestions(3), "123456")
	require.NoError(t, err)
	assert.Equal(t, StateNotStarted, r.State())

	// recording before the explicit start is rejected
	assert.ErrorIs(t, r.Record(1, TextAnswer("early")), ErrNotStarted)

	require.NoError(t, r.Start())
	assert.Equal(t, StateInProgress, r.State())
	assert.ErrorIs(t, r.Start(), ErrAlreadyStarted)
}

func TestRecordUnknownQuestion(t *testing.T) {
	r := startedRunner(t, makeQuestions(3), "123456")
	assert.ErrorIs(t, r.Record(99, TextAnswer("x")), ErrUnknownQuestion)
}

func TestRecordRejectsNilAnswer(t *testing.T) {
	r := startedRunner(t, makeQuestions(3), "123456")
	assert.ErrorIs(t, r.Record(1, nil), ErrNilAnswer)

	// a nil answer never enters the set, so payload assembly stays total
	require.NoError(t, r.Record(1, TextAnswer("ok")))
	p, err := r.BuildPayload()
	require.NoError(t, err)
	assert.Len(t, p.Answers, 1)
}

func TestAdvanceBlockedByRequired(t *testing.T) {
	// one required question on page 0, nothing recorded
	r := startedRunner(t, makeQuestions(6, 1), "123456")

	err := r.Advance()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []uint{1}, verr.QuestionIDs)
	assert.Equal(t, 0, r.Page())

	// an empty string answer still blocks
	require.NoError(t, r.Record(1, TextAnswer("")))
	require.ErrorAs(t, r.Advance(), &verr)
	assert.Equal(t, 0, r.Page())

	require.NoError(t, r.Record(1, TextAnswer("answered")))
	require.NoError(t, r.Advance())
	assert.Equal(t, 1, r.Page())
}

func TestCanAdvanceIsReevaluated(t *testing.T) {
	r := startedRunner(t, makeQuestions(5, 2), "123456")
	assert.False(t, r.CanAdvance())

	require.NoError(t, r.Record(2, TextAnswer("yes")))
	assert.True(t, r.CanAdvance())

	// clearing the answer re-blocks: nothing is cached
	require.NoError(t, r.Record(2, TextAnswer("")))
	assert.False(t, r.CanAdvance())
}

func TestRetreatNeverValidates(t *testing.T) {
	r := startedRunner(t, makeQuestions(12, 1, 6), "123456")
	require.NoError(t, r.Record(1, TextAnswer("a")))
	require.NoError(t, r.Advance())
	require.NoError(t, r.Record(6, TextAnswer("b")))
	require.NoError(t, r.Advance())
	assert.Equal(t, 2, r.Page())

	// clear a required answer from an earlier page, then walk back freely
	require.NoError(t, r.Record(6, TextAnswer("")))
	require.NoError(t, r.Retreat())
	assert.Equal(t, 1, r.Page())
	require.NoError(t, r.Retreat())
	assert.Equal(t, 0, r.Page())
	assert.ErrorIs(t, r.Retreat(), ErrFirstPage)
}

func TestToggleChoicePair(t *testing.T) {
	qs := makeQuestions(2)
	qs[0].Type = model.QuestionMultipleChoice
	qs[0].OptionsJSON = `["A","B","C"]`
	r := startedRunner(t, qs, "123456")

	require.NoError(t, r.ToggleChoice(1, "A"))
	a, ok := r.AnswerFor(1)
	require.True(t, ok)
	assert.Equal(t, MultiChoiceAnswer{"A"}, a)

	require.NoError(t, r.ToggleChoice(1, "A"))
	a, ok = r.AnswerFor(1)
	require.True(t, ok)
	assert.True(t, a.Empty())

	// membership, not position: removing from the middle keeps the rest
	require.NoError(t, r.ToggleChoice(1, "A"))
	require.NoError(t, r.ToggleChoice(1, "B"))
	require.NoError(t, r.ToggleChoice(1, "C"))
	require.NoError(t, r.ToggleChoice(1, "B"))
	assert.Equal(t, MultiChoiceAnswer{"A", "C"}, r.mustAnswer(1))

	// toggling a non multiple-choice question is rejected
	assert.ErrorIs(t, r.ToggleChoice(2, "A"), ErrNotMultiChoice)
}

func (r *Runner) mustAnswer(id uint) Answer {
	a, ok := r.AnswerFor(id)
	if !ok {
		panic("no answer recorded")
	}
	return a
}

func TestBuildPayloadSerialization(t *testing.T) {
	qs := makeQuestions(3)
	qs[1].Type = model.QuestionScale
	qs[1].ScaleMin = 1
	qs[1].ScaleMax = 10
	qs[2].Type = model.QuestionMultipleChoice
	r := startedRunner(t, qs, "123456")

	require.NoError(t, r.Record(1, TextAnswer("hello")))
	require.NoError(t, r.Record(2, ScaleAnswer(7)))
	require.NoError(t, r.ToggleChoice(3, "A"))
	require.NoError(t, r.ToggleChoice(3, "B"))

	p, err := r.BuildPayload()
	require.NoError(t, err)
	assert.Equal(t, "123456", p.PIN)
	assert.Equal(t, []PayloadAnswer{
		{QuestionID: 1, Value: "hello"},
		{QuestionID: 2, Value: "7"},
		{QuestionID: 3, Value: `["A","B"]`},
	}, p.Answers)
}

func TestSubmitEndToEnd(t *testing.T) {
	// 7 questions: 5 required on page 0, 2 optional on page 1
	r := startedRunner(t, makeQuestions(7, 1, 2, 3, 4, 5), "654321")
	for id := uint(1); id <= 5; id++ {
		require.NoError(t, r.Record(id, TextAnswer("answered")))
	}
	require.NoError(t, r.Advance())
	assert.Equal(t, 1, r.Page())

	// nothing answered on the optional-only last page
	sink := &fakeSubmitter{}
	require.NoError(t, r.Submit(context.Background(), sink))
	assert.Equal(t, StateSubmitted, r.State())
	require.Equal(t, 1, sink.calls)
	assert.Len(t, sink.payloads[0].Answers, 5)
	assert.Equal(t, "654321", sink.payloads[0].PIN)
}

func TestSubmitPreconditions(t *testing.T) {
	r := startedRunner(t, makeQuestions(7, 6), "123456")
	sink := &fakeSubmitter{}

	// not on the last page
	assert.ErrorIs(t, r.Submit(context.Background(), sink), ErrNotLastPage)

	require.NoError(t, r.Advance())

	// required question on the last page unanswered
	var verr *ValidationError
	require.ErrorAs(t, r.Submit(context.Background(), sink), &verr)
	assert.Equal(t, []uint{6}, verr.QuestionIDs)
	assert.Zero(t, sink.calls)
}

func TestSubmitFailurePreservesState(t *testing.T) {
	r := startedRunner(t, makeQuestions(2, 1), "123456")
	require.NoError(t, r.Record(1, TextAnswer("kept")))

	sink := &fakeSubmitter{err: errors.New("backend unavailable")}
	err := r.Submit(context.Background(), sink)
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.EqualError(t, serr, "backend unavailable")

	// state preserved for a respondent-initiated retry
	assert.Equal(t, StateInProgress, r.State())
	assert.Equal(t, TextAnswer("kept"), r.mustAnswer(1))

	sink.err = nil
	require.NoError(t, r.Submit(context.Background(), sink))
	assert.Equal(t, StateSubmitted, r.State())
	assert.Equal(t, 2, sink.calls)
}

func TestSubmitTwiceRejected(t *testing.T) {
	r := startedRunner(t, makeQuestions(1), "123456")
	sink := &fakeSubmitter{}
	require.NoError(t, r.Submit(context.Background(), sink))
	assert.ErrorIs(t, r.Submit(context.Background(), sink), ErrAlreadySubmitted)
	assert.Equal(t, 1, sink.calls)
}

type reentrantSubmitter struct {
	r      *Runner
	inner  fakeSubmitter
	nested error
}

func (s *reentrantSubmitter) SubmitSurvey(ctx context.Context, p Payload) error {
	// a second submit arriving while this one is outstanding
	s.nested = s.r.Submit(ctx, &s.inner)
	return nil
}

func TestConcurrentSubmitGuard(t *testing.T) {
	r := startedRunner(t, makeQuestions(1), "123456")
	sink := &reentrantSubmitter{r: r}
	require.NoError(t, r.Submit(context.Background(), sink))

	assert.ErrorIs(t, sink.nested, ErrSubmitInFlight)
	assert.Zero(t, sink.inner.calls)
}

func TestCancelDiscardsEverything(t *testing.T) {
	r := startedRunner(t, makeQuestions(8, 1), "123456")
	require.NoError(t, r.Record(1, TextAnswer("gone")))
	require.NoError(t, r.Advance())

	r.Cancel()
	assert.Equal(t, StateCancelled, r.State())
	assert.Equal(t, 0, r.Page())
	_, ok := r.AnswerFor(1)
	assert.False(t, ok)

	// the cancelled instance is dead
	assert.ErrorIs(t, r.Record(1, TextAnswer("again")), ErrCancelled)
	assert.ErrorIs(t, r.Submit(context.Background(), &fakeSubmitter{}), ErrCancelled)

	// a fresh instance starts from an empty answer set
	fresh := startedRunner(t, makeQuestions(8, 1), "123456")
	_, ok = fresh.AnswerFor(1)
	assert.False(t, ok)
}

func TestSnapshotRoundTrip(t *testing.T) {
	qs := makeQuestions(7, 1)
	qs[1].Type = model.QuestionScale
	qs[2].Type = model.QuestionSingleChoice
	qs[3].Type = model.QuestionMultipleChoice
	r := startedRunner(t, qs, "123456")

	require.NoError(t, r.Record(1, TextAnswer("text")))
	require.NoError(t, r.Record(2, ScaleAnswer(4)))
	require.NoError(t, r.Record(3, ChoiceAnswer("B")))
	require.NoError(t, r.ToggleChoice(4, "X"))
	require.NoError(t, r.ToggleChoice(4, "Y"))
	require.NoError(t, r.Advance())

	snap, err := r.Snapshot()
	require.NoError(t, err)

	// through JSON, the way the session store carries it
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := Restore(decoded)
	require.NoError(t, err)
	assert.Equal(t, r.Page(), restored.Page())
	assert.Equal(t, r.State(), restored.State())
	assert.Equal(t, TextAnswer("text"), restored.mustAnswer(1))
	assert.Equal(t, ScaleAnswer(4), restored.mustAnswer(2))
	assert.Equal(t, ChoiceAnswer("B"), restored.mustAnswer(3))
	assert.Equal(t, MultiChoiceAnswer{"X", "Y"}, restored.mustAnswer(4))

	// a payload built after the round trip is identical
	want, err := r.BuildPayload()
	require.NoError(t, err)
	got, err := restored.BuildPayload()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
