package service

import (
	"context"
	"testing"

	"tedp_backend/internal/model"
	"tedp_backend/internal/runner"
	"tedp_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAnswerFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		q       model.Question
		req     AnswerRequest
		want    runner.Answer
		wantErr bool
	}{
		{
			name: "text",
			q:    model.Question{Type: model.QuestionText},
			req:  AnswerRequest{QuestionID: 1, Text: strPtr("hello")},
			want: runner.TextAnswer("hello"),
		},
		{
			name:    "text missing value",
			q:       model.Question{Type: model.QuestionText},
			req:     AnswerRequest{QuestionID: 1},
			wantErr: true,
		},
		{
			name: "scale in range",
			q:    model.Question{Type: model.QuestionScale, ScaleMin: 1, ScaleMax: 5},
			req:  AnswerRequest{QuestionID: 1, Scale: intPtr(3)},
			want: runner.ScaleAnswer(3),
		},
		{
			name: "scale clamped high",
			q:    model.Question{Type: model.QuestionScale, ScaleMin: 1, ScaleMax: 5},
			req:  AnswerRequest{QuestionID: 1, Scale: intPtr(9)},
			want: runner.ScaleAnswer(5),
		},
		{
			name: "scale clamped low",
			q:    model.Question{Type: model.QuestionScale, ScaleMin: 1, ScaleMax: 5},
			req:  AnswerRequest{QuestionID: 1, Scale: intPtr(0)},
			want: runner.ScaleAnswer(1),
		},
		{
			name: "single choice",
			q:    model.Question{Type: model.QuestionSingleChoice},
			req:  AnswerRequest{QuestionID: 1, Option: strPtr("B")},
			want: runner.ChoiceAnswer("B"),
		},
		{
			name:    "multiple choice rejected",
			q:       model.Question{Type: model.QuestionMultipleChoice},
			req:     AnswerRequest{QuestionID: 1, Option: strPtr("B")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := answerFromRequest(&tt.q, tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	snap := SessionSnapshot{AccessCodeID: 7, PassationID: 3}
	require.NoError(t, store.Save(ctx, "tok", snap))

	got, err := store.Load(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.AccessCodeID)
	assert.Equal(t, uint(3), got.PassationID)

	require.NoError(t, store.Delete(ctx, "tok"))
	_, err = store.Load(ctx, "tok")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func seedSession(t *testing.T, svc *RespondentService, questions []model.Question) string {
	t.Helper()
	r, err := runner.New(questions, "123456")
	require.NoError(t, err)
	snap, err := r.Snapshot()
	require.NoError(t, err)
	token := "test-session"
	require.NoError(t, svc.Sessions.Save(context.Background(), token, SessionSnapshot{
		AccessCodeID: 1,
		PassationID:  1,
		Runner:       snap,
	}))
	return token
}

func TestSessionFlowAgainstMemoryStore(t *testing.T) {
	ctx := context.Background()
	svc := &RespondentService{Sessions: NewMemorySessionStore()}

	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Order: 1, Text: "Q1", Type: model.QuestionText, IsRequired: true},
		{BaseModel: model.BaseModel{ID: 2}, Order: 2, Text: "Q2", Type: model.QuestionMultipleChoice},
	}
	token := seedSession(t, svc, questions)

	view, err := svc.Start(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, runner.StateInProgress, view.State)
	assert.Equal(t, 0, view.Page)
	assert.Len(t, view.Questions, 2)

	// required question still empty
	_, err = svc.Advance(ctx, token)
	var verr *runner.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []uint{1}, verr.QuestionIDs)

	view, err = svc.RecordAnswer(ctx, token, AnswerRequest{QuestionID: 1, Text: strPtr("ok")})
	require.NoError(t, err)
	assert.Contains(t, view.Answers, uint(1))

	view, err = svc.ToggleChoice(ctx, token, ToggleRequest{QuestionID: 2, Option: "A"})
	require.NoError(t, err)
	assert.Contains(t, view.Answers, uint(2))

	// state survives reload from the store
	view, err = svc.CurrentPage(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, runner.StateInProgress, view.State)
	assert.Len(t, view.Answers, 2)

	require.NoError(t, svc.Cancel(ctx, token))
	_, err = svc.CurrentPage(ctx, token)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestRecordAnswerUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	svc := &RespondentService{Sessions: NewMemorySessionStore()}
	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Order: 1, Text: "Q1", Type: model.QuestionText},
	}
	token := seedSession(t, svc, questions)

	_, err := svc.Start(ctx, token)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, token, AnswerRequest{QuestionID: 99, Text: strPtr("x")})
	assert.ErrorIs(t, err, runner.ErrUnknownQuestion)
}
