package service

import (
	"testing"
	"time"

	"tedp_backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestBuildCSV(t *testing.T) {
	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Order: 1, Text: "How was your day?"},
		{BaseModel: model.BaseModel{ID: 2}, Order: 2, Text: "Mood, 1 to 5"},
	}
	submitted := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	responses := []model.SurveyResponse{
		{
			BaseModel:   model.BaseModel{ID: 11},
			SubmittedAt: submitted,
			Answers: []model.ResponseAnswer{
				{QuestionID: 1, Value: "fine"},
				{QuestionID: 2, Value: "4"},
			},
		},
		{
			BaseModel:   model.BaseModel{ID: 12},
			SubmittedAt: submitted,
			Answers: []model.ResponseAnswer{
				{QuestionID: 2, Value: "2"},
			},
		},
	}

	data, err := BuildCSV(questions, responses)
	require.NoError(t, err)

	want := "response_id,submitted_at,How was your day?,\"Mood, 1 to 5\"\n" +
		"11,2026-03-10T09:30:00Z,fine,4\n" +
		"12,2026-03-10T09:30:00Z,,2\n"
	require.Equal(t, want, string(data))
}

func TestBuildCSVNoResponses(t *testing.T) {
	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Order: 1, Text: "Q1"},
	}
	data, err := BuildCSV(questions, nil)
	require.NoError(t, err)
	require.Equal(t, "response_id,submitted_at,Q1\n", string(data))
}
