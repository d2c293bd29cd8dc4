package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerSerialize(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		want   string
	}{
		{"text", TextAnswer("hello"), "hello"},
		{"empty text", TextAnswer(""), ""},
		{"scale", ScaleAnswer(7), "7"},
		{"scale zero", ScaleAnswer(0), "0"},
		{"single choice", ChoiceAnswer("Oui"), "Oui"},
		{"multi choice", MultiChoiceAnswer{"A", "B"}, `["A","B"]`},
		{"empty multi choice", MultiChoiceAnswer{}, `[]`},
		{"nil multi choice", MultiChoiceAnswer(nil), `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.answer.Serialize()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerEmpty(t *testing.T) {
	assert.True(t, TextAnswer("").Empty())
	assert.False(t, TextAnswer("x").Empty())
	// a recorded scale value always counts as answered
	assert.False(t, ScaleAnswer(0).Empty())
	assert.True(t, ChoiceAnswer("").Empty())
	assert.False(t, ChoiceAnswer("A").Empty())
	assert.True(t, MultiChoiceAnswer{}.Empty())
	assert.True(t, MultiChoiceAnswer(nil).Empty())
	assert.False(t, MultiChoiceAnswer{"A"}.Empty())
}

func TestMultiChoiceToggle(t *testing.T) {
	var a MultiChoiceAnswer
	a = a.Toggle("A")
	assert.Equal(t, MultiChoiceAnswer{"A"}, a)
	a = a.Toggle("B")
	assert.Equal(t, MultiChoiceAnswer{"A", "B"}, a)
	a = a.Toggle("A")
	assert.Equal(t, MultiChoiceAnswer{"B"}, a)
	a = a.Toggle("B")
	assert.True(t, a.Empty())

	assert.True(t, MultiChoiceAnswer{"A", "B"}.Contains("B"))
	assert.False(t, MultiChoiceAnswer{"A"}.Contains("B"))
}
