package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anamnesis/internal/model"
)

// five questions, q2 only visible when q0 answered "yes"
func fiveQuestionList() []FlatQuestion {
	form := &model.FormTemplate{
		Sections: []model.FormSection{
			{
				Title: "S",
				Questions: []model.FormQuestion{
					{ID: "q0", Type: model.QuestionTypeRadio, Options: []string{"yes", "no"}},
					{ID: "q1", Type: model.QuestionTypeText},
					{
						ID:     "q2",
						Type:   model.QuestionTypeText,
						ShowIf: &model.Condition{Question: "q0", Equals: "yes"},
					},
					{ID: "q3", Type: model.QuestionTypeText},
					{ID: "q4", Type: model.QuestionTypeText},
				},
			},
		},
	}
	return Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyStable)
}

func TestNextSkipsHiddenQuestion(t *testing.T) {
	list := fiveQuestionList()
	require.Len(t, list, 5)

	nav := NewNavigatorAt(list, PolicyStable, 1)
	answers := model.AnswerMap{"q0": "no"}

	require.True(t, nav.Next(answers))
	assert.Equal(t, 3, nav.Index()) // q2 hidden, lands on q3

	nav = NewNavigatorAt(list, PolicyStable, 1)
	require.True(t, nav.Next(model.AnswerMap{"q0": "yes"}))
	assert.Equal(t, 2, nav.Index())
}

func TestPreviousSkipsHiddenQuestion(t *testing.T) {
	nav := NewNavigatorAt(fiveQuestionList(), PolicyStable, 3)
	require.True(t, nav.Previous(model.AnswerMap{"q0": "no"}))
	assert.Equal(t, 1, nav.Index())
}

func TestNavigationGuards(t *testing.T) {
	list := fiveQuestionList()
	answers := model.AnswerMap{"q0": "yes"}

	nav := NewNavigator(list, PolicyStable)
	assert.False(t, nav.Previous(answers)) // at start
	nav = NewNavigatorAt(list, PolicyStable, 4)
	assert.False(t, nav.Next(answers)) // at end
	assert.Equal(t, 4, nav.Index())
}

func TestSingleFlightGuard(t *testing.T) {
	nav := NewNavigator(fiveQuestionList(), PolicyStable)
	answers := model.AnswerMap{"q0": "yes"}

	require.True(t, nav.Next(answers))
	// second request before the first transition completed: no-op, not queued
	assert.False(t, nav.Next(answers))
	assert.Equal(t, 1, nav.Index())

	nav.EndTransition()
	require.True(t, nav.Next(answers))
	assert.Equal(t, 2, nav.Index())
}

func TestFilteredPolicyAdvancesByOne(t *testing.T) {
	form := intakeTemplate()
	answers := model.AnswerMap{"complaints": "Yes"}
	list := Build(form, answers, model.ShowModePatient, PolicyFiltered)
	require.Len(t, list, 3)

	nav := NewNavigator(list, PolicyFiltered)
	require.True(t, nav.Next(answers))
	nav.EndTransition()
	assert.Equal(t, 1, nav.Index())
	require.True(t, nav.Next(answers))
	assert.Equal(t, 2, nav.Index())
	assert.True(t, nav.Last())
}

func TestProgress(t *testing.T) {
	list := fiveQuestionList()
	nav := NewNavigator(list, PolicyStable)
	assert.InDelta(t, 0.2, nav.Progress(), 1e-9)

	nav = NewNavigatorAt(list, PolicyStable, 4)
	assert.InDelta(t, 1.0, nav.Progress(), 1e-9)

	empty := NewNavigator(nil, PolicyStable)
	assert.Zero(t, empty.Progress())
	_, ok := empty.Current()
	assert.False(t, ok)
}

func TestIndexClampedOnRestore(t *testing.T) {
	list := fiveQuestionList()
	nav := NewNavigatorAt(list, PolicyStable, 42) // schema shrank mid-session
	assert.Equal(t, 4, nav.Index())
	nav = NewNavigatorAt(list, PolicyStable, -3)
	assert.Equal(t, 0, nav.Index())
}

func TestCurrentAnswered(t *testing.T) {
	list := fiveQuestionList()

	nav := NewNavigatorAt(list, PolicyStable, 1)
	assert.False(t, nav.CurrentAnswered(model.AnswerMap{}))
	assert.True(t, nav.CurrentAnswered(model.AnswerMap{"q1": "something"}))
	assert.False(t, nav.CurrentAnswered(model.AnswerMap{"q1": ""}))

	// invisible current question is vacuously answered
	nav = NewNavigatorAt(list, PolicyStable, 2)
	assert.True(t, nav.CurrentAnswered(model.AnswerMap{"q0": "no"}))
}

func TestStuckDetector(t *testing.T) {
	nav := NewNavigatorAt(fiveQuestionList(), PolicyStable, 4)
	answers := model.AnswerMap{"q0": "yes"}

	for i := 0; i < stuckThreshold; i++ {
		assert.False(t, nav.Next(answers))
	}
	assert.True(t, nav.Stuck())

	nav.ResetStuck()
	assert.False(t, nav.Stuck())
}
