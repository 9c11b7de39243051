package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anamnesis/internal/model"
)

func intakeTemplate() *model.FormTemplate {
	return &model.FormTemplate{
		Title: "Anamnesis",
		Sections: []model.FormSection{
			{
				Title: "General",
				Questions: []model.FormQuestion{
					{ID: "name", Label: "Your name", Type: model.QuestionTypeText},
					{
						ID:      "complaints",
						Label:   "Current complaints?",
						Type:    model.QuestionTypeRadio,
						Options: []string{"Yes", "No"},
					},
					{
						ID:     "complaint_text",
						Label:  "Please describe them",
						Type:   model.QuestionTypeTextarea,
						ShowIf: &model.Condition{Question: "complaints", Equals: "Yes"},
					},
					{
						ID:         "visus_od",
						Label:      "Visus right eye",
						Type:       model.QuestionTypeNumber,
						ShowInMode: model.ShowModeOptician,
					},
				},
			},
		},
	}
}

func TestBuildFilteredHidesUnmet(t *testing.T) {
	form := intakeTemplate()

	list := Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyFiltered)
	require.Len(t, list, 2) // complaint_text hidden, visus_od optician-only
	assert.Equal(t, "name", list[0].RuntimeID())
	assert.Equal(t, "complaints", list[1].RuntimeID())

	list = Build(form, model.AnswerMap{"complaints": "Yes"}, model.ShowModePatient, PolicyFiltered)
	require.Len(t, list, 3)
	assert.Equal(t, "complaint_text", list[2].RuntimeID())
}

func TestBuildStableKeepsIndicesFixed(t *testing.T) {
	form := intakeTemplate()

	empty := Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyStable)
	answered := Build(form, model.AnswerMap{"complaints": "Yes"}, model.ShowModePatient, PolicyStable)
	require.Equal(t, len(empty), len(answered))
	for i := range empty {
		assert.Equal(t, empty[i].RuntimeID(), answered[i].RuntimeID())
	}

	// hidden entry is present but not currently visible
	assert.Equal(t, "complaint_text", empty[2].RuntimeID())
	assert.False(t, empty[2].VisibleNow(model.AnswerMap{}))
	assert.True(t, answered[2].VisibleNow(model.AnswerMap{"complaints": "Yes"}))
}

func TestBuildAudienceFiltering(t *testing.T) {
	form := intakeTemplate()

	patient := Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyStable)
	for _, fq := range patient {
		assert.NotEqual(t, "visus_od", fq.RuntimeID())
	}

	optician := Build(form, model.AnswerMap{}, model.ShowModeOptician, PolicyStable)
	ids := make([]string, 0, len(optician))
	for _, fq := range optician {
		ids = append(ids, fq.RuntimeID())
	}
	assert.Contains(t, ids, "visus_od")
}

func TestBuildSkipsTemplatesAndListsPlaceholders(t *testing.T) {
	form := &model.FormTemplate{
		Sections: []model.FormSection{followupSection()},
	}

	stable := Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyStable)
	// one parent + one placeholder per option
	require.Len(t, stable, 1+3)
	for _, fq := range stable {
		assert.False(t, fq.Question.IsFollowupTemplate)
	}

	// placeholders are invisible until their option is selected
	assert.False(t, stable[1].VisibleNow(model.AnswerMap{}))
	assert.True(t, stable[1].VisibleNow(model.AnswerMap{"conditions": []string{"Allergies"}}))
}

func TestBuildStableDedupsRuntimeIDs(t *testing.T) {
	form := &model.FormTemplate{
		Sections: []model.FormSection{followupSection()},
	}
	list := Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyStable)
	seen := make(map[string]bool)
	for _, fq := range list {
		assert.False(t, seen[fq.RuntimeID()], "duplicate runtime id %s", fq.RuntimeID())
		seen[fq.RuntimeID()] = true
	}
}

func TestBuildSectionCondition(t *testing.T) {
	form := &model.FormTemplate{
		Sections: []model.FormSection{
			{
				Title: "Base",
				Questions: []model.FormQuestion{
					{ID: "lenses", Type: model.QuestionTypeRadio, Options: []string{"yes", "no"}},
				},
			},
			{
				Title:  "Lens details",
				ShowIf: &model.Condition{Question: "lenses", Equals: "yes"},
				Questions: []model.FormQuestion{
					{ID: "lens_type", Type: model.QuestionTypeDropdown, Options: []string{"soft", "hard"}},
				},
			},
		},
	}

	assert.Len(t, Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyFiltered), 1)
	assert.Len(t, Build(form, model.AnswerMap{"lenses": "yes"}, model.ShowModePatient, PolicyFiltered), 2)

	stable := Build(form, model.AnswerMap{}, model.ShowModePatient, PolicyStable)
	require.Len(t, stable, 2)
	assert.False(t, stable[1].VisibleNow(model.AnswerMap{"lenses": "no"}))
	assert.True(t, stable[1].VisibleNow(model.AnswerMap{"lenses": "yes"}))
}

// End-to-end: answering a radio question materializes its follow-up
// under the filtered policy, and changing the answer swaps the runtime
// instance.
func TestFilteredFollowupScenario(t *testing.T) {
	form := &model.FormTemplate{
		Sections: []model.FormSection{
			{
				Title: "S",
				Questions: []model.FormQuestion{
					{
						ID:                  "A",
						Type:                model.QuestionTypeRadio,
						Options:             []string{"Yes", "No"},
						FollowupQuestionIDs: []string{"B"},
					},
					{ID: "B", Label: "Details for {option}", IsFollowupTemplate: true},
				},
			},
		},
	}

	list := Build(form, model.AnswerMap{"A": "Yes"}, model.ShowModePatient, PolicyFiltered)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].RuntimeID())
	yesID := model.NewRuntimeID("B", "Yes").String()
	assert.Equal(t, yesID, list[1].RuntimeID())
	assert.Equal(t, "Details for Yes", list[1].Question.Label)

	list = Build(form, model.AnswerMap{"A": "No"}, model.ShowModePatient, PolicyFiltered)
	require.Len(t, list, 2)
	noID := model.NewRuntimeID("B", "No").String()
	assert.Equal(t, noID, list[1].RuntimeID())
	assert.Equal(t, "Details for No", list[1].Question.Label)
	for _, fq := range list {
		assert.NotEqual(t, yesID, fq.RuntimeID())
	}
}
