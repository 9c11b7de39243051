package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anamnesis/internal/model"
)

func followupSection() model.FormSection {
	return model.FormSection{
		Title: "Medical history",
		Questions: []model.FormQuestion{
			{
				ID:                  "conditions",
				Label:               "Do any of these apply to you?",
				Type:                model.QuestionTypeCheckbox,
				Options:             []string{"Allergies", "Diabetes", "Glaucoma"},
				FollowupQuestionIDs: []string{"detail"},
			},
			{
				ID:                 "detail",
				Label:              "Tell us more about {option}",
				Type:               model.QuestionTypeTextarea,
				IsFollowupTemplate: true,
			},
		},
	}
}

func TestMaterializeSubstitutesLabel(t *testing.T) {
	section := followupSection()
	answers := model.AnswerMap{"conditions": []string{"Allergies"}}

	dyn := Materialize(&section, answers)
	require.Len(t, dyn, 1)
	assert.Equal(t, "Tell us more about Allergies", dyn[0].Label)
	assert.Equal(t, "conditions", dyn[0].ParentID)
	assert.Equal(t, "Allergies", dyn[0].ParentValue)
	assert.Equal(t, "detail", dyn[0].OriginalID)
	assert.False(t, dyn[0].IsFollowupTemplate)
}

func TestMaterializeIdempotentRuntimeIDs(t *testing.T) {
	section := followupSection()
	answers := model.AnswerMap{"conditions": []string{"Diabetes"}}

	first := Materialize(&section, answers)
	second := Materialize(&section, answers)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].RuntimeID, second[0].RuntimeID)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestMaterializeOrdering(t *testing.T) {
	section := followupSection()
	answers := model.AnswerMap{"conditions": []string{"Glaucoma", "Allergies"}}

	dyn := Materialize(&section, answers)
	require.Len(t, dyn, 2)
	// selection order, not option order
	assert.Equal(t, "Glaucoma", dyn[0].ParentValue)
	assert.Equal(t, "Allergies", dyn[1].ParentValue)
}

func TestMaterializeDedupAcrossParents(t *testing.T) {
	section := model.FormSection{
		Title: "Eyes",
		Questions: []model.FormQuestion{
			{
				ID:                  "left",
				Label:               "Left eye issues",
				Type:                model.QuestionTypeRadio,
				Options:             []string{"X", "Y"},
				FollowupQuestionIDs: []string{"issue_detail"},
			},
			{
				ID:                  "right",
				Label:               "Right eye issues",
				Type:                model.QuestionTypeRadio,
				Options:             []string{"X", "Y"},
				FollowupQuestionIDs: []string{"issue_detail"},
			},
			{
				ID:                 "issue_detail",
				Label:              "Describe {option}",
				Type:               model.QuestionTypeText,
				IsFollowupTemplate: true,
			},
		},
	}
	answers := model.AnswerMap{"left": "X", "right": "X"}

	dyn := Materialize(&section, answers)
	require.Len(t, dyn, 1)
	assert.Equal(t, model.NewRuntimeID("issue_detail", "X"), dyn[0].RuntimeID)
}

func TestMaterializeSkipsUnresolvedTemplate(t *testing.T) {
	section := model.FormSection{
		Title: "Broken",
		Questions: []model.FormQuestion{
			{
				ID:                  "q",
				Type:                model.QuestionTypeRadio,
				Options:             []string{"a"},
				FollowupQuestionIDs: []string{"missing", "real"},
			},
			{ID: "real", Label: "{option}?", IsFollowupTemplate: true},
		},
	}
	dyn := Materialize(&section, model.AnswerMap{"q": "a"})
	require.Len(t, dyn, 1)
	assert.Equal(t, "real", dyn[0].OriginalID)
}

func TestMaterializeNoSelection(t *testing.T) {
	section := followupSection()
	for _, answers := range []model.AnswerMap{
		{},
		{"conditions": ""},
		{"conditions": nil},
		{"conditions": []string{}},
	} {
		assert.Empty(t, Materialize(&section, answers))
	}
}
