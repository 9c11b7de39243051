package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anamnesis/internal/model"
)

func validTemplate() *model.FormTemplate {
	return &model.FormTemplate{
		Title: "Intake",
		Sections: []model.FormSection{
			{
				Title: "Complaints",
				Questions: []model.FormQuestion{
					{
						ID:      "has_complaints",
						Label:   "Any complaints?",
						Type:    model.QuestionTypeRadio,
						Options: []string{"yes", "no"},
					},
					{
						ID:                  "complaints",
						Label:               "Which ones?",
						Type:                model.QuestionTypeCheckbox,
						Options:             []string{"Blurred vision", "Headaches"},
						ShowIf:              &model.Condition{Question: "has_complaints", Equals: "yes"},
						FollowupQuestionIDs: []string{"complaint_detail"},
					},
					{
						ID:                 "complaint_detail",
						Label:              "Tell us more about {option}.",
						Type:               model.QuestionTypeTextarea,
						IsFollowupTemplate: true,
					},
				},
			},
		},
	}
}

func TestValidateAcceptsWellFormedTemplate(t *testing.T) {
	svc := NewFormService(nil)

	issues := svc.Validate(validTemplate())
	assert.Empty(t, issues)
}

func TestValidateFlagsDuplicateAndMissingIDs(t *testing.T) {
	svc := NewFormService(nil)

	form := validTemplate()
	form.Sections[0].Questions = append(form.Sections[0].Questions,
		model.FormQuestion{ID: "has_complaints", Label: "dup", Type: model.QuestionTypeText},
		model.FormQuestion{Label: "anonymous", Type: model.QuestionTypeText},
	)

	issues := svc.Validate(form)
	assert.Len(t, issues, 2)
}

func TestValidateFlagsDanglingConditionReference(t *testing.T) {
	svc := NewFormService(nil)

	form := validTemplate()
	form.Sections[0].Questions[1].ShowIf = &model.Condition{Question: "no_such_question", Equals: "yes"}

	issues := svc.Validate(form)
	assert.Len(t, issues, 1)
	assert.Equal(t, "complaints", issues[0].QuestionID)
}

func TestValidateFlagsFollowupWithoutTemplateInSection(t *testing.T) {
	svc := NewFormService(nil)

	form := validTemplate()
	// move the template into its own section; the reference must stay local
	tpl := form.Sections[0].Questions[2]
	form.Sections[0].Questions = form.Sections[0].Questions[:2]
	form.Sections = append(form.Sections, model.FormSection{
		Title:     "Elsewhere",
		Questions: []model.FormQuestion{tpl},
	})

	issues := svc.Validate(form)
	assert.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "complaint_detail")
}

func TestValidateFlagsTemplateDeclaringFollowups(t *testing.T) {
	svc := NewFormService(nil)

	form := validTemplate()
	form.Sections[0].Questions[2].FollowupQuestionIDs = []string{"complaint_detail"}

	issues := svc.Validate(form)
	assert.Len(t, issues, 1)
}
