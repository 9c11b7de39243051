package service

import (
	"context"
	"fmt"

	"anamnesis/internal/model"
	"anamnesis/internal/repository"
)

// ValidationIssue is an authoring-time defect in a template. These are
// surfaced to the builder; at patient runtime the same defects degrade
// silently (the question is simply never shown).
type ValidationIssue struct {
	SectionIndex int    `json:"sectionIndex"`
	QuestionID   string `json:"questionId,omitempty"`
	Message      string `json:"message"`
}

// FormService handles form template CRUD and authoring validation
type FormService struct {
	formRepo repository.FormRepo
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo) *FormService {
	return &FormService{
		formRepo: formRepo,
	}
}

// Create creates a new form template
func (s *FormService) Create(ctx context.Context, form *model.FormTemplate) (string, error) {
	return s.formRepo.Create(ctx, form)
}

// GetByID retrieves a form template by ID
func (s *FormService) GetByID(ctx context.Context, id string) (*model.FormTemplate, error) {
	return s.formRepo.GetByID(ctx, id)
}

// List retrieves all form templates
func (s *FormService) List(ctx context.Context) ([]*model.FormTemplate, error) {
	return s.formRepo.List(ctx)
}

// Update updates an existing form template
func (s *FormService) Update(ctx context.Context, form *model.FormTemplate) error {
	return s.formRepo.Update(ctx, form)
}

// Delete deletes a form template
func (s *FormService) Delete(ctx context.Context, id string) error {
	return s.formRepo.Delete(ctx, id)
}

// Validate checks a template for referential defects: duplicate
// question IDs, show_if conditions pointing at unknown questions, and
// follow-up references without a matching template in the same section.
func (s *FormService) Validate(form *model.FormTemplate) []ValidationIssue {
	var issues []ValidationIssue

	ids := make(map[string]bool)
	for si := range form.Sections {
		for qi := range form.Sections[si].Questions {
			q := &form.Sections[si].Questions[qi]
			if q.ID == "" {
				issues = append(issues, ValidationIssue{
					SectionIndex: si,
					Message:      "question without an id",
				})
				continue
			}
			if ids[q.ID] {
				issues = append(issues, ValidationIssue{
					SectionIndex: si,
					QuestionID:   q.ID,
					Message:      fmt.Sprintf("duplicate question id %q", q.ID),
				})
			}
			ids[q.ID] = true
		}
	}

	for si := range form.Sections {
		section := &form.Sections[si]
		if section.ShowIf != nil && section.ShowIf.Question != "" && !ids[section.ShowIf.Question] {
			issues = append(issues, ValidationIssue{
				SectionIndex: si,
				Message:      fmt.Sprintf("section condition references unknown question %q", section.ShowIf.Question),
			})
		}

		templates := make(map[string]bool)
		for qi := range section.Questions {
			if section.Questions[qi].IsFollowupTemplate {
				templates[section.Questions[qi].ID] = true
			}
		}

		for qi := range section.Questions {
			q := &section.Questions[qi]
			if q.ShowIf != nil && q.ShowIf.Question != "" && !ids[q.ShowIf.Question] {
				issues = append(issues, ValidationIssue{
					SectionIndex: si,
					QuestionID:   q.ID,
					Message:      fmt.Sprintf("condition references unknown question %q", q.ShowIf.Question),
				})
			}
			for _, fid := range q.FollowupQuestionIDs {
				if !templates[fid] {
					issues = append(issues, ValidationIssue{
						SectionIndex: si,
						QuestionID:   q.ID,
						Message:      fmt.Sprintf("follow-up reference %q has no template in this section", fid),
					})
				}
			}
			if q.IsFollowupTemplate && len(q.FollowupQuestionIDs) > 0 {
				issues = append(issues, ValidationIssue{
					SectionIndex: si,
					QuestionID:   q.ID,
					Message:      "a follow-up template cannot declare follow-ups of its own",
				})
			}
		}
	}

	return issues
}
