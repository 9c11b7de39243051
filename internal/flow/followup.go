package flow

import (
	"strings"

	"anamnesis/internal/model"
)

// optionPlaceholder is substituted with the triggering parent value
// when a follow-up template is materialized.
const optionPlaceholder = "{option}"

// Materialize instantiates the section's follow-up templates for every
// selected value of every triggering question. Results are ordered by
// parent question, then by the parent's selection order, and
// deduplicated by runtime ID so the same (template, value) pair is
// never produced twice even when referenced from multiple parents.
// Unresolvable template IDs are skipped; that is an authoring gap, not
// a runtime failure.
func Materialize(section *model.FormSection, answers model.AnswerMap) []model.DynamicQuestion {
	var templates map[string]*model.FormQuestion
	for i := range section.Questions {
		if section.Questions[i].IsFollowupTemplate {
			if templates == nil {
				templates = make(map[string]*model.FormQuestion)
			}
			templates[section.Questions[i].ID] = &section.Questions[i]
		}
	}
	if templates == nil {
		return nil
	}

	var out []model.DynamicQuestion
	seen := make(map[string]bool)
	for i := range section.Questions {
		q := &section.Questions[i]
		if q.IsFollowupTemplate || len(q.FollowupQuestionIDs) == 0 {
			continue
		}
		for _, value := range model.SelectedValues(answers[q.ID]) {
			for _, templateID := range q.FollowupQuestionIDs {
				tpl, ok := templates[templateID]
				if !ok {
					continue
				}
				dyn := instantiate(tpl, q.ID, value)
				key := dyn.RuntimeID.String()
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, dyn)
			}
		}
	}
	return out
}

// instantiate copies a template for one parent value, substituting the
// {option} placeholder and assigning the runtime ID.
func instantiate(tpl *model.FormQuestion, parentID, value string) model.DynamicQuestion {
	rid := model.NewRuntimeID(tpl.ID, value)
	q := *tpl
	q.ID = rid.String()
	q.Label = strings.ReplaceAll(tpl.Label, optionPlaceholder, value)
	q.IsFollowupTemplate = false
	q.FollowupQuestionIDs = nil
	return model.DynamicQuestion{
		FormQuestion: q,
		ParentID:     parentID,
		ParentValue:  value,
		RuntimeID:    rid,
		OriginalID:   tpl.ID,
	}
}

// materializeForOptions expands every possible (template, option) pair
// for the stable-list policy, regardless of current selections.
func materializeForOptions(section *model.FormSection, seen map[string]bool) []model.DynamicQuestion {
	var templates map[string]*model.FormQuestion
	for i := range section.Questions {
		if section.Questions[i].IsFollowupTemplate {
			if templates == nil {
				templates = make(map[string]*model.FormQuestion)
			}
			templates[section.Questions[i].ID] = &section.Questions[i]
		}
	}
	if templates == nil {
		return nil
	}

	var out []model.DynamicQuestion
	for i := range section.Questions {
		q := &section.Questions[i]
		if q.IsFollowupTemplate || len(q.FollowupQuestionIDs) == 0 {
			continue
		}
		// Free-text parents have no enumerable options; their
		// follow-ups only exist under the filtered policy.
		for _, option := range q.Options {
			for _, templateID := range q.FollowupQuestionIDs {
				tpl, ok := templates[templateID]
				if !ok {
					continue
				}
				dyn := instantiate(tpl, q.ID, option)
				key := dyn.RuntimeID.String()
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, dyn)
			}
		}
	}
	return out
}
