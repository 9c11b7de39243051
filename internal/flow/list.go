package flow

import "anamnesis/internal/model"

// Policy selects how the flattened question list is built
type Policy string

const (
	// PolicyStable includes every question and every possible
	// follow-up placeholder up front so indices stay stable across
	// answer changes; visibility is re-checked during navigation.
	PolicyStable Policy = "stable"
	// PolicyFiltered includes only currently visible questions and is
	// rebuilt on every relevant answer change.
	PolicyFiltered Policy = "filtered"
)

// ParsePolicy maps a request string to a policy, defaulting to stable
func ParsePolicy(s string) Policy {
	if s == string(PolicyFiltered) {
		return PolicyFiltered
	}
	return PolicyStable
}

// FlatQuestion is one entry of the flattened question list: the
// question (materialized for dynamic entries), its owning section and
// indices, and enough condition context to re-check visibility lazily.
type FlatQuestion struct {
	Question      model.FormQuestion
	SectionTitle  string
	SectionIndex  int
	QuestionIndex int
	Dynamic       *model.DynamicQuestion // nil for authored questions
	sectionShowIf *model.Condition
}

// RuntimeID returns the entry's answer-map key
func (f *FlatQuestion) RuntimeID() string {
	return f.Question.ID
}

// VisibleNow re-checks the entry against the live answer map: section
// condition, question condition, and for dynamic entries that the
// parent currently has the triggering value selected.
func (f *FlatQuestion) VisibleNow(answers model.AnswerMap) bool {
	if !ConditionMet(f.sectionShowIf, answers) {
		return false
	}
	if !ConditionMet(f.Question.ShowIf, answers) {
		return false
	}
	if f.Dynamic != nil {
		for _, v := range model.SelectedValues(answers[f.Dynamic.ParentID]) {
			if v == f.Dynamic.ParentValue {
				return true
			}
		}
		return false
	}
	return true
}

// Build flattens a template into the ordered list of answerable
// questions for the given audience and policy. Follow-up templates are
// never listed directly and the answer map is never mutated.
func Build(form *model.FormTemplate, answers model.AnswerMap, audience model.ShowInMode, policy Policy) []FlatQuestion {
	var out []FlatQuestion
	seen := make(map[string]bool)
	for si := range form.Sections {
		section := &form.Sections[si]
		if policy == PolicyFiltered && !SectionVisible(section, answers) {
			continue
		}
		qi := 0
		for i := range section.Questions {
			q := &section.Questions[i]
			if q.IsFollowupTemplate || !q.AllowsAudience(audience) {
				continue
			}
			if policy == PolicyFiltered && !IsVisible(q, answers) {
				continue
			}
			out = append(out, FlatQuestion{
				Question:      *q,
				SectionTitle:  section.Title,
				SectionIndex:  si,
				QuestionIndex: qi,
				sectionShowIf: section.ShowIf,
			})
			qi++
		}

		var dynamics []model.DynamicQuestion
		if policy == PolicyFiltered {
			dynamics = Materialize(section, answers)
		} else {
			dynamics = materializeForOptions(section, seen)
		}
		for di := range dynamics {
			dyn := dynamics[di]
			if !dyn.AllowsAudience(audience) {
				continue
			}
			if policy == PolicyFiltered {
				key := dyn.RuntimeID.String()
				if seen[key] {
					continue
				}
				seen[key] = true
				if !ConditionMet(dyn.ShowIf, answers) {
					continue
				}
			}
			out = append(out, FlatQuestion{
				Question:      dyn.FormQuestion,
				SectionTitle:  section.Title,
				SectionIndex:  si,
				QuestionIndex: qi,
				Dynamic:       &dynamics[di],
				sectionShowIf: section.ShowIf,
			})
			qi++
		}
	}
	return out
}
