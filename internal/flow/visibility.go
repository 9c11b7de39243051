// Package flow implements the conditional-visibility, follow-up
// materialization and navigation logic of the intake renderer. All
// functions are pure over the form template and answer map; nothing
// here mutates answers or touches storage.
package flow

import (
	"fmt"
	"strings"

	"anamnesis/internal/model"
)

// conditionValues normalizes a condition target (string or list of
// strings) to the set of values it matches against.
func conditionValues(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if e == nil {
				continue
			}
			if s := fmt.Sprint(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

// answerValues splits an answer into its array form, or nil plus the
// scalar string when the answer is not an array.
func answerValues(raw interface{}) (list []string, scalar string, isList bool) {
	switch val := raw.(type) {
	case []string:
		return val, "", true
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, e := range val {
			out = append(out, fmt.Sprint(e))
		}
		return out, "", true
	case nil:
		return nil, "", false
	case string:
		return nil, val, false
	default:
		return nil, fmt.Sprint(val), false
	}
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ConditionMet evaluates a show_if predicate against the answers.
// Array answers use membership semantics for both operators; scalar
// answers use exact match for equals and substring match for contains.
// A missing or malformed condition counts as satisfied; an unanswered
// prerequisite never does.
func ConditionMet(c *model.Condition, answers model.AnswerMap) bool {
	if c == nil || c.Question == "" {
		return true
	}
	if c.Contains == nil && c.Equals == nil {
		// malformed shape, treat as no condition
		return true
	}

	raw, answered := answers[c.Question]
	if !answered || raw == nil {
		return false
	}
	list, scalar, isList := answerValues(raw)

	if c.Contains != nil {
		want := conditionValues(c.Contains)
		if len(want) == 0 {
			return false
		}
		if isList {
			return intersects(list, want)
		}
		for _, w := range want {
			if strings.Contains(scalar, w) {
				return true
			}
		}
		return false
	}

	want := conditionValues(c.Equals)
	if len(want) == 0 {
		return false
	}
	if isList {
		return intersects(list, want)
	}
	for _, w := range want {
		if scalar == w {
			return true
		}
	}
	return false
}

// IsVisible reports whether a question is currently visible
func IsVisible(q *model.FormQuestion, answers model.AnswerMap) bool {
	return ConditionMet(q.ShowIf, answers)
}

// SectionVisible reports whether a section is currently visible
func SectionVisible(s *model.FormSection, answers model.AnswerMap) bool {
	return ConditionMet(s.ShowIf, answers)
}

const evaluatorCacheSize = 100

// Evaluator memoizes visibility checks keyed by the question, its
// condition and the referenced answer. Safe to call every render; the
// cache evicts oldest entries past a fixed size so it cannot grow
// unbounded across a long session.
type Evaluator struct {
	entries map[string]bool
	order   []string
}

func NewEvaluator() *Evaluator {
	return &Evaluator{entries: make(map[string]bool)}
}

func (e *Evaluator) IsVisible(q *model.FormQuestion, answers model.AnswerMap) bool {
	if q.ShowIf == nil {
		return true
	}
	key := cacheKey(q.ID, q.ShowIf, answers)
	if v, ok := e.entries[key]; ok {
		return v
	}
	v := ConditionMet(q.ShowIf, answers)
	e.entries[key] = v
	e.order = append(e.order, key)
	if len(e.order) > evaluatorCacheSize {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.entries, oldest)
	}
	return v
}

// Len returns the number of memoized entries
func (e *Evaluator) Len() int {
	return len(e.entries)
}

func cacheKey(id string, c *model.Condition, answers model.AnswerMap) string {
	return fmt.Sprintf("%s|%s|%v|%v|%v", id, c.Question, c.Equals, c.Contains, answers[c.Question])
}
