package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"anamnesis/internal/model"
)

func TestIsVisibleNoCondition(t *testing.T) {
	q := model.FormQuestion{ID: "q1", Label: "Name"}
	assert.True(t, IsVisible(&q, model.AnswerMap{}))
	assert.True(t, IsVisible(&q, nil))
}

func TestIsVisibleEquals(t *testing.T) {
	q := model.FormQuestion{
		ID:     "dep",
		ShowIf: &model.Condition{Question: "Q", Equals: "X"},
	}

	tests := []struct {
		name    string
		answers model.AnswerMap
		want    bool
	}{
		{"scalar match", model.AnswerMap{"Q": "X"}, true},
		{"scalar mismatch", model.AnswerMap{"Q": "Y"}, false},
		{"array containing target", model.AnswerMap{"Q": []string{"X", "Y"}}, true},
		{"array without target", model.AnswerMap{"Q": []string{"Y", "Z"}}, false},
		{"unanswered prerequisite", model.AnswerMap{}, false},
		{"nil answer", model.AnswerMap{"Q": nil}, false},
		{"substring is not equality", model.AnswerMap{"Q": "XY"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(&q, tt.answers))
		})
	}
}

func TestIsVisibleEqualsList(t *testing.T) {
	q := model.FormQuestion{
		ID:     "dep",
		ShowIf: &model.Condition{Question: "Q", Equals: []string{"a", "b"}},
	}
	assert.True(t, IsVisible(&q, model.AnswerMap{"Q": "b"}))
	assert.False(t, IsVisible(&q, model.AnswerMap{"Q": "c"}))
	assert.True(t, IsVisible(&q, model.AnswerMap{"Q": []string{"c", "a"}}))
}

func TestIsVisibleContains(t *testing.T) {
	// checkbox answer, membership semantics
	q := model.FormQuestion{
		ID:     "dep",
		ShowIf: &model.Condition{Question: "Q", Contains: "b"},
	}
	assert.True(t, IsVisible(&q, model.AnswerMap{"Q": []string{"a", "b"}}))

	eq := model.FormQuestion{
		ID:     "dep2",
		ShowIf: &model.Condition{Question: "Q", Equals: []string{"c", "d"}},
	}
	assert.False(t, IsVisible(&eq, model.AnswerMap{"Q": []string{"a", "b"}}))

	// string answer, substring semantics
	assert.True(t, IsVisible(&q, model.AnswerMap{"Q": "abc"}))
	assert.False(t, IsVisible(&q, model.AnswerMap{"Q": "acd"}))
}

func TestIsVisibleMalformedCondition(t *testing.T) {
	// neither equals nor contains: treated as no condition
	q := model.FormQuestion{
		ID:     "dep",
		ShowIf: &model.Condition{Question: "Q"},
	}
	assert.True(t, IsVisible(&q, model.AnswerMap{}))

	// missing target question: no condition either
	empty := model.FormQuestion{ID: "dep2", ShowIf: &model.Condition{Equals: "X"}}
	assert.True(t, IsVisible(&empty, model.AnswerMap{}))

	// empty condition value never matches
	never := model.FormQuestion{
		ID:     "dep3",
		ShowIf: &model.Condition{Question: "Q", Equals: ""},
	}
	assert.False(t, IsVisible(&never, model.AnswerMap{"Q": "anything"}))
}

func TestSectionVisible(t *testing.T) {
	s := model.FormSection{
		Title:  "Contact lenses",
		ShowIf: &model.Condition{Question: "wears_lenses", Equals: "yes"},
	}
	assert.True(t, SectionVisible(&s, model.AnswerMap{"wears_lenses": "yes"}))
	assert.False(t, SectionVisible(&s, model.AnswerMap{"wears_lenses": "no"}))
	assert.False(t, SectionVisible(&s, model.AnswerMap{}))
}

func TestEvaluatorMemoizes(t *testing.T) {
	e := NewEvaluator()
	q := model.FormQuestion{
		ID:     "dep",
		ShowIf: &model.Condition{Question: "Q", Equals: "X"},
	}
	answers := model.AnswerMap{"Q": "X"}
	assert.True(t, e.IsVisible(&q, answers))
	assert.True(t, e.IsVisible(&q, answers))
	assert.Equal(t, 1, e.Len())

	// changed answer of interest is a distinct entry
	assert.False(t, e.IsVisible(&q, model.AnswerMap{"Q": "Y"}))
	assert.Equal(t, 2, e.Len())
}

func TestEvaluatorEvictsOldest(t *testing.T) {
	e := NewEvaluator()
	q := model.FormQuestion{
		ID:     "dep",
		ShowIf: &model.Condition{Question: "Q", Equals: "X"},
	}
	for i := 0; i < evaluatorCacheSize+20; i++ {
		e.IsVisible(&q, model.AnswerMap{"Q": fmt.Sprintf("v%d", i)})
	}
	assert.Equal(t, evaluatorCacheSize, e.Len())
}
