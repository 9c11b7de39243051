package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAnswered(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"false", false, false},
		{"empty slice", []string{}, false},
		{"empty any slice", []interface{}{}, false},
		{"zero int", 0, true},
		{"zero string", "0", true},
		{"slice with value", []string{"a"}, true},
		{"non-empty string", "hello", true},
		{"true", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnswered(tt.value))
		})
	}
}

func TestSelectedValues(t *testing.T) {
	assert.Nil(t, SelectedValues(nil))
	assert.Nil(t, SelectedValues(""))
	assert.Empty(t, SelectedValues([]string{"", ""}))
	assert.Equal(t, []string{"a"}, SelectedValues("a"))
	assert.Equal(t, []string{"a", "b"}, SelectedValues([]string{"a", "", "b"}))
	assert.Equal(t, []string{"x"}, SelectedValues([]interface{}{"x", nil, ""}))
	assert.Nil(t, SelectedValues(false))
	assert.Equal(t, []string{"true"}, SelectedValues(true))
}

func TestAnswerMapClone(t *testing.T) {
	m := AnswerMap{"a": "1"}
	c := m.Clone()
	c["b"] = "2"
	assert.Len(t, m, 1)
	assert.Len(t, c, 2)
}
