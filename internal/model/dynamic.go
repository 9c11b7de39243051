package model

import (
	"net/url"
	"strings"
)

// RuntimeID identifies a materialized follow-up question instance. It
// is a deterministic function of the template ID and the parent value
// that triggered it, so rebuilding the question list re-derives the
// same ID and answer lookups survive re-renders.
type RuntimeID struct {
	OriginalID  string
	ParentValue string
}

// NewRuntimeID derives the runtime ID for a (template, value) pair
func NewRuntimeID(originalID, parentValue string) RuntimeID {
	return RuntimeID{OriginalID: originalID, ParentValue: parentValue}
}

// String serializes the ID for the render/answer-map boundary. Both
// parts are escaped, so the encoding stays injective even when the
// parent value contains the separator.
func (id RuntimeID) String() string {
	return url.QueryEscape(id.OriginalID) + "@" + url.QueryEscape(id.ParentValue)
}

// ParseRuntimeID decodes a serialized runtime ID. The second return is
// false for plain question IDs.
func ParseRuntimeID(s string) (RuntimeID, bool) {
	sep := strings.LastIndex(s, "@")
	if sep < 0 {
		return RuntimeID{}, false
	}
	orig, err := url.QueryUnescape(s[:sep])
	if err != nil {
		return RuntimeID{}, false
	}
	val, err := url.QueryUnescape(s[sep+1:])
	if err != nil {
		return RuntimeID{}, false
	}
	return RuntimeID{OriginalID: orig, ParentValue: val}, true
}

// DynamicQuestion is a follow-up template instantiated at runtime for
// one selected value of its parent question. The embedded question
// carries the runtime ID as its ID and the substituted label.
type DynamicQuestion struct {
	FormQuestion `bson:",inline"`

	ParentID    string    `json:"parentId" bson:"parentId"`
	ParentValue string    `json:"parentValue" bson:"parentValue"`
	RuntimeID   RuntimeID `json:"-" bson:"-"`
	OriginalID  string    `json:"originalId" bson:"originalId"`
}
