package model

import "time"

// QuestionType defines the input type of a question
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeTextarea QuestionType = "textarea"
	QuestionTypeRadio    QuestionType = "radio"
	QuestionTypeCheckbox QuestionType = "checkbox"
	QuestionTypeDropdown QuestionType = "dropdown"
	QuestionTypeDate     QuestionType = "date"
	QuestionTypeNumber   QuestionType = "number"
	QuestionTypeEmail    QuestionType = "email"
	QuestionTypeTel      QuestionType = "tel"
	QuestionTypeURL      QuestionType = "url"
	QuestionTypeInfo     QuestionType = "info" // display-only, never answered
)

// ShowInMode restricts a question to an audience
type ShowInMode string

const (
	ShowModePatient  ShowInMode = "patient"
	ShowModeOptician ShowInMode = "optician"
	ShowModeAll      ShowInMode = "all"
)

// Condition gates visibility of a question or section on another
// question's answer. Exactly one of Equals/Contains is meaningful;
// either may hold a string or a list of strings.
type Condition struct {
	Question string      `json:"question" bson:"question"`
	Equals   interface{} `json:"equals,omitempty" bson:"equals,omitempty"`
	Contains interface{} `json:"contains,omitempty" bson:"contains,omitempty"`
}

// FormQuestion is a question definition inside a section
type FormQuestion struct {
	ID                  string       `json:"id" bson:"id"` // unique within a template
	Label               string       `json:"label" bson:"label"`
	Type                QuestionType `json:"type" bson:"type"`
	Options             []string     `json:"options,omitempty" bson:"options,omitempty"`
	Required            bool         `json:"required,omitempty" bson:"required,omitempty"`
	ShowIf              *Condition   `json:"showIf,omitempty" bson:"showIf,omitempty"`
	ShowInMode          ShowInMode   `json:"showInMode,omitempty" bson:"showInMode,omitempty"` // empty means all
	FollowupQuestionIDs []string     `json:"followupQuestionIds,omitempty" bson:"followupQuestionIds,omitempty"`
	IsFollowupTemplate  bool         `json:"isFollowupTemplate,omitempty" bson:"isFollowupTemplate,omitempty"`
	HelpText            string       `json:"helpText,omitempty" bson:"helpText,omitempty"`
	Placeholder         string       `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
}

// FormSection is a named, ordered group of questions
type FormSection struct {
	Title     string         `json:"sectionTitle" bson:"sectionTitle"`
	ShowIf    *Condition     `json:"showIf,omitempty" bson:"showIf,omitempty"`
	Questions []FormQuestion `json:"questions" bson:"questions"`
}

// KioskConfig configures unattended in-store use of a template
type KioskConfig struct {
	Enabled      bool   `json:"enabled" bson:"enabled"`
	IdleResetSec int    `json:"idleResetSec,omitempty" bson:"idleResetSec,omitempty"`
	WelcomeText  string `json:"welcomeText,omitempty" bson:"welcomeText,omitempty"`
}

// FormTemplate is the author-defined description of an intake form.
// Immutable during a session; only the builder mutates it.
type FormTemplate struct {
	ID              string                 `json:"id" bson:"_id,omitempty"`
	Title           string                 `json:"title" bson:"title"`
	Sections        []FormSection          `json:"sections" bson:"sections"`
	QuestionPresets []FormQuestion         `json:"questionPresets,omitempty" bson:"questionPresets,omitempty"`
	ScoringConfig   map[string]interface{} `json:"scoringConfig,omitempty" bson:"scoringConfig,omitempty"`
	Kiosk           *KioskConfig           `json:"kioskMode,omitempty" bson:"kioskMode,omitempty"`
	CreatedBy       string                 `json:"createdBy" bson:"createdBy"`
	CreatedAt       time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// QuestionByID finds a question anywhere in the template
func (t *FormTemplate) QuestionByID(id string) *FormQuestion {
	for si := range t.Sections {
		for qi := range t.Sections[si].Questions {
			if t.Sections[si].Questions[qi].ID == id {
				return &t.Sections[si].Questions[qi]
			}
		}
	}
	return nil
}

// AllowsAudience reports whether the question is shown to the given audience
func (q *FormQuestion) AllowsAudience(audience ShowInMode) bool {
	if q.ShowInMode == "" || q.ShowInMode == ShowModeAll || audience == "" {
		return true
	}
	return q.ShowInMode == audience
}
