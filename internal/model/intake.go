package model

import "time"

type IntakeStatus string

const (
	IntakeNew       IntakeStatus = "new"
	IntakeInReview  IntakeStatus = "in_review"
	IntakeCompleted IntakeStatus = "completed"
)

// ValidIntakeStatus reports whether s is a known triage status
func ValidIntakeStatus(s IntakeStatus) bool {
	switch s {
	case IntakeNew, IntakeInReview, IntakeCompleted:
		return true
	}
	return false
}

type SummaryStatus string

const (
	SummaryPending  SummaryStatus = "pending"
	SummaryReady    SummaryStatus = "ready"
	SummaryFailed   SummaryStatus = "failed"
	SummaryDisabled SummaryStatus = "disabled"
)

// ReviewNote is an optician's annotation on an intake
type ReviewNote struct {
	AuthorID  string    `json:"authorId" bson:"authorId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Intake is a submitted answer snapshot awaiting optician review
type Intake struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	FormID        string        `json:"formId" bson:"formId"`
	FormTitle     string        `json:"formTitle" bson:"formTitle"`
	SessionID     string        `json:"sessionId" bson:"sessionId"`
	Answers       AnswerMap     `json:"answers" bson:"answers"`
	Status        IntakeStatus  `json:"status" bson:"status"`
	Summary       string        `json:"summary,omitempty" bson:"summary,omitempty"`
	SummaryStatus SummaryStatus `json:"summaryStatus" bson:"summaryStatus"`
	Notes         []ReviewNote  `json:"notes,omitempty" bson:"notes,omitempty"`
	SubmittedAt   time.Time     `json:"submittedAt" bson:"submittedAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}
