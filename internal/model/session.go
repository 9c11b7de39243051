package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSubmitted SessionStatus = "submitted"
	SessionExpired   SessionStatus = "expired"
)

// Session is the live state of one patient filling a form. Answers and
// the navigation position live in Redis beside it; the session record
// itself only carries identity and lifecycle.
type Session struct {
	ID           string        `json:"id"`
	FormID       string        `json:"formId"`
	Policy       string        `json:"policy"`   // "stable" or "filtered"
	Audience     string        `json:"audience"` // fixed to patient for patient-facing sessions
	Status       SessionStatus `json:"status"`
	StartedAt    time.Time     `json:"startedAt"`
	LastActiveAt time.Time     `json:"lastActiveAt"`
	SubmittedAt  *time.Time    `json:"submittedAt,omitempty"`
}

// SessionStartResponse is returned when a patient session is opened
type SessionStartResponse struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	Kiosk     *KioskConfig  `json:"kioskMode,omitempty"`
	FormTitle string        `json:"formTitle"`
	Question  *QuestionView `json:"question,omitempty"`
}

// QuestionView is what the field renderer needs for the current
// question: the (possibly materialized) question, its position, and
// the controller's derived state.
type QuestionView struct {
	Question     FormQuestion `json:"question"`
	SectionTitle string       `json:"sectionTitle"`
	Index        int          `json:"index"`
	Total        int          `json:"total"`
	Progress     float64      `json:"progress"`
	Answered     bool         `json:"answered"`
	Last         bool         `json:"last"`
	Stuck        bool         `json:"stuck,omitempty"`
}
