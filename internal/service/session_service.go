package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"anamnesis/internal/cache"
	"anamnesis/internal/flow"
	"anamnesis/internal/model"
	"anamnesis/internal/repository"
)

var (
	ErrFormNotFound    = errors.New("form not found")
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrSessionClosed   = errors.New("session already submitted")
)

// stuckAfter is how many consecutive failed transitions mark the
// session stuck across requests; the per-request navigator cannot
// accumulate them itself.
const stuckAfter = 3

// SessionService drives a patient intake session: it owns the session
// lifecycle in Redis and runs the flow engine over the live answer map
// on every request. The flattened list and navigator are rebuilt per
// request from the persisted position, so the service itself stays
// stateless.
type SessionService struct {
	formRepo       repository.FormRepo
	intakeRepo     repository.IntakeRepo
	sessionCache   cache.SessionCache
	statsCache     cache.StatsCache
	authService    *AuthService
	summaryClient  *SummaryClient
	summaryEnabled bool
	broadcaster    Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	formRepo repository.FormRepo,
	intakeRepo repository.IntakeRepo,
	sessionCache cache.SessionCache,
	statsCache cache.StatsCache,
	authService *AuthService,
	summaryClient *SummaryClient,
	summaryEnabled bool,
) *SessionService {
	return &SessionService{
		formRepo:       formRepo,
		intakeRepo:     intakeRepo,
		sessionCache:   sessionCache,
		statsCache:     statsCache,
		authService:    authService,
		summaryClient:  summaryClient,
		summaryEnabled: summaryEnabled,
	}
}

// SetBroadcaster wires the WebSocket broadcaster after construction
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// sessionState is everything a request needs to run the flow engine
type sessionState struct {
	session *model.Session
	form    *model.FormTemplate
	answers model.AnswerMap
	list    []flow.FlatQuestion
	nav     *flow.Navigator
	stuck   bool
}

func (s *SessionService) loadState(ctx context.Context, sessionID string) (*sessionState, error) {
	session, err := s.sessionCache.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	form, err := s.formRepo.GetByID(ctx, session.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	answers, err := s.sessionCache.GetAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pos, err := s.sessionCache.GetPosition(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	policy := flow.ParsePolicy(session.Policy)
	list := flow.Build(form, answers, model.ShowInMode(session.Audience), policy)

	return &sessionState{
		session: session,
		form:    form,
		answers: answers,
		list:    list,
		nav:     flow.NewNavigatorAt(list, policy, pos),
	}, nil
}

func (st *sessionState) view() *model.QuestionView {
	cur, ok := st.nav.Current()
	if !ok {
		return nil
	}
	return &model.QuestionView{
		Question:     cur.Question,
		SectionTitle: cur.SectionTitle,
		Index:        st.nav.Index(),
		Total:        st.nav.Len(),
		Progress:     st.nav.Progress(),
		Answered:     st.nav.CurrentAnswered(st.answers),
		Last:         st.nav.Last(),
		Stuck:        st.stuck || st.nav.Stuck(),
	}
}

// Start opens a new patient session on a form. The session begins at
// the first question that is visible against an empty answer map.
func (s *SessionService) Start(ctx context.Context, formID, policy string) (*model.SessionStartResponse, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	sessionID := "s_" + uuid.New().String()[:8]
	now := time.Now()
	session := &model.Session{
		ID:           sessionID,
		FormID:       formID,
		Policy:       string(flow.ParsePolicy(policy)),
		Audience:     string(model.ShowModePatient),
		Status:       model.SessionActive,
		StartedAt:    now,
		LastActiveAt: now,
	}

	token, err := s.authService.GenerateSessionToken(sessionID, formID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionCache.SetSession(ctx, session); err != nil {
		return nil, err
	}

	list := flow.Build(form, nil, model.ShowModePatient, flow.ParsePolicy(session.Policy))
	pos := 0
	for i := range list {
		if list[i].VisibleNow(nil) {
			pos = i
			break
		}
	}
	if err := s.sessionCache.SetPosition(ctx, sessionID, pos); err != nil {
		return nil, err
	}

	st := &sessionState{
		session: session,
		form:    form,
		answers: nil,
		list:    list,
		nav:     flow.NewNavigatorAt(list, flow.ParsePolicy(session.Policy), pos),
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("formId", formID).
		Str("policy", session.Policy).
		Msg("session started")

	return &model.SessionStartResponse{
		SessionID: sessionID,
		Token:     token,
		Kiosk:     form.Kiosk,
		FormTitle: form.Title,
		Question:  st.view(),
	}, nil
}

// Current returns the view of the current question
func (s *SessionService) Current(ctx context.Context, sessionID string) (*model.QuestionView, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return st.view(), nil
}

// SetAnswer records one answer and returns the refreshed view. Under
// the filtered policy the list is rebuilt, so follow-ups appear or
// disappear immediately; the persisted index is clamped by the
// navigator when the list shrinks.
func (s *SessionService) SetAnswer(ctx context.Context, sessionID, questionID string, value interface{}) (*model.QuestionView, error) {
	session, err := s.sessionCache.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	if err := s.sessionCache.SetAnswer(ctx, sessionID, questionID, value); err != nil {
		return nil, err
	}

	// a changed answer may open a path forward, so the stuck counter resets
	if err := s.sessionCache.ClearNoMove(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("sessionId", sessionID).Msg("failed to reset stuck counter")
	}

	session.LastActiveAt = time.Now()
	if err := s.sessionCache.SetSession(ctx, session); err != nil {
		return nil, err
	}

	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return st.view(), nil
}

// Navigate moves one step forward or backward. A move that finds no
// visible question is a no-op and returns the unchanged view.
func (s *SessionService) Navigate(ctx context.Context, sessionID string, forward bool) (*model.QuestionView, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st.session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	var moved bool
	if forward {
		moved = st.nav.Next(st.answers)
	} else {
		moved = st.nav.Previous(st.answers)
	}
	// the transition animation lives on the client; per-request
	// navigators release the guard before persisting
	st.nav.EndTransition()

	if moved {
		if err := s.sessionCache.SetPosition(ctx, sessionID, st.nav.Index()); err != nil {
			return nil, err
		}
		if err := s.sessionCache.ClearNoMove(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("sessionId", sessionID).Msg("failed to reset stuck counter")
		}
	} else {
		n, err := s.sessionCache.IncrNoMove(ctx, sessionID)
		if err != nil {
			log.Warn().Err(err).Str("sessionId", sessionID).Msg("failed to count failed transition")
		}
		st.stuck = n >= stuckAfter
	}
	return st.view(), nil
}

// Submit freezes the answer map into an intake, closes the session and
// kicks off summary generation in the background.
func (s *SessionService) Submit(ctx context.Context, sessionID string) (*model.Intake, error) {
	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st.session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	summaryStatus := model.SummaryDisabled
	if s.summaryEnabled {
		summaryStatus = model.SummaryPending
	}

	now := time.Now()
	intake := &model.Intake{
		FormID:        st.session.FormID,
		FormTitle:     st.form.Title,
		SessionID:     sessionID,
		Answers:       st.answers.Clone(),
		Status:        model.IntakeNew,
		SummaryStatus: summaryStatus,
		SubmittedAt:   now,
	}

	intakeID, err := s.intakeRepo.Create(ctx, intake)
	if err != nil {
		return nil, err
	}

	st.session.Status = model.SessionSubmitted
	st.session.SubmittedAt = &now
	if err := s.sessionCache.SetSession(ctx, st.session); err != nil {
		return nil, err
	}

	if err := s.statsCache.IncrStatus(ctx, string(model.IntakeNew)); err != nil {
		log.Warn().Err(err).Str("intakeId", intakeID).Msg("failed to bump status counter")
	}
	if err := s.statsCache.RecordSubmission(ctx, intakeID, now); err != nil {
		log.Warn().Err(err).Str("intakeId", intakeID).Msg("failed to record submission")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToStaff("intake_submitted", map[string]interface{}{
			"intakeId":    intakeID,
			"formId":      intake.FormID,
			"formTitle":   intake.FormTitle,
			"submittedAt": now,
		})
	}

	if s.summaryEnabled {
		go s.generateSummary(intake)
	}

	log.Info().
		Str("sessionId", sessionID).
		Str("intakeId", intakeID).
		Int("answers", len(intake.Answers)).
		Msg("intake submitted")

	return intake, nil
}

// generateSummary runs detached from the submit request; the patient
// never waits on the summary function.
func (s *SessionService) generateSummary(intake *model.Intake) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	summary, err := s.summaryClient.Summarize(ctx, intake)
	if err != nil {
		log.Warn().Err(err).Str("intakeId", intake.ID).Msg("summary generation failed")
		if err := s.intakeRepo.SetSummary(ctx, intake.ID, "", model.SummaryFailed); err != nil {
			log.Error().Err(err).Str("intakeId", intake.ID).Msg("failed to mark summary failed")
		}
		return
	}

	if err := s.intakeRepo.SetSummary(ctx, intake.ID, summary, model.SummaryReady); err != nil {
		log.Error().Err(err).Str("intakeId", intake.ID).Msg("failed to store summary")
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToStaff("summary_ready", map[string]interface{}{
			"intakeId": intake.ID,
		})
	}
}
