package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"anamnesis/internal/service"
	"anamnesis/internal/transport/rest/middleware"
)

// SessionHandler handles patient session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// AnswerRequest is the request body for saving an answer
type AnswerRequest struct {
	Value interface{} `json:"value"`
}

// Start handles POST /v1/forms/{formId}/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	policy := r.URL.Query().Get("policy")

	resp, err := h.sessionSvc.Start(r.Context(), formID, policy)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// sessionID returns the path session ID after checking it against the
// token's claim; a valid token for one session opens no other.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["sessionId"]
	if middleware.GetSessionID(r.Context()) != id {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return "", false
	}
	return id, true
}

// Current handles GET /v1/sessions/{sessionId}/question/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessionSvc.Current(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// SaveAnswer handles PUT /v1/sessions/{sessionId}/answers/{questionId}
func (h *SessionHandler) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	questionID := mux.Vars(r)["questionId"]

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.sessionSvc.SetAnswer(r.Context(), id, questionID, req.Value)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Next handles POST /v1/sessions/{sessionId}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, true)
}

// Previous handles POST /v1/sessions/{sessionId}/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, false)
}

func (h *SessionHandler) navigate(w http.ResponseWriter, r *http.Request, forward bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessionSvc.Navigate(r.Context(), id, forward)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Submit handles POST /v1/sessions/{sessionId}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	intake, err := h.sessionSvc.Submit(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"intakeId":      intake.ID,
		"summaryStatus": intake.SummaryStatus,
	})
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrFormNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
