package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"anamnesis/internal/model"
	"anamnesis/internal/repository"
	"anamnesis/internal/service"
	"anamnesis/internal/transport/rest/middleware"
)

// ReviewHandler handles the optician review endpoints
type ReviewHandler struct {
	reviewSvc *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewSvc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// List handles GET /v1/intakes
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.IntakeFilter{
		FormID: r.URL.Query().Get("formId"),
		Status: model.IntakeStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !model.ValidIntakeStatus(filter.Status) {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	intakes, err := h.reviewSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"intakes": intakes})
}

// Get handles GET /v1/intakes/{intakeId}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	intakeID := mux.Vars(r)["intakeId"]

	intake, err := h.reviewSvc.Get(r.Context(), intakeID)
	if err != nil {
		writeReviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, intake)
}

// UpdateStatusRequest is the request body for a status transition
type UpdateStatusRequest struct {
	Status model.IntakeStatus `json:"status"`
}

// UpdateStatus handles PUT /v1/intakes/{intakeId}/status
func (h *ReviewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	intakeID := mux.Vars(r)["intakeId"]

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intake, err := h.reviewSvc.UpdateStatus(r.Context(), intakeID, req.Status)
	if err != nil {
		writeReviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, intake)
}

// AddNoteRequest is the request body for annotating an intake
type AddNoteRequest struct {
	Text string `json:"text"`
}

// AddNote handles POST /v1/intakes/{intakeId}/notes
func (h *ReviewHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	intakeID := mux.Vars(r)["intakeId"]
	staffID := middleware.GetStaffID(r.Context())

	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intake, err := h.reviewSvc.AddNote(r.Context(), intakeID, staffID, req.Text)
	if err != nil {
		writeReviewError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, intake)
}

// Stats handles GET /v1/review/stats
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	stats, err := h.reviewSvc.Stats(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrIntakeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrEmptyNote):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
