package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"anamnesis/internal/model"
	"anamnesis/internal/service"
	"anamnesis/internal/transport/rest/middleware"
)

// FormHandler handles form template endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	staffID := middleware.GetStaffID(r.Context())
	if staffID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var form model.FormTemplate
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if issues := h.formSvc.Validate(&form); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"issues": issues})
		return
	}

	form.CreatedBy = staffID
	id, err := h.formSvc.Create(r.Context(), &form)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"formId": id})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	form, err := h.formSvc.GetByID(r.Context(), formID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if form == nil {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	var form model.FormTemplate
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	form.ID = formID

	if issues := h.formSvc.Validate(&form); len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"issues": issues})
		return
	}

	if err := h.formSvc.Update(r.Context(), &form); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &form)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	if err := h.formSvc.Delete(r.Context(), formID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Validate handles POST /v1/forms/validate, a dry-run check for the
// template builder that never persists anything.
func (h *FormHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var form model.FormTemplate
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	issues := h.formSvc.Validate(&form)
	if issues == nil {
		issues = []service.ValidationIssue{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}
