package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/service"
)

// WorkshopHandler holds HTTP handlers for workshops and the admin view of
// registrations.
type WorkshopHandler struct {
	workshops *service.WorkshopService
	regs      *service.RegistrationAdminService
}

// NewWorkshopHandler constructs a WorkshopHandler.
func NewWorkshopHandler(workshops *service.WorkshopService, regs *service.RegistrationAdminService) *WorkshopHandler {
	return &WorkshopHandler{workshops: workshops, regs: regs}
}

// Create handles POST /workshops
func (h *WorkshopHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertWorkshopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	workshop, err := h.workshops.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workshop)
}

// List handles GET /workshops
func (h *WorkshopHandler) List(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.workshops.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if workshops == nil {
		workshops = []model.Workshop{}
	}
	writeJSON(w, http.StatusOK, workshops)
}

// Get handles GET /workshops/{id}
func (h *WorkshopHandler) Get(w http.ResponseWriter, r *http.Request) {
	workshop, err := h.workshops.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workshop)
}

// Update handles PUT /workshops/{id}
func (h *WorkshopHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertWorkshopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	workshop, err := h.workshops.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workshop)
}

// Delete handles DELETE /workshops/{id}
func (h *WorkshopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workshops.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Stats handles GET /workshops/stats
func (h *WorkshopHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.workshops.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListRegistrations handles GET /registrations?workshop_id=…
func (h *WorkshopHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.regs.List(r.Context(), r.URL.Query().Get("workshop_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// GetRegistration handles GET /registrations/{id}
func (h *WorkshopHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := h.regs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// DeleteRegistration handles DELETE /registrations/{id}
func (h *WorkshopHandler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	if err := h.regs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
