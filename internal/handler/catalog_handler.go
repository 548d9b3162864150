package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/service"
)

// CatalogHandler serves the marketing-site collections.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ─── Trainers ────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateTrainer(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTrainerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	t, err := h.svc.CreateTrainer(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *CatalogHandler) ListTrainers(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListTrainers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if out == nil {
		out = []model.Trainer{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) GetTrainer(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTrainer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CatalogHandler) UpdateTrainer(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTrainerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	t, err := h.svc.UpdateTrainer(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CatalogHandler) DeleteTrainer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTrainer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CatalogHandler) ReorderTrainers(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, h.svc.ReorderTrainers)
}

// ─── Testimonials ────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	t, err := h.svc.CreateTestimonial(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *CatalogHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListTestimonials(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if out == nil {
		out = []model.Testimonial{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	t, err := h.svc.UpdateTestimonial(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *CatalogHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTestimonial(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CatalogHandler) ReorderTestimonials(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, h.svc.ReorderTestimonials)
}

// ─── FAQs ────────────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertFAQRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	f, err := h.svc.CreateFAQ(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *CatalogHandler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListFAQs(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if out == nil {
		out = []model.FAQ{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertFAQRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	f, err := h.svc.UpdateFAQ(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *CatalogHandler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFAQ(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CatalogHandler) ReorderFAQs(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, h.svc.ReorderFAQs)
}

// ─── Pricing plans ───────────────────────────────────────────────────────────

func (h *CatalogHandler) CreatePricingPlan(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertPricingPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.CreatePricingPlan(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) ListPricingPlans(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListPricingPlans(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if out == nil {
		out = []model.PricingPlan{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) UpdatePricingPlan(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertPricingPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.UpdatePricingPlan(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) DeletePricingPlan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePricingPlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CatalogHandler) ReorderPricingPlans(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, h.svc.ReorderPricingPlans)
}

func (h *CatalogHandler) reorder(w http.ResponseWriter, r *http.Request, apply func(context.Context, model.ReorderRequest) error) {
	var req model.ReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := apply(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}
