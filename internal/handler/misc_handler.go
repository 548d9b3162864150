package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/service"
)

// ScholarshipHandler serves scholarship applications.
type ScholarshipHandler struct {
	svc *service.ScholarshipService
}

// NewScholarshipHandler constructs a ScholarshipHandler.
func NewScholarshipHandler(svc *service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{svc: svc}
}

// Apply handles POST /scholarships (public).
func (h *ScholarshipHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req model.ApplyScholarshipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sch, err := h.svc.Apply(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sch)
}

// List handles GET /scholarships (admin).
func (h *ScholarshipHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if out == nil {
		out = []model.Scholarship{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Review handles PUT /scholarships/{id} (admin).
func (h *ScholarshipHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewScholarshipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sch, err := h.svc.Review(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sch)
}

// CertificateHandler serves certificate listing and public verification.
type CertificateHandler struct {
	svc *service.CertificateService
}

// NewCertificateHandler constructs a CertificateHandler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

// List handles GET /certificates (admin).
func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if out == nil {
		out = []model.Certificate{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Verify handles GET /certificates/verify/{code} (public).
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	cert, err := h.svc.Verify(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

// AuthHandler serves admin login.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
