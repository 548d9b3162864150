package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/service"
)

// PaymentHandler exposes the payment-order lifecycle.
type PaymentHandler struct {
	svc *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CreateOrder handles POST /payments/create-order
// Creates a pending registration and places a vendor order for it.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.svc.CreatePaymentOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Verify handles POST /payments/verify
// Checks the checkout signature and vendor status, then confirms the
// registration at most once.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.svc.VerifyPayment(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Failure handles POST /payments/failure
// Records a failed checkout so the registration shows the right state.
func (h *PaymentHandler) Failure(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentFailureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.HandleFailure(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"registrationId": req.RegistrationID, "status": "failure recorded"})
}

// DownloadBill handles GET /payments/bill/{registrationID}
// Streams the invoice PDF for a completed registration.
func (h *PaymentHandler) DownloadBill(w http.ResponseWriter, r *http.Request) {
	registrationID := chi.URLParam(r, "registrationID")
	pdf, filename, err := h.svc.DownloadBill(r.Context(), registrationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// Refund handles POST /registrations/{id}/refund (admin).
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req model.RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Refund(r.Context(), id, req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"registrationId": id, "status": "refunded"})
}
