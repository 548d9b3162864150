package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/billing"
	"github.com/upskillhq/workshop-platform/internal/gateway"
	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/repository"
)

var validate = validator.New()

// validationError formats validator output into a caller-safe message
// naming the offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperr.Validationf("invalid or missing fields: %s", strings.Join(fields, ", "))
	}
	return apperr.Validation(err.Error())
}

// PaymentConfig carries the vendor and billing settings the orchestrator
// needs.
type PaymentConfig struct {
	KeyID      string
	KeySecret  string
	GSTPercent int
}

// PaymentService sequences the payment-order lifecycle: create a pending
// registration, place a vendor order, verify the checkout outcome, confirm
// exactly once, then hand notifications to the durable outbox.
type PaymentService struct {
	regs     RegistrationStore
	certs    CertificateStore
	outbox   OutboxStore
	gw       gateway.Client
	renderer BillRenderer
	cfg      PaymentConfig
	log      *slog.Logger
}

// NewPaymentService constructs a PaymentService with its dependencies.
func NewPaymentService(
	regs RegistrationStore,
	certs CertificateStore,
	outbox OutboxStore,
	gw gateway.Client,
	renderer BillRenderer,
	cfg PaymentConfig,
	log *slog.Logger,
) *PaymentService {
	return &PaymentService{
		regs: regs, certs: certs, outbox: outbox,
		gw: gw, renderer: renderer, cfg: cfg, log: log,
	}
}

// CreatePaymentOrder validates the request, creates a pending/pending
// registration (taking a seat atomically), and places the vendor order.
// If the vendor call fails the registration stays pending with no order id;
// the TTL sweep reclaims it later.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	reg, err := s.regs.Create(ctx, model.Registration{
		WorkshopID:    req.WorkshopID,
		WorkshopTitle: req.WorkshopTitle,
		UserName:      req.UserName,
		Email:         req.Email,
		Phone:         req.Phone,
		Organization:  req.Organization,
		Amount:        req.Amount,
		Currency:      "INR",
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("workshop not found")
		case errors.Is(err, repository.ErrWorkshopFull):
			return nil, apperr.Conflict("workshop is fully booked")
		}
		return nil, apperr.Internal("create registration", err)
	}

	order, err := s.gw.CreateOrder(ctx, reg.Amount, reg.Currency, "rcpt_"+reg.ID, map[string]string{
		"registration_id": reg.ID,
		"workshop_id":     reg.WorkshopID,
	})
	if err != nil {
		s.log.Error("order creation failed, registration left pending",
			"registration_id", reg.ID, "error", err)
		if apperr.KindOf(err) == apperr.KindGateway {
			return nil, err
		}
		return nil, apperr.Gateway("order creation failed", err)
	}

	if err := s.regs.AttachOrder(ctx, reg.ID, order.ID); err != nil {
		return nil, apperr.Internal("attach order", err)
	}

	s.log.Info("payment order placed",
		"registration_id", reg.ID, "order_id", order.ID, "amount_minor", order.AmountMinor)
	return &model.CreateOrderResponse{
		RegistrationID: reg.ID,
		OrderID:        order.ID,
		Amount:         order.AmountMinor,
		Currency:       order.Currency,
		KeyID:          s.cfg.KeyID,
	}, nil
}

// VerifyPayment checks the client-reported checkout outcome against the
// vendor and confirms the registration at most once. Notification and
// certificate problems are logged, never surfaced: the money is already
// captured, so the user-facing outcome must not regress.
func (s *PaymentService) VerifyPayment(ctx context.Context, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if !gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.cfg.KeySecret) {
		s.log.Warn("payment signature rejected",
			"registration_id", req.RegistrationID, "order_id", req.OrderID)
		return nil, apperr.Signature("payment signature verification failed")
	}

	reg, err := s.regs.GetByID(ctx, req.RegistrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("registration not found")
		}
		return nil, apperr.Internal("load registration", err)
	}

	// Re-submission of an already verified payment succeeds without
	// repeating side effects.
	if reg.PaymentStatus == model.PaymentCompleted {
		return s.verifiedResponse(reg.ID, reg.PaymentID), nil
	}
	if !reg.Confirmable() {
		return nil, apperr.Precondition(
			fmt.Sprintf("registration is not awaiting payment (payment status %s)", reg.PaymentStatus))
	}
	// A validly signed pair for some other (possibly cheaper) order must not
	// confirm this registration.
	if reg.OrderID != "" && req.OrderID != reg.OrderID {
		s.log.Warn("order mismatch on verification",
			"registration_id", reg.ID, "order_id", req.OrderID)
		return nil, apperr.Signature("order does not match this registration")
	}

	// Never trust client-supplied status; always re-fetch from the vendor.
	payment, err := s.gw.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindGateway {
			return nil, err
		}
		return nil, apperr.Gateway("payment status fetch failed", err)
	}
	if payment.Status != "captured" && payment.Status != "authorized" {
		return nil, apperr.Precondition(
			fmt.Sprintf("payment not completed at vendor (status %s)", payment.Status))
	}
	if payment.OrderID != "" && payment.OrderID != req.OrderID {
		return nil, apperr.Signature("payment belongs to a different order")
	}
	if payment.AmountMinor != 0 && payment.AmountMinor != reg.Amount*100 {
		return nil, apperr.Precondition("payment amount does not match the registration")
	}

	now := time.Now().UTC()
	if err := s.regs.Confirm(ctx, reg.ID, req.PaymentID, now); err != nil {
		if errors.Is(err, repository.ErrAlreadyConfirmed) {
			// Zero rows means either a concurrent verification won or the
			// registration was cancelled in the meantime. Re-read to tell
			// them apart; only a completed payment is an idempotent success.
			cur, gerr := s.regs.GetByID(ctx, reg.ID)
			if gerr == nil && cur.PaymentStatus == model.PaymentCompleted {
				return s.verifiedResponse(cur.ID, cur.PaymentID), nil
			}
			return nil, apperr.Precondition("registration is no longer awaiting payment")
		}
		return nil, apperr.Internal("confirm registration", err)
	}

	if _, err := s.certs.Issue(ctx, reg.ID, reg.WorkshopTitle, reg.UserName); err != nil {
		s.log.Error("certificate issue failed", "registration_id", reg.ID, "error", err)
	}
	for _, kind := range []model.NotificationKind{model.NotificationBillEmail, model.NotificationAdminAlert} {
		if err := s.outbox.Enqueue(ctx, kind, reg.ID); err != nil {
			s.log.Error("notification enqueue failed",
				"registration_id", reg.ID, "kind", kind, "error", err)
		}
	}

	s.log.Info("payment verified",
		"registration_id", reg.ID, "payment_id", req.PaymentID, "vendor_status", payment.Status)
	return s.verifiedResponse(reg.ID, req.PaymentID), nil
}

func (s *PaymentService) verifiedResponse(registrationID, paymentID string) *model.VerifyPaymentResponse {
	return &model.VerifyPaymentResponse{
		RegistrationID:  registrationID,
		PaymentID:       paymentID,
		Status:          string(model.RegistrationConfirmed),
		BillDownloadURL: "/payments/bill/" + registrationID,
	}
}

// HandleFailure records a failed checkout, cancelling the registration and
// giving its seat back. Idempotent; a registration already confirmed is
// untouched.
func (s *PaymentService) HandleFailure(ctx context.Context, req model.PaymentFailureRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	reason := strings.TrimSpace(req.Error)
	if reason != "" {
		reason = "checkout failed: " + reason
	}
	if err := s.regs.MarkFailed(ctx, req.RegistrationID, reason); err != nil {
		return apperr.Internal("mark payment failed", err)
	}
	s.log.Info("payment failure recorded", "registration_id", req.RegistrationID)
	return nil
}

// DownloadBill re-renders the invoice from the stored registration. Allowed
// only after payment completion.
func (s *PaymentService) DownloadBill(ctx context.Context, registrationID string) ([]byte, string, error) {
	if registrationID == "" {
		return nil, "", apperr.Validation("registration id is required")
	}
	reg, err := s.regs.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.NotFound("registration not found")
		}
		return nil, "", apperr.Internal("load registration", err)
	}
	if reg.PaymentStatus != model.PaymentCompleted {
		return nil, "", apperr.Precondition("bill is available only after payment completion")
	}

	confirmedAt := reg.RegisteredAt
	if reg.ConfirmedAt != nil {
		confirmedAt = *reg.ConfirmedAt
	}
	pdf, err := s.renderer.Render(billing.Invoice{
		RegistrationID: reg.ID,
		WorkshopTitle:  reg.WorkshopTitle,
		UserName:       reg.UserName,
		Email:          reg.Email,
		Phone:          reg.Phone,
		Organization:   reg.Organization,
		Amount:         reg.Amount,
		Currency:       reg.Currency,
		PaymentID:      reg.PaymentID,
		OrderID:        reg.OrderID,
		ConfirmedAt:    confirmedAt,
		GSTPercent:     s.cfg.GSTPercent,
	})
	if err != nil {
		return nil, "", apperr.Internal("render bill", err)
	}
	return pdf, fmt.Sprintf("invoice-%s.pdf", reg.ID), nil
}

// Refund refunds a completed registration at the vendor and records the
// refund locally, releasing the seat.
func (s *PaymentService) Refund(ctx context.Context, registrationID string, req model.RefundRequest) error {
	if registrationID == "" {
		return apperr.Validation("registration id is required")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	reg, err := s.regs.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("registration not found")
		}
		return apperr.Internal("load registration", err)
	}
	if reg.PaymentStatus != model.PaymentCompleted {
		return apperr.Precondition("only completed payments can be refunded")
	}

	if _, err := s.gw.Refund(ctx, reg.PaymentID, req.Amount, req.Reason); err != nil {
		if apperr.KindOf(err) == apperr.KindGateway {
			return err
		}
		return apperr.Gateway("refund failed", err)
	}
	reason := req.Reason
	if reason == "" {
		reason = "refunded by administrator"
	}
	if err := s.regs.MarkRefunded(ctx, registrationID, reason); err != nil {
		return apperr.Internal("record refund", err)
	}
	s.log.Info("registration refunded", "registration_id", registrationID)
	return nil
}
