package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/billing"
	"github.com/upskillhq/workshop-platform/internal/gateway"
	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/repository"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakeRegStore struct {
	regs       map[string]*model.Registration
	createErr  error
	confirmErr error
	onConfirm  func() // runs before confirmErr is returned, like a racing writer
	nextID     int
	seats      int // net seats held across create/fail/refund
}

func newFakeRegStore() *fakeRegStore {
	return &fakeRegStore{regs: map[string]*model.Registration{}}
}

func (f *fakeRegStore) Create(_ context.Context, reg model.Registration) (*model.Registration, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	f.seats++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	reg.Status = model.RegistrationPending
	reg.PaymentStatus = model.PaymentPending
	reg.RegisteredAt = time.Now().UTC()
	f.regs[reg.ID] = &reg
	return &reg, nil
}

func (f *fakeRegStore) GetByID(_ context.Context, id string) (*model.Registration, error) {
	reg, ok := f.regs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (f *fakeRegStore) AttachOrder(_ context.Context, id, orderID string) error {
	reg, ok := f.regs[id]
	if !ok {
		return repository.ErrNotFound
	}
	reg.OrderID = orderID
	return nil
}

func (f *fakeRegStore) Confirm(_ context.Context, id, paymentID string, at time.Time) error {
	if f.onConfirm != nil {
		f.onConfirm()
	}
	if f.confirmErr != nil {
		return f.confirmErr
	}
	reg, ok := f.regs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if reg.PaymentStatus != model.PaymentPending || reg.Status == model.RegistrationCancelled {
		return repository.ErrAlreadyConfirmed
	}
	reg.Status = model.RegistrationConfirmed
	reg.PaymentStatus = model.PaymentCompleted
	reg.PaymentID = paymentID
	reg.ConfirmedAt = &at
	return nil
}

func (f *fakeRegStore) MarkFailed(_ context.Context, id, reason string) error {
	reg, ok := f.regs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if reg.PaymentStatus == model.PaymentPending && reg.Status != model.RegistrationCancelled {
		reg.PaymentStatus = model.PaymentFailed
		reg.Status = model.RegistrationCancelled
		if reason == "" {
			reason = "checkout failed"
		}
		reg.CancellationReason = reason
		f.seats--
	}
	return nil
}

func (f *fakeRegStore) MarkRefunded(_ context.Context, id, reason string) error {
	reg, ok := f.regs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if reg.Status != model.RegistrationCancelled {
		f.seats--
	}
	reg.PaymentStatus = model.PaymentRefunded
	reg.Status = model.RegistrationCancelled
	reg.CancellationReason = reason
	return nil
}

type fakeCertStore struct {
	issued []string
	err    error
}

func (f *fakeCertStore) Issue(_ context.Context, registrationID, workshopTitle, recipientName string) (*model.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.issued = append(f.issued, registrationID)
	return &model.Certificate{
		ID:               "cert-1",
		RegistrationID:   registrationID,
		WorkshopTitle:    workshopTitle,
		RecipientName:    recipientName,
		VerificationCode: "WSP-TESTCODE0001",
		IssuedAt:         time.Now().UTC(),
	}, nil
}

type fakeOutbox struct {
	enqueued []model.NotificationKind
	err      error
}

func (f *fakeOutbox) Enqueue(_ context.Context, kind model.NotificationKind, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, kind)
	return nil
}

type fakeGateway struct {
	createErr          error
	paymentStatus      string
	paymentOrderID     string
	paymentAmountMinor int64
	fetchErr           error
	refunds            int
	refundErr          error
	fetches            int
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountMajor int64, currency, receipt string, _ map[string]string) (*gateway.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &gateway.Order{
		ID:          "order_test1",
		AmountMinor: amountMajor * 100,
		Currency:    currency,
		Receipt:     receipt,
	}, nil
}

func (f *fakeGateway) FetchPayment(_ context.Context, paymentID string) (*gateway.Payment, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	status := f.paymentStatus
	if status == "" {
		status = "captured"
	}
	return &gateway.Payment{
		ID:          paymentID,
		OrderID:     f.paymentOrderID,
		Status:      status,
		AmountMinor: f.paymentAmountMinor,
	}, nil
}

func (f *fakeGateway) Refund(_ context.Context, paymentID string, _ *int64, _ string) (*gateway.Refund, error) {
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	f.refunds++
	return &gateway.Refund{ID: "rfnd_1", PaymentID: paymentID, Status: "processed"}, nil
}

type fakeRenderer struct{ err error }

func (f *fakeRenderer) Render(billing.Invoice) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type paymentFixture struct {
	svc    *PaymentService
	regs   *fakeRegStore
	certs  *fakeCertStore
	outbox *fakeOutbox
	gw     *fakeGateway
}

const testKeySecret = "test_key_secret"

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		regs:   newFakeRegStore(),
		certs:  &fakeCertStore{},
		outbox: &fakeOutbox{},
		gw:     &fakeGateway{},
	}
	f.svc = NewPaymentService(f.regs, f.certs, f.outbox, f.gw, &fakeRenderer{},
		PaymentConfig{KeyID: "rzp_test_key", KeySecret: testKeySecret, GSTPercent: 18},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func validOrderRequest() model.CreateOrderRequest {
	return model.CreateOrderRequest{
		UserName:      "Asha Rao",
		Email:         "Asha@Example.com",
		Phone:         "9876543210",
		WorkshopID:    "ws-1",
		WorkshopTitle: "Advanced Kubernetes",
		Amount:        5000,
	}
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ─── CreatePaymentOrder ──────────────────────────────────────────────────────

func TestCreatePaymentOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending registration with a vendor order", func(t *testing.T) {
		f := newPaymentFixture()

		resp, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)

		assert.Equal(t, "order_test1", resp.OrderID)
		assert.Equal(t, int64(500000), resp.Amount, "checkout amount is in minor units")
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, "rzp_test_key", resp.KeyID)

		reg, err := f.regs.GetByID(ctx, resp.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.RegistrationPending, reg.Status)
		assert.Equal(t, model.PaymentPending, reg.PaymentStatus)
		assert.Equal(t, "order_test1", reg.OrderID)
		assert.Equal(t, "asha@example.com", reg.Email, "email is normalized to lower case")
	})

	t.Run("rejects a zero amount", func(t *testing.T) {
		f := newPaymentFixture()
		req := validOrderRequest()
		req.Amount = 0

		_, err := f.svc.CreatePaymentOrder(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects a missing email", func(t *testing.T) {
		f := newPaymentFixture()
		req := validOrderRequest()
		req.Email = ""

		_, err := f.svc.CreatePaymentOrder(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("maps a full workshop to a conflict", func(t *testing.T) {
		f := newPaymentFixture()
		f.regs.createErr = repository.ErrWorkshopFull

		_, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("maps an unknown workshop to not found", func(t *testing.T) {
		f := newPaymentFixture()
		f.regs.createErr = repository.ErrNotFound

		_, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("surfaces a vendor outage as a gateway error, registration stays pending", func(t *testing.T) {
		f := newPaymentFixture()
		f.gw.createErr = errors.New("dial tcp: connection refused")

		_, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.KindGateway, apperr.KindOf(err))

		// The seat is held; the TTL sweep reclaims it later.
		reg, err := f.regs.GetByID(ctx, "reg-1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, reg.PaymentStatus)
		assert.Empty(t, reg.OrderID)
	})
}

// ─── VerifyPayment ───────────────────────────────────────────────────────────

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*paymentFixture, *model.CreateOrderResponse) {
		f := newPaymentFixture()
		resp, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)
		return f, resp
	}

	t.Run("confirms a captured payment and enqueues notifications", func(t *testing.T) {
		f, order := setup(t)
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		resp, err := f.svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, string(model.RegistrationConfirmed), resp.Status)
		assert.Equal(t, "/payments/bill/"+order.RegistrationID, resp.BillDownloadURL)

		reg, err := f.regs.GetByID(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.RegistrationConfirmed, reg.Status)
		assert.Equal(t, model.PaymentCompleted, reg.PaymentStatus)
		assert.Equal(t, "pay_1", reg.PaymentID)
		require.NotNil(t, reg.ConfirmedAt)

		assert.Equal(t, []string{order.RegistrationID}, f.certs.issued)
		assert.ElementsMatch(t,
			[]model.NotificationKind{model.NotificationBillEmail, model.NotificationAdminAlert},
			f.outbox.enqueued)
	})

	t.Run("rejects an invalid signature without touching state", func(t *testing.T) {
		f, order := setup(t)
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_forged"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindSignature, apperr.KindOf(err))

		reg, err := f.regs.GetByID(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, reg.PaymentStatus)
		assert.Empty(t, f.outbox.enqueued)
		assert.Zero(t, f.gw.fetches, "vendor is not consulted for a forged signature")
	})

	t.Run("rejects when the vendor reports the payment as failed", func(t *testing.T) {
		f, order := setup(t)
		f.gw.paymentStatus = "failed"
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))

		reg, err := f.regs.GetByID(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, reg.PaymentStatus)
	})

	t.Run("re-verification succeeds without repeating side effects", func(t *testing.T) {
		f, order := setup(t)
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		resp, err := f.svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, string(model.RegistrationConfirmed), resp.Status)

		assert.Len(t, f.certs.issued, 1, "certificate issued once")
		assert.Len(t, f.outbox.enqueued, 2, "notifications enqueued once")
		assert.Equal(t, 1, f.gw.fetches, "vendor consulted once")
	})

	t.Run("losing a concurrent confirmation race is still a success", func(t *testing.T) {
		f, order := setup(t)
		f.regs.confirmErr = repository.ErrAlreadyConfirmed
		f.regs.onConfirm = func() {
			// The racing verification completed the row first.
			reg := f.regs.regs[order.RegistrationID]
			reg.Status = model.RegistrationConfirmed
			reg.PaymentStatus = model.PaymentCompleted
			reg.PaymentID = "pay_winner"
		}
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		resp, err := f.svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, string(model.RegistrationConfirmed), resp.Status)
		assert.Equal(t, "pay_winner", resp.PaymentID, "response reflects the recorded payment")
		assert.Empty(t, f.certs.issued, "the winning caller owns the side effects")
	})

	t.Run("cancellation racing the confirm is a precondition failure, not a success", func(t *testing.T) {
		f, order := setup(t)
		f.regs.confirmErr = repository.ErrAlreadyConfirmed
		f.regs.onConfirm = func() {
			// The TTL sweep cancelled the row between the read and the update.
			reg := f.regs.regs[order.RegistrationID]
			reg.Status = model.RegistrationCancelled
			reg.CancellationReason = "payment not completed in time"
		}
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
		assert.Empty(t, f.certs.issued)
		assert.Empty(t, f.outbox.enqueued)
	})

	t.Run("rejects a signed pair for a different order", func(t *testing.T) {
		f, order := setup(t)
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        "order_other",
			PaymentID:      "pay_1",
			Signature:      signPayment("order_other", "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindSignature, apperr.KindOf(err))
		assert.Zero(t, f.gw.fetches, "vendor is not consulted for a mismatched order")

		reg, err := f.regs.GetByID(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, reg.PaymentStatus)
	})

	t.Run("rejects when the vendor attributes the payment to another order", func(t *testing.T) {
		f, order := setup(t)
		f.gw.paymentOrderID = "order_other"
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindSignature, apperr.KindOf(err))
	})

	t.Run("rejects when the vendor amount does not cover the registration", func(t *testing.T) {
		f, order := setup(t)
		f.gw.paymentOrderID = order.OrderID
		f.gw.paymentAmountMinor = 100 // one rupee against a 5000-rupee workshop
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))

		reg, err := f.regs.GetByID(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, reg.PaymentStatus)
	})

	t.Run("confirms when the vendor echoes matching order and amount", func(t *testing.T) {
		f, order := setup(t)
		f.gw.paymentOrderID = order.OrderID
		f.gw.paymentAmountMinor = order.Amount
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		resp, err := f.svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, string(model.RegistrationConfirmed), resp.Status)
	})

	t.Run("a cancelled registration cannot be confirmed", func(t *testing.T) {
		f, order := setup(t)
		f.regs.regs[order.RegistrationID].Status = model.RegistrationCancelled
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	})

	t.Run("unknown registration", func(t *testing.T) {
		f := newPaymentFixture()
		req := model.VerifyPaymentRequest{
			RegistrationID: "reg-missing",
			OrderID:        "order_x",
			PaymentID:      "pay_1",
			Signature:      signPayment("order_x", "pay_1"),
		}

		_, err := f.svc.VerifyPayment(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("notification enqueue failure does not fail the verification", func(t *testing.T) {
		f, order := setup(t)
		f.outbox.err = errors.New("db connection lost")
		req := model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		}

		resp, err := f.svc.VerifyPayment(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, string(model.RegistrationConfirmed), resp.Status)
	})
}

// ─── HandleFailure ───────────────────────────────────────────────────────────

func TestHandleFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels the registration and releases the seat", func(t *testing.T) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)
		require.Equal(t, 1, f.regs.seats)

		err = f.svc.HandleFailure(ctx, model.PaymentFailureRequest{
			RegistrationID: order.RegistrationID,
			Error:          "card declined",
		})
		require.NoError(t, err)

		reg, err := f.regs.GetByID(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentFailed, reg.PaymentStatus)
		assert.Equal(t, model.RegistrationCancelled, reg.Status)
		assert.Equal(t, "checkout failed: card declined", reg.CancellationReason)
		assert.Zero(t, f.regs.seats, "a failed checkout must not keep holding a seat")
	})

	t.Run("repeated failure reports release the seat only once", func(t *testing.T) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)

		req := model.PaymentFailureRequest{RegistrationID: order.RegistrationID, Error: "card declined"}
		require.NoError(t, f.svc.HandleFailure(ctx, req))
		require.NoError(t, f.svc.HandleFailure(ctx, req))
		assert.Zero(t, f.regs.seats)
	})

	t.Run("a failed registration cannot be verified afterwards", func(t *testing.T) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)
		require.NoError(t, f.svc.HandleFailure(ctx, model.PaymentFailureRequest{
			RegistrationID: order.RegistrationID, Error: "card declined",
		}))

		_, err = f.svc.VerifyPayment(ctx, model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	})
}

// ─── DownloadBill ────────────────────────────────────────────────────────────

func TestDownloadBill(t *testing.T) {
	ctx := context.Background()

	t.Run("available after completion", func(t *testing.T) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)
		_, err = f.svc.VerifyPayment(ctx, model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		})
		require.NoError(t, err)

		pdf, filename, err := f.svc.DownloadBill(ctx, order.RegistrationID)
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)
		assert.Equal(t, "invoice-"+order.RegistrationID+".pdf", filename)
	})

	t.Run("refused before completion", func(t *testing.T) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)

		_, _, err = f.svc.DownloadBill(ctx, order.RegistrationID)
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	})

	t.Run("unknown registration", func(t *testing.T) {
		f := newPaymentFixture()
		_, _, err := f.svc.DownloadBill(ctx, "reg-missing")
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

// ─── Refund ──────────────────────────────────────────────────────────────────

func TestRefund(t *testing.T) {
	ctx := context.Background()

	completed := func(t *testing.T) (*paymentFixture, string) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)
		_, err = f.svc.VerifyPayment(ctx, model.VerifyPaymentRequest{
			RegistrationID: order.RegistrationID,
			OrderID:        order.OrderID,
			PaymentID:      "pay_1",
			Signature:      signPayment(order.OrderID, "pay_1"),
		})
		require.NoError(t, err)
		return f, order.RegistrationID
	}

	t.Run("refunds a completed registration", func(t *testing.T) {
		f, id := completed(t)

		err := f.svc.Refund(ctx, id, model.RefundRequest{Reason: "event cancelled"})
		require.NoError(t, err)
		assert.Equal(t, 1, f.gw.refunds)

		reg, err := f.regs.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentRefunded, reg.PaymentStatus)
		assert.Equal(t, model.RegistrationCancelled, reg.Status)
	})

	t.Run("refuses to refund a pending registration", func(t *testing.T) {
		f := newPaymentFixture()
		order, err := f.svc.CreatePaymentOrder(ctx, validOrderRequest())
		require.NoError(t, err)

		err = f.svc.Refund(ctx, order.RegistrationID, model.RefundRequest{})
		require.Error(t, err)
		assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
		assert.Zero(t, f.gw.refunds)
	})

	t.Run("vendor refusal leaves the registration completed", func(t *testing.T) {
		f, id := completed(t)
		f.gw.refundErr = errors.New("refund window closed")

		err := f.svc.Refund(ctx, id, model.RefundRequest{})
		require.Error(t, err)
		assert.Equal(t, apperr.KindGateway, apperr.KindOf(err))

		reg, err := f.regs.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentCompleted, reg.PaymentStatus)
	})
}
