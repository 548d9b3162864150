// Package outbox drains the durable notification queue. Payment
// confirmation enqueues entries transactionally with the state change; this
// worker delivers them with retries so an email-provider outage never loses
// a confirmation.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/upskillhq/workshop-platform/internal/billing"
	"github.com/upskillhq/workshop-platform/internal/mail"
	"github.com/upskillhq/workshop-platform/internal/model"
)

// Store is the outbox persistence port.
type Store interface {
	ClaimDue(ctx context.Context, limit int, holdFor time.Duration) ([]model.OutboxEntry, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, lastErr string, nextAttempt time.Time, maxAttempts int) error
}

// RegistrationSource provides the registration data a notification needs,
// plus the TTL sweep for abandoned checkouts.
type RegistrationSource interface {
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	CancelExpiredPending(ctx context.Context, cutoff time.Time) (int, error)
}

// BillRenderer re-renders the invoice for attachment.
type BillRenderer interface {
	Render(inv billing.Invoice) ([]byte, error)
}

// Config tunes the worker loop.
type Config struct {
	PollInterval time.Duration
	MaxAttempts  int
	PendingTTL   time.Duration
	GSTPercent   int
	BatchSize    int
}

// Worker polls the outbox and dispatches notifications.
type Worker struct {
	store    Store
	regs     RegistrationSource
	renderer BillRenderer
	mailer   mail.Mailer
	cfg      Config
	log      *slog.Logger
}

// NewWorker constructs a Worker.
func NewWorker(store Store, regs RegistrationSource, renderer BillRenderer, mailer mail.Mailer, cfg Config, log *slog.Logger) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	return &Worker{store: store, regs: regs, renderer: renderer, mailer: mailer, cfg: cfg, log: log}
}

// Run loops until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.log.Info("outbox worker started", "poll_interval", w.cfg.PollInterval)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			w.DrainOnce(ctx)
			w.SweepExpired(ctx)
		}
	}
}

// DrainOnce claims and dispatches one batch of due entries.
func (w *Worker) DrainOnce(ctx context.Context) {
	entries, err := w.store.ClaimDue(ctx, w.cfg.BatchSize, w.cfg.PollInterval*2)
	if err != nil {
		w.log.Error("claim outbox entries failed", "error", err)
		return
	}
	for _, entry := range entries {
		if err := w.dispatch(ctx, entry); err != nil {
			next := time.Now().UTC().Add(backoff(entry.Attempts))
			if markErr := w.store.MarkFailed(ctx, entry.ID, err.Error(), next, w.cfg.MaxAttempts); markErr != nil {
				w.log.Error("mark outbox failed errored", "entry_id", entry.ID, "error", markErr)
			}
			w.log.Warn("notification send failed",
				"entry_id", entry.ID, "kind", entry.Kind, "attempt", entry.Attempts+1, "error", err)
			continue
		}
		if err := w.store.MarkSent(ctx, entry.ID); err != nil {
			w.log.Error("mark outbox sent errored", "entry_id", entry.ID, "error", err)
			continue
		}
		w.log.Info("notification sent", "entry_id", entry.ID, "kind", entry.Kind,
			"registration_id", entry.RegistrationID)
	}
}

// SweepExpired cancels pending/pending registrations older than the TTL
// (abandoned checkouts and order-creation failures) and releases seats.
func (w *Worker) SweepExpired(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.cfg.PendingTTL)
	n, err := w.regs.CancelExpiredPending(ctx, cutoff)
	if err != nil {
		w.log.Error("pending-registration sweep failed", "error", err)
		return
	}
	if n > 0 {
		w.log.Info("expired pending registrations cancelled", "count", n)
	}
}

func (w *Worker) dispatch(ctx context.Context, entry model.OutboxEntry) error {
	reg, err := w.regs.GetByID(ctx, entry.RegistrationID)
	if err != nil {
		return fmt.Errorf("load registration: %w", err)
	}

	switch entry.Kind {
	case model.NotificationBillEmail:
		confirmedAt := reg.RegisteredAt
		if reg.ConfirmedAt != nil {
			confirmedAt = *reg.ConfirmedAt
		}
		pdf, err := w.renderer.Render(billing.Invoice{
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
			GSTPercent:     w.cfg.GSTPercent,
		})
		if err != nil {
			return fmt.Errorf("render bill: %w", err)
		}
		return w.mailer.SendBillEmail(ctx, mail.BillEmail{
			Recipient:      reg.Email,
			UserName:       reg.UserName,
			WorkshopTitle:  reg.WorkshopTitle,
			RegistrationID: reg.ID,
			Amount:         reg.Amount,
			Currency:       reg.Currency,
			BillPDF:        pdf,
			BillFilename:   fmt.Sprintf("invoice-%s.pdf", reg.ID),
		})
	case model.NotificationAdminAlert:
		return w.mailer.SendAdminAlert(ctx, mail.AdminAlert{
			WorkshopTitle:  reg.WorkshopTitle,
			UserName:       reg.UserName,
			Email:          reg.Email,
			Phone:          reg.Phone,
			Organization:   reg.Organization,
			RegistrationID: reg.ID,
			Amount:         reg.Amount,
			Currency:       reg.Currency,
		})
	default:
		return fmt.Errorf("unknown notification kind %q", entry.Kind)
	}
}

// backoff doubles per attempt from 30s, capped at an hour.
func backoff(attempts int) time.Duration {
	d := 30 * time.Second
	for i := 0; i < attempts && d < time.Hour; i++ {
		d *= 2
	}
	if d > time.Hour {
		d = time.Hour
	}
	return d
}
