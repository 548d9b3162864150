package service

import (
	"context"
	"time"

	"github.com/upskillhq/workshop-platform/internal/billing"
	"github.com/upskillhq/workshop-platform/internal/model"
)

// Ports the payment orchestrator depends on. The pgx repositories satisfy
// them in production; tests substitute fakes.

// RegistrationStore persists registrations and their state transitions.
type RegistrationStore interface {
	Create(ctx context.Context, reg model.Registration) (*model.Registration, error)
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	AttachOrder(ctx context.Context, id, orderID string) error
	// Confirm must be conditional on the registration still being pending;
	// it returns repository.ErrAlreadyConfirmed when another caller won.
	Confirm(ctx context.Context, id, paymentID string, at time.Time) error
	MarkFailed(ctx context.Context, id, reason string) error
	MarkRefunded(ctx context.Context, id, reason string) error
}

// CertificateStore issues completion certificates.
type CertificateStore interface {
	Issue(ctx context.Context, registrationID, workshopTitle, recipientName string) (*model.Certificate, error)
}

// OutboxStore enqueues durable notifications.
type OutboxStore interface {
	Enqueue(ctx context.Context, kind model.NotificationKind, registrationID string) error
}

// BillRenderer produces the invoice document.
type BillRenderer interface {
	Render(inv billing.Invoice) ([]byte, error)
}
