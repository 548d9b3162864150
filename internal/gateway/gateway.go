// Package gateway wraps the payment vendor's API behind a small interface so
// the orchestration layer never sees vendor response maps.
package gateway

import "context"

// Order is a vendor-side payment intent. Immutable once created.
type Order struct {
	ID          string
	AmountMinor int64 // paise
	Currency    string
	Receipt     string
}

// Payment is the vendor's view of a payment, re-fetched on every
// verification; client-supplied status is never trusted.
type Payment struct {
	ID          string
	OrderID     string
	Status      string // created | authorized | captured | refunded | failed
	AmountMinor int64
	Currency    string
	Email       string
	Contact     string
	Method      string
}

// Refund is the vendor's record of a refund.
type Refund struct {
	ID          string
	PaymentID   string
	AmountMinor int64
	Status      string
}

// Client is the port the payment orchestrator depends on.
type Client interface {
	// CreateOrder registers a payment intent with the vendor. amountMajor is
	// in whole rupees; conversion to paise happens here.
	CreateOrder(ctx context.Context, amountMajor int64, currency, receipt string, notes map[string]string) (*Order, error)
	// FetchPayment reads current vendor-side payment state.
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	// Refund refunds a captured payment. A nil amount refunds in full.
	Refund(ctx context.Context, paymentID string, amountMajor *int64, reason string) (*Refund, error)
}
