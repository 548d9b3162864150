package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/upskillhq/workshop-platform/internal/apperr"
)

// RazorpayClient implements Client against the vendor's official SDK.
// The client is constructed once at process start and reused.
type RazorpayClient struct {
	rz        *razorpay.Client
	keySecret string
}

// NewRazorpayClient constructs the vendor client.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		rz:        razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMajor int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "INR"
	}
	data := map[string]interface{}{
		"amount":   amountMajor * 100, // rupees to paise
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		n := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			n[k] = v
		}
		data["notes"] = n
	}

	body, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, apperr.Gateway("payment vendor rejected order creation", c.scrub(err))
	}
	id := asString(body["id"])
	if id == "" {
		return nil, apperr.Gateway("payment vendor returned no order id", nil)
	}
	return &Order{
		ID:          id,
		AmountMinor: asInt64(body["amount"]),
		Currency:    asString(body["currency"]),
		Receipt:     asString(body["receipt"]),
	}, nil
}

func (c *RazorpayClient) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := c.rz.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, apperr.Gateway("payment status fetch failed", c.scrub(err))
	}
	id := asString(body["id"])
	if id == "" {
		return nil, apperr.Gateway("payment vendor returned no payment id", nil)
	}
	return &Payment{
		ID:          id,
		OrderID:     asString(body["order_id"]),
		Status:      asString(body["status"]),
		AmountMinor: asInt64(body["amount"]),
		Currency:    asString(body["currency"]),
		Email:       asString(body["email"]),
		Contact:     asString(body["contact"]),
		Method:      asString(body["method"]),
	}, nil
}

func (c *RazorpayClient) Refund(ctx context.Context, paymentID string, amountMajor *int64, reason string) (*Refund, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The vendor API requires an amount; for a full refund fetch the
	// captured amount first.
	var amountMinor int64
	if amountMajor != nil {
		amountMinor = *amountMajor * 100
	} else {
		p, err := c.FetchPayment(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		amountMinor = p.AmountMinor
	}

	data := map[string]interface{}{}
	if reason != "" {
		data["notes"] = map[string]interface{}{"reason": reason}
	}
	body, err := c.rz.Payment.Refund(paymentID, int(amountMinor), data, nil)
	if err != nil {
		return nil, apperr.Gateway("refund failed", c.scrub(err))
	}
	return &Refund{
		ID:          asString(body["id"]),
		PaymentID:   asString(body["payment_id"]),
		AmountMinor: asInt64(body["amount"]),
		Status:      asString(body["status"]),
	}, nil
}

// scrub ensures the key secret never rides along in upstream error text.
func (c *RazorpayClient) scrub(err error) error {
	return fmt.Errorf("%s", apperr.Scrub(err.Error(), c.keySecret))
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
