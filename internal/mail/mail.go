// Package mail composes and sends transactional email over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html"

	gomail "github.com/wneessen/go-mail"

	"github.com/upskillhq/workshop-platform/internal/apperr"
)

// BillEmail is a payment confirmation with the invoice attached.
type BillEmail struct {
	Recipient      string
	UserName       string
	WorkshopTitle  string
	RegistrationID string
	Amount         int64
	Currency       string
	BillPDF        []byte
	BillFilename   string
}

// AdminAlert notifies the operations address of a new confirmed registration.
type AdminAlert struct {
	WorkshopTitle  string
	UserName       string
	Email          string
	Phone          string
	Organization   string
	RegistrationID string
	Amount         int64
	Currency       string
}

// Mailer is the port the outbox worker dispatches through.
type Mailer interface {
	SendBillEmail(ctx context.Context, msg BillEmail) error
	SendAdminAlert(ctx context.Context, alert AdminAlert) error
}

// SMTPConfig carries transport settings.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// SMTPMailer implements Mailer over SMTP. The client is constructed once
// and reused; go-mail dials per send.
type SMTPMailer struct {
	client *gomail.Client
	cfg    SMTPConfig
}

// NewSMTPMailer constructs the mailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, cfg: cfg}, nil
}

func (m *SMTPMailer) SendBillEmail(ctx context.Context, msg BillEmail) error {
	mm := gomail.NewMsg()
	if err := mm.From(m.cfg.From); err != nil {
		return m.wrap("set sender", err)
	}
	if err := mm.To(msg.Recipient); err != nil {
		return m.wrap("set recipient", err)
	}
	mm.Subject(fmt.Sprintf("Registration confirmed: %s", msg.WorkshopTitle))
	mm.SetBodyString(gomail.TypeTextHTML, billBody(msg))
	if len(msg.BillPDF) > 0 {
		name := msg.BillFilename
		if name == "" {
			name = fmt.Sprintf("invoice-%s.pdf", msg.RegistrationID)
		}
		if err := mm.AttachReader(name, bytes.NewReader(msg.BillPDF)); err != nil {
			return m.wrap("attach invoice", err)
		}
	}
	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return m.wrap("send bill email", err)
	}
	return nil
}

func (m *SMTPMailer) SendAdminAlert(ctx context.Context, alert AdminAlert) error {
	mm := gomail.NewMsg()
	if err := mm.From(m.cfg.From); err != nil {
		return m.wrap("set sender", err)
	}
	if err := mm.To(m.cfg.AdminEmail); err != nil {
		return m.wrap("set recipient", err)
	}
	mm.Subject(fmt.Sprintf("New registration: %s", alert.WorkshopTitle))
	mm.SetBodyString(gomail.TypeTextHTML, alertBody(alert))
	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return m.wrap("send admin alert", err)
	}
	return nil
}

// wrap classifies the failure as a notification error with the SMTP
// password scrubbed from upstream text.
func (m *SMTPMailer) wrap(op string, err error) error {
	msg := apperr.Scrub(err.Error(), m.cfg.Password)
	return apperr.Notification(op, fmt.Errorf("%s", msg))
}

func billBody(msg BillEmail) string {
	cur := msg.Currency
	if cur == "" {
		cur = "INR"
	}
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your registration for <strong>%s</strong> is confirmed. Your invoice is attached.</p>
<table cellpadding="6" style="border-collapse:collapse" border="1">
<tr><td>Registration ID</td><td>%s</td></tr>
<tr><td>Amount</td><td>%s %d</td></tr>
</table>
<p>See you at the workshop!</p>
</body></html>`,
		html.EscapeString(msg.UserName),
		html.EscapeString(msg.WorkshopTitle),
		html.EscapeString(msg.RegistrationID),
		cur, msg.Amount,
	)
}

func alertBody(alert AdminAlert) string {
	cur := alert.Currency
	if cur == "" {
		cur = "INR"
	}
	return fmt.Sprintf(`<html><body>
<p>A registration was just confirmed.</p>
<table cellpadding="6" style="border-collapse:collapse" border="1">
<tr><td>Workshop</td><td>%s</td></tr>
<tr><td>Name</td><td>%s</td></tr>
<tr><td>Email</td><td>%s</td></tr>
<tr><td>Phone</td><td>%s</td></tr>
<tr><td>Organization</td><td>%s</td></tr>
<tr><td>Registration ID</td><td>%s</td></tr>
<tr><td>Amount</td><td>%s %d</td></tr>
</table>
</body></html>`,
		html.EscapeString(alert.WorkshopTitle),
		html.EscapeString(alert.UserName),
		html.EscapeString(alert.Email),
		html.EscapeString(alert.Phone),
		html.EscapeString(alert.Organization),
		html.EscapeString(alert.RegistrationID),
		cur, alert.Amount,
	)
}
