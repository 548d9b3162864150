// Package model defines the core domain types for the workshop platform.
package model

import "time"

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// PaymentStatus is the payment state of a registration.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Workshop is a course offering with a live enrollment counter.
type Workshop struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TrainerID    string    `json:"trainer_id,omitempty"`
	Price        int64     `json:"price"` // whole rupees
	Capacity     int       `json:"capacity"`
	Enrolled     int       `json:"enrolled"`
	StartsAt     time.Time `json:"starts_at"`
	DurationDays int       `json:"duration_days"`
	Mode         string    `json:"mode"` // online | in-person | hybrid
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Remaining returns the number of available seats.
func (w *Workshop) Remaining() int {
	return w.Capacity - w.Enrolled
}

// IsFull returns true when no seats remain.
func (w *Workshop) IsFull() bool {
	return w.Enrolled >= w.Capacity
}

// Registration records one participant's commitment to attend one workshop,
// together with its payment lifecycle.
type Registration struct {
	ID                 string             `json:"id"`
	WorkshopID         string             `json:"workshop_id"`
	WorkshopTitle      string             `json:"workshop_title"`
	UserName           string             `json:"user_name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Organization       string             `json:"organization,omitempty"`
	Amount             int64              `json:"amount"` // whole rupees
	Currency           string             `json:"currency"`
	Status             RegistrationStatus `json:"status"`
	PaymentStatus      PaymentStatus      `json:"payment_status"`
	OrderID            string             `json:"order_id,omitempty"`
	PaymentID          string             `json:"payment_id,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	RegisteredAt       time.Time          `json:"registered_at"`
	ConfirmedAt        *time.Time         `json:"confirmed_at,omitempty"`
}

// Confirmable reports whether the registration may still transition to
// Confirmed/Completed.
func (r *Registration) Confirmable() bool {
	return r.PaymentStatus == PaymentPending && r.Status != RegistrationCancelled
}

// Trainer is a workshop instructor shown on the marketing site.
type Trainer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Bio          string    `json:"bio"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	LinkedinURL  string    `json:"linkedin_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Testimonial is a participant quote shown on the marketing site.
type Testimonial struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Role         string    `json:"role,omitempty"`
	Company      string    `json:"company,omitempty"`
	Quote        string    `json:"quote"`
	Rating       int       `json:"rating"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// FAQ is a question/answer pair.
type FAQ struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// PricingPlan is a tier on the pricing page.
type PricingPlan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	Period       string    `json:"period"` // per-workshop | monthly | yearly
	Features     []string  `json:"features"`
	Highlighted  bool      `json:"highlighted"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScholarshipStatus is the review state of a scholarship application.
type ScholarshipStatus string

const (
	ScholarshipPending  ScholarshipStatus = "pending"
	ScholarshipApproved ScholarshipStatus = "approved"
	ScholarshipRejected ScholarshipStatus = "rejected"
)

// Scholarship is an application for discounted attendance.
type Scholarship struct {
	ID            string            `json:"id"`
	ApplicantName string            `json:"applicant_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	WorkshopID    string            `json:"workshop_id"`
	Reason        string            `json:"reason"`
	Status        ScholarshipStatus `json:"status"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Certificate is issued once a registration is confirmed and can be
// verified publicly by its code.
type Certificate struct {
	ID               string    `json:"id"`
	RegistrationID   string    `json:"registration_id"`
	WorkshopTitle    string    `json:"workshop_title"`
	RecipientName    string    `json:"recipient_name"`
	VerificationCode string    `json:"verification_code"`
	IssuedAt         time.Time `json:"issued_at"`
}

// Admin is a backend login principal.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotificationKind selects which email an outbox entry produces.
type NotificationKind string

const (
	NotificationBillEmail  NotificationKind = "bill_email"
	NotificationAdminAlert NotificationKind = "admin_alert"
)

// OutboxStatus is the delivery state of an outbox entry.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxDead    OutboxStatus = "dead"
)

// OutboxEntry is one durable pending notification.
type OutboxEntry struct {
	ID             string           `json:"id"`
	Kind           NotificationKind `json:"kind"`
	RegistrationID string           `json:"registration_id"`
	Status         OutboxStatus     `json:"status"`
	Attempts       int              `json:"attempts"`
	NextAttemptAt  time.Time        `json:"next_attempt_at"`
	LastError      string           `json:"last_error,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	SentAt         *time.Time       `json:"sent_at,omitempty"`
}
