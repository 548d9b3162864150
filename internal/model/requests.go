package model

// Request payloads validated at the handler boundary and the standard
// response envelope.

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateOrderRequest starts a payment attempt for a workshop.
type CreateOrderRequest struct {
	UserName      string `json:"userName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=10,max=15"`
	WorkshopID    string `json:"workshopId" validate:"required"`
	WorkshopTitle string `json:"workshopTitle" validate:"required"`
	Organization  string `json:"organization"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
}

// CreateOrderResponse is returned on successful order creation.
type CreateOrderResponse struct {
	RegistrationID string `json:"registrationId"`
	OrderID        string `json:"orderId"`
	Amount         int64  `json:"amount"` // minor units, as the checkout widget expects
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

// VerifyPaymentRequest carries the checkout outcome back from the client.
type VerifyPaymentRequest struct {
	RegistrationID string `json:"registrationId" validate:"required"`
	OrderID        string `json:"orderId" validate:"required"`
	PaymentID      string `json:"paymentId" validate:"required"`
	Signature      string `json:"signature" validate:"required"`
}

// VerifyPaymentResponse is returned once the payment is confirmed.
type VerifyPaymentResponse struct {
	RegistrationID  string `json:"registrationId"`
	PaymentID       string `json:"paymentId"`
	Status          string `json:"status"`
	BillDownloadURL string `json:"billDownloadUrl"`
}

// PaymentFailureRequest acknowledges a failed checkout.
type PaymentFailureRequest struct {
	RegistrationID string `json:"registrationId" validate:"required"`
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	Error          string `json:"error"`
}

// RefundRequest triggers a vendor-side refund for a confirmed registration.
type RefundRequest struct {
	Amount *int64 `json:"amount,omitempty" validate:"omitempty,gt=0"` // whole rupees; nil = full
	Reason string `json:"reason"`
}

// UpsertWorkshopRequest creates or updates a workshop.
type UpsertWorkshopRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	TrainerID    string `json:"trainer_id"`
	Price        int64  `json:"price" validate:"gte=0"`
	Capacity     int    `json:"capacity" validate:"required,gt=0,lte=100000"`
	StartsAt     string `json:"starts_at" validate:"required"` // RFC 3339
	DurationDays int    `json:"duration_days" validate:"gte=0"`
	Mode         string `json:"mode" validate:"omitempty,oneof=online in-person hybrid"`
	DisplayOrder int    `json:"display_order"`
}

// UpsertTrainerRequest creates or updates a trainer profile.
type UpsertTrainerRequest struct {
	Name         string `json:"name" validate:"required"`
	Title        string `json:"title"`
	Bio          string `json:"bio"`
	PhotoURL     string `json:"photo_url" validate:"omitempty,url"`
	LinkedinURL  string `json:"linkedin_url" validate:"omitempty,url"`
	DisplayOrder int    `json:"display_order"`
}

// UpsertTestimonialRequest creates or updates a testimonial.
type UpsertTestimonialRequest struct {
	Author       string `json:"author" validate:"required"`
	Role         string `json:"role"`
	Company      string `json:"company"`
	Quote        string `json:"quote" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	DisplayOrder int    `json:"display_order"`
}

// UpsertFAQRequest creates or updates a FAQ entry.
type UpsertFAQRequest struct {
	Question     string `json:"question" validate:"required"`
	Answer       string `json:"answer" validate:"required"`
	DisplayOrder int    `json:"display_order"`
}

// UpsertPricingPlanRequest creates or updates a pricing plan.
type UpsertPricingPlanRequest struct {
	Name         string   `json:"name" validate:"required"`
	Price        int64    `json:"price" validate:"gte=0"`
	Period       string   `json:"period" validate:"required,oneof=per-workshop monthly yearly"`
	Features     []string `json:"features"`
	Highlighted  bool     `json:"highlighted"`
	DisplayOrder int      `json:"display_order"`
}

// ReorderRequest sets the display order of a collection; ids appear in the
// desired order.
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ApplyScholarshipRequest is a public scholarship application.
type ApplyScholarshipRequest struct {
	ApplicantName string `json:"applicant_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=10,max=15"`
	WorkshopID    string `json:"workshop_id" validate:"required"`
	Reason        string `json:"reason" validate:"required"`
}

// ReviewScholarshipRequest approves or rejects an application.
type ReviewScholarshipRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// LoginRequest authenticates an admin.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// WorkshopStats summarises enrollment across workshops.
type WorkshopStats struct {
	TotalWorkshops     int   `json:"total_workshops"`
	TotalCapacity      int   `json:"total_capacity"`
	TotalEnrolled      int   `json:"total_enrolled"`
	ConfirmedRevenue   int64 `json:"confirmed_revenue"`
	PendingRegistrants int   `json:"pending_registrants"`
}
