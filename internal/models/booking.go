package models

import "time"

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"

	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// Devotee is one participant in a booking. DOB arrives as DD/MM/YYYY
// from the frontend and is normalized to a date at checkout.
type Devotee struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
	Gotra       string `json:"gotra,omitempty"`
	Nakshatra   string `json:"nakshatra,omitempty"`
}

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Booking is the transactional record of a purchase. booking_id is the
// client-visible order id; the surrogate id never leaves the database
// layer's queries.
type Booking struct {
	ID               int       `json:"-"`
	BookingID        string    `json:"booking_id"`
	PujaID           int       `json:"-"`
	PujaCode         string    `json:"puja_id"`
	PujaName         string    `json:"puja_name"`
	PackageCode      string    `json:"package_id"`
	UserID           int       `json:"-"`
	PujaDate         time.Time `json:"puja_date"`
	Devotees         []Devotee `json:"devotees"`
	ContactName      string    `json:"contact_name"`
	ContactPhone     string    `json:"contact_phone"`
	ContactEmail     string    `json:"contact_email"`
	ShippingAddress  Address   `json:"shipping_address"`
	BillingAddress   Address   `json:"billing_address"`
	Amount           float64   `json:"amount"`
	CouponCode       string    `json:"coupon_code,omitempty"`
	Discount         float64   `json:"discount"`
	TotalAmount      float64   `json:"total_amount"`
	PaymentStatus    string    `json:"payment_status"`
	BookingStatus    string    `json:"booking_status"`
	PaymentSessionID string    `json:"payment_session_id,omitempty"`
	GatewayOrderID   string    `json:"-"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	PaymentType      string    `json:"payment_type,omitempty"`
	WhatsAppSent     bool      `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CheckoutRequest starts a booking and requests a hosted-checkout
// session from the gateway.
type CheckoutRequest struct {
	PujaCode        string    `json:"puja_id"`
	PackageCode     string    `json:"package_id"`
	PujaDate        string    `json:"puja_date"` // ISO date
	Devotees        []Devotee `json:"devotees"`
	ContactName     string    `json:"contact_name"`
	ContactPhone    string    `json:"contact_phone"`
	ContactEmail    string    `json:"contact_email"`
	ShippingAddress Address   `json:"shipping_address"`
	BillingAddress  Address   `json:"billing_address"`
	CouponCode      string    `json:"coupon_code"`
	TotalAmount     float64   `json:"total_amount"`
}

type CheckoutResponse struct {
	BookingID        string  `json:"booking_id"`
	PaymentSessionID string  `json:"payment_session_id"`
	TotalAmount      float64 `json:"total_amount"`
}

// WebhookUpdate is what the webhook applies to a booking row.
type WebhookUpdate struct {
	BookingID        string
	PaymentStatus    string
	BookingStatus    string
	PaymentReference string
	PaymentType      string
}

type RetryPaymentResponse struct {
	BookingID        string `json:"booking_id"`
	PaymentSessionID string `json:"payment_session_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
}

// BookingFilter narrows admin booking lists.
type BookingFilter struct {
	PaymentStatus string
	BookingStatus string
	PujaCode      string
	Limit         int
	Offset        int
}
