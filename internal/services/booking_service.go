package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"puja-backend/internal/gateway"
	"puja-backend/internal/metrics"
	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
	"puja-backend/internal/whatsapp"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPackageNotFound   = errors.New("package not found")
	ErrAmountMismatch    = errors.New("total amount does not match package price")
	ErrInvalidDevotee    = errors.New("devotee details incomplete or invalid")
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrBadSessionID      = errors.New("gateway returned a malformed session id")
	ErrInvalidCoupon     = errors.New("coupon is invalid or expired")
	ErrWebhookBadPayload = errors.New("webhook payload missing order id or payment status")
	ErrNotConfirmed      = errors.New("booking is not confirmed")

	// ErrCheckoutInvalid marks cart validation failures; handlers map it
	// to a 400.
	ErrCheckoutInvalid = errors.New("invalid checkout request")
)

const confirmationCampaign = "booking_confirmation"

// BookingStore is what the booking flow needs from persistence.
// *repositories.BookingRepository satisfies it.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	UpdateSession(ctx context.Context, bookingID, sessionID, gatewayOrderID string) error
	ApplyWebhook(ctx context.Context, u models.WebhookUpdate) (bool, error)
	MarkWhatsAppSent(ctx context.Context, bookingID string) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]models.Booking, error)
	ListAdmin(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error)
}

// PackageStore resolves a package by its business code.
type PackageStore interface {
	GetPackageByCode(ctx context.Context, packageCode string) (*models.PujaPackage, string, error)
}

// CouponStore resolves a coupon by code.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type BookingService struct {
	bookingRepo BookingStore
	pujaRepo    PackageStore
	couponRepo  CouponStore
	gateway     gateway.Client
	whatsapp    whatsapp.Provider
	now         func() time.Time
}

func NewBookingService(
	bookingRepo BookingStore,
	pujaRepo PackageStore,
	couponRepo CouponStore,
	gw gateway.Client,
	wa whatsapp.Provider,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		pujaRepo:    pujaRepo,
		couponRepo:  couponRepo,
		gateway:     gw,
		whatsapp:    wa,
		now:         time.Now,
	}
}

// SanitizeSessionID removes the stray "spayment" fragment some gateway
// responses carry and validates the session_ prefix.
func SanitizeSessionID(raw string) (string, error) {
	s := strings.ReplaceAll(raw, "spayment", "")
	if !strings.HasPrefix(s, "session_") {
		return "", ErrBadSessionID
	}
	return s, nil
}

// NormalizeDOB converts the frontend's DD/MM/YYYY into ISO form,
// accepting ISO input unchanged.
func NormalizeDOB(dob string) (string, error) {
	if dob == "" {
		return "", nil
	}
	if t, err := time.Parse("02/01/2006", dob); err == nil {
		return t.Format(isoDate), nil
	}
	if t, err := time.Parse(isoDate, dob); err == nil {
		return t.Format(isoDate), nil
	}
	return "", fmt.Errorf("invalid date of birth %q: expected DD/MM/YYYY", dob)
}

// ComputeDiscount applies a percentage coupon with its cap. Amounts are
// rounded to paise.
func ComputeDiscount(c *models.Coupon, amount float64) float64 {
	discount := amount * c.DiscountPercent / 100
	if c.MaxDiscount > 0 && discount > c.MaxDiscount {
		discount = c.MaxDiscount
	}
	return math.Round(discount*100) / 100
}

func (s *BookingService) ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) *models.ValidateCouponResponse {
	coupon, err := s.couponRepo.GetByCode(ctx, req.Code)
	if err != nil || !repositories.IsValidAt(coupon, s.now()) {
		return &models.ValidateCouponResponse{Valid: false, Message: "coupon is invalid or expired"}
	}
	return &models.ValidateCouponResponse{
		Valid:    true,
		Discount: ComputeDiscount(coupon, req.Amount),
	}
}

// Checkout validates the cart against the catalog, recomputes the total
// server side, creates the gateway order and only then persists the
// pending booking. The client's total_amount is an integrity check, not
// an input to pricing.
func (s *BookingService) Checkout(ctx context.Context, user *models.User, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be greater than zero", ErrCheckoutInvalid)
	}
	if len(req.Devotees) == 0 {
		return nil, fmt.Errorf("%w: at least one devotee is required", ErrCheckoutInvalid)
	}
	if req.ContactPhone == "" {
		return nil, fmt.Errorf("%w: contact phone is required", ErrCheckoutInvalid)
	}

	for i := range req.Devotees {
		d := &req.Devotees[i]
		if d.Name == "" {
			return nil, ErrInvalidDevotee
		}
		dob, err := NormalizeDOB(d.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCheckoutInvalid, err)
		}
		d.DateOfBirth = dob
	}

	pkg, pujaCode, err := s.pujaRepo.GetPackageByCode(ctx, req.PackageCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	if req.PujaCode != "" && req.PujaCode != pujaCode {
		return nil, ErrPackageNotFound
	}
	if req.PujaDate != "" {
		if want, err := time.Parse(isoDate, req.PujaDate); err != nil || !want.Equal(pkg.PujaDate) {
			return nil, fmt.Errorf("%w: package %s is not offered on %s", ErrCheckoutInvalid, req.PackageCode, req.PujaDate)
		}
	}
	if pkg.MaxDevotees > 0 && len(req.Devotees) > pkg.MaxDevotees {
		return nil, fmt.Errorf("%w: package allows at most %d devotees", ErrCheckoutInvalid, pkg.MaxDevotees)
	}

	amount := pkg.Price
	var discount float64
	if req.CouponCode != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, req.CouponCode)
		if err != nil || !repositories.IsValidAt(coupon, s.now()) {
			return nil, ErrInvalidCoupon
		}
		discount = ComputeDiscount(coupon, amount)
	}
	total := math.Round((amount-discount)*100) / 100
	if math.Abs(total-req.TotalAmount) > 0.01 {
		return nil, ErrAmountMismatch
	}

	bookingID := fmt.Sprintf("KSB%d", s.now().Unix())

	sessionID, err := s.gateway.CreateOrder(ctx, &gateway.OrderRequest{
		OrderID:       bookingID,
		Amount:        total,
		CustomerID:    user.UserCode,
		CustomerPhone: req.ContactPhone,
		CustomerEmail: req.ContactEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}
	sessionID, err = SanitizeSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingID:        bookingID,
		PujaID:           pkg.PujaID,
		PackageCode:      pkg.PackageCode,
		UserID:           user.ID,
		PujaDate:         pkg.PujaDate,
		Devotees:         req.Devotees,
		ContactName:      req.ContactName,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
		ShippingAddress:  req.ShippingAddress,
		BillingAddress:   req.BillingAddress,
		Amount:           amount,
		CouponCode:       req.CouponCode,
		Discount:         discount,
		TotalAmount:      total,
		PaymentStatus:    models.PaymentStatusPending,
		BookingStatus:    models.BookingStatusPending,
		PaymentSessionID: sessionID,
		GatewayOrderID:   bookingID,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	metrics.BookingsCreated.Inc()
	log.Printf("[Booking] created %s for user %s, total %.2f", bookingID, user.UserCode, total)

	return &models.CheckoutResponse{
		BookingID:        bookingID,
		PaymentSessionID: sessionID,
		TotalAmount:      total,
	}, nil
}

// bookingIDFromOrder strips the retry suffix so redelivered webhooks
// for retried payments land on the original booking.
func bookingIDFromOrder(orderID string) string {
	if i := strings.Index(orderID, "_retry_"); i > 0 {
		return orderID[:i]
	}
	return orderID
}

// HandleWebhook applies the gateway verdict. The raw payment status is
// recorded; the booking confirms only on success, and the WhatsApp
// confirmation dispatches exactly once across redeliveries. A settled
// booking is never downgraded.
func (s *BookingService) HandleWebhook(ctx context.Context, payload *gateway.WebhookPayload) error {
	orderID := payload.Data.Order.OrderID
	rawStatus := payload.Data.Payment.PaymentStatus
	if orderID == "" || rawStatus == "" {
		return ErrWebhookBadPayload
	}
	bookingID := bookingIDFromOrder(orderID)

	if _, err := s.bookingRepo.GetByBookingID(ctx, bookingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}

	success := strings.EqualFold(rawStatus, models.PaymentStatusSuccess)
	update := models.WebhookUpdate{
		BookingID:        bookingID,
		PaymentStatus:    strings.ToLower(rawStatus),
		BookingStatus:    models.BookingStatusPending,
		PaymentReference: payload.Data.Payment.BankReference,
		PaymentType:      payload.PaymentType(),
	}
	if success {
		update.BookingStatus = models.BookingStatusConfirmed
	}

	changed, err := s.bookingRepo.ApplyWebhook(ctx, update)
	if err != nil {
		return fmt.Errorf("apply webhook: %w", err)
	}
	if !changed {
		log.Printf("[Webhook] %s already settled, ignoring", bookingID)
		return nil
	}
	if !success {
		log.Printf("[Webhook] %s reported %s, booking stays pending", bookingID, rawStatus)
		return nil
	}

	metrics.BookingsConfirmed.Inc()
	s.dispatchConfirmation(ctx, bookingID)
	return nil
}

// dispatchConfirmation sends the WhatsApp template for a confirmed
// booking at most once. Failures are logged, never propagated: the
// payment is already settled.
func (s *BookingService) dispatchConfirmation(ctx context.Context, bookingID string) {
	won, err := s.bookingRepo.MarkWhatsAppSent(ctx, bookingID)
	if err != nil {
		log.Printf("[WhatsApp] mark sent for %s failed: %v", bookingID, err)
		return
	}
	if !won {
		return
	}

	booking, err := s.bookingRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		log.Printf("[WhatsApp] load booking %s failed: %v", bookingID, err)
		return
	}

	params := []string{
		booking.ContactName,
		booking.PujaName,
		booking.PujaDate.Format("02 Jan 2006"),
		fmt.Sprintf("%d", len(booking.Devotees)),
		fmt.Sprintf("%.2f", booking.TotalAmount),
		booking.BookingID,
	}
	if err := s.whatsapp.SendTemplateMessage(booking.ContactPhone, confirmationCampaign, params); err != nil {
		log.Printf("[WhatsApp] confirmation for %s failed: %v", booking.BookingID, err)
		return
	}
	metrics.WhatsAppDispatched.Inc()
}

// RetryPayment issues a fresh gateway order for a still-pending
// booking. Gateways reject reused order ids, so the retry gets a
// suffixed one.
func (s *BookingService) RetryPayment(ctx context.Context, bookingID string) (*models.RetryPaymentResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == models.PaymentStatusSuccess {
		return nil, ErrAlreadyPaid
	}

	retryOrderID := fmt.Sprintf("%s_retry_%d", booking.BookingID, s.now().Unix())
	sessionID, err := s.gateway.CreateOrder(ctx, &gateway.OrderRequest{
		OrderID:       retryOrderID,
		Amount:        booking.TotalAmount,
		CustomerID:    fmt.Sprintf("%d", booking.UserID),
		CustomerPhone: booking.ContactPhone,
		CustomerEmail: booking.ContactEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("create retry order: %w", err)
	}
	sessionID, err = SanitizeSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateSession(ctx, booking.BookingID, sessionID, retryOrderID); err != nil {
		return nil, fmt.Errorf("store retry session: %w", err)
	}

	return &models.RetryPaymentResponse{
		BookingID:        booking.BookingID,
		PaymentSessionID: sessionID,
		GatewayOrderID:   retryOrderID,
	}, nil
}

// GetStatus is a local row read-through; the gateway is not consulted.
func (s *BookingService) GetStatus(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.loadBooking(ctx, bookingID)
}

// GatewayStatus fetches the live order state from the gateway without
// mutating the booking.
func (s *BookingService) GatewayStatus(ctx context.Context, bookingID string) (*gateway.OrderStatus, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.gateway.FetchOrder(ctx, booking.GatewayOrderID)
}

func (s *BookingService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int) ([]models.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *BookingService) ListForAdmin(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error) {
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 50
	}
	return s.bookingRepo.ListAdmin(ctx, f)
}

// GetForReceipt loads a booking for receipt rendering. Only confirmed
// bookings have receipts.
func (s *BookingService) GetForReceipt(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus != models.BookingStatusConfirmed {
		return nil, ErrNotConfirmed
	}
	return booking, nil
}
