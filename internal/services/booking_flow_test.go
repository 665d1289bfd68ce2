package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"puja-backend/internal/gateway"
	"puja-backend/internal/models"
)

type fakeBookingStore struct {
	bookings map[string]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	cp := *b
	f.bookings[b.BookingID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByBookingID(_ context.Context, bookingID string) (*models.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

// Mirrors the repository UPDATE: a retry session also resets both
// statuses to pending.
func (f *fakeBookingStore) UpdateSession(_ context.Context, bookingID, sessionID, gatewayOrderID string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return pgx.ErrNoRows
	}
	b.PaymentSessionID = sessionID
	b.GatewayOrderID = gatewayOrderID
	b.PaymentStatus = models.PaymentStatusPending
	b.BookingStatus = models.BookingStatusPending
	return nil
}

func (f *fakeBookingStore) ApplyWebhook(_ context.Context, u models.WebhookUpdate) (bool, error) {
	b, ok := f.bookings[u.BookingID]
	if !ok {
		return false, nil
	}
	if b.PaymentStatus == models.PaymentStatusSuccess {
		return false, nil
	}
	b.PaymentStatus = u.PaymentStatus
	b.BookingStatus = u.BookingStatus
	b.PaymentReference = u.PaymentReference
	b.PaymentType = u.PaymentType
	return true, nil
}

func (f *fakeBookingStore) MarkWhatsAppSent(_ context.Context, bookingID string) (bool, error) {
	b, ok := f.bookings[bookingID]
	if !ok || b.WhatsAppSent {
		return false, nil
	}
	b.WhatsAppSent = true
	return true, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListAdmin(_ context.Context, _ models.BookingFilter) ([]models.Booking, int, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, len(out), nil
}

type fakePackageStore struct {
	pkg      *models.PujaPackage
	pujaCode string
}

func (f *fakePackageStore) GetPackageByCode(_ context.Context, code string) (*models.PujaPackage, string, error) {
	if f.pkg == nil || f.pkg.PackageCode != code {
		return nil, "", pgx.ErrNoRows
	}
	cp := *f.pkg
	return &cp, f.pujaCode, nil
}

type fakeCouponStore struct {
	coupons map[string]*models.Coupon
}

func (f *fakeCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := f.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

type fakeGateway struct {
	session   string
	err       error
	orders    []gateway.OrderRequest
	fetched   *gateway.OrderStatus
	fetchErr  error
	fetchedID string
}

func (f *fakeGateway) CreateOrder(_ context.Context, req *gateway.OrderRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.orders = append(f.orders, *req)
	return f.session, nil
}

func (f *fakeGateway) FetchOrder(_ context.Context, orderID string) (*gateway.OrderStatus, error) {
	f.fetchedID = orderID
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetched, nil
}

type fakeWhatsApp struct {
	sent []struct {
		phone    string
		campaign string
		params   []string
	}
	err error
}

func (f *fakeWhatsApp) SendTemplateMessage(phone, campaignName string, params []string) error {
	f.sent = append(f.sent, struct {
		phone    string
		campaign string
		params   []string
	}{phone, campaignName, params})
	return f.err
}

type bookingFixture struct {
	svc      *BookingService
	store    *fakeBookingStore
	gateway  *fakeGateway
	whatsapp *fakeWhatsApp
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	store := newFakeBookingStore()
	gw := &fakeGateway{session: "session_test123"}
	wa := &fakeWhatsApp{}
	pkgs := &fakePackageStore{
		pkg: &models.PujaPackage{
			ID:          11,
			PackageCode: "KSPKG1001",
			PujaID:      5,
			PackageName: "Family",
			PujaDate:    time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
			Price:       1100,
			MaxDevotees: 4,
		},
		pujaCode: "KSP1001",
	}
	coupons := &fakeCouponStore{coupons: map[string]*models.Coupon{
		"FEST10": {
			Code:            "FEST10",
			DiscountPercent: 10,
			ValidFrom:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			ValidUntil:      time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC),
			Active:          true,
		},
	}}

	svc := NewBookingService(store, pkgs, coupons, gw, wa)
	svc.now = func() time.Time { return time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC) }
	return &bookingFixture{svc: svc, store: store, gateway: gw, whatsapp: wa}
}

func validCheckout() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		PackageCode:  "KSPKG1001",
		PujaCode:     "KSP1001",
		PujaDate:     "2026-09-20",
		Devotees:     []models.Devotee{{Name: "Ramesh", DateOfBirth: "15/08/1990"}},
		ContactName:  "Ramesh Kumar",
		ContactPhone: "9876543210",
		TotalAmount:  1100,
	}
}

func checkoutUser() *models.User {
	return &models.User{ID: 7, UserCode: "KSB1007", Phone: "9876543210"}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		fx := newBookingFixture(t)
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		if resp.PaymentSessionID != "session_test123" {
			t.Errorf("session = %q", resp.PaymentSessionID)
		}
		if resp.TotalAmount != 1100 {
			t.Errorf("total = %v, want 1100", resp.TotalAmount)
		}

		b, err := fx.store.GetByBookingID(ctx, resp.BookingID)
		if err != nil {
			t.Fatalf("booking not persisted: %v", err)
		}
		if b.PaymentStatus != models.PaymentStatusPending || b.BookingStatus != models.BookingStatusPending {
			t.Errorf("statuses = %s/%s, want pending/pending", b.PaymentStatus, b.BookingStatus)
		}
		if b.Devotees[0].DateOfBirth != "1990-08-15" {
			t.Errorf("dob = %q, want normalized ISO", b.Devotees[0].DateOfBirth)
		}
		if len(fx.gateway.orders) != 1 || fx.gateway.orders[0].OrderID != resp.BookingID {
			t.Errorf("gateway orders = %+v, want one with id %s", fx.gateway.orders, resp.BookingID)
		}
	})

	t.Run("session fragment stripped", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.gateway.session = "session_abcspaymentdef"
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		if resp.PaymentSessionID != "session_abcdef" {
			t.Errorf("session = %q, want session_abcdef", resp.PaymentSessionID)
		}
	})

	t.Run("malformed session persists nothing", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.gateway.session = "garbage"
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout()); !errors.Is(err, ErrBadSessionID) {
			t.Fatalf("err = %v, want ErrBadSessionID", err)
		}
		if len(fx.store.bookings) != 0 {
			t.Error("booking persisted despite session failure")
		}
	})

	t.Run("zero total rejected before the gateway", func(t *testing.T) {
		fx := newBookingFixture(t)
		req := validCheckout()
		req.TotalAmount = 0
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), req); !errors.Is(err, ErrCheckoutInvalid) {
			t.Fatalf("err = %v, want ErrCheckoutInvalid", err)
		}
		if len(fx.gateway.orders) != 0 || len(fx.store.bookings) != 0 {
			t.Error("side effects on rejected checkout")
		}
	})

	t.Run("bad devotee dob rejected", func(t *testing.T) {
		fx := newBookingFixture(t)
		req := validCheckout()
		req.Devotees[0].DateOfBirth = "31/31/1990"
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), req); !errors.Is(err, ErrCheckoutInvalid) {
			t.Fatalf("err = %v, want ErrCheckoutInvalid", err)
		}
		if len(fx.store.bookings) != 0 {
			t.Error("booking persisted despite bad dob")
		}
	})

	t.Run("unknown package", func(t *testing.T) {
		fx := newBookingFixture(t)
		req := validCheckout()
		req.PackageCode = "KSPKG9999"
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), req); !errors.Is(err, ErrPackageNotFound) {
			t.Fatalf("err = %v, want ErrPackageNotFound", err)
		}
	})

	t.Run("amount mismatch", func(t *testing.T) {
		fx := newBookingFixture(t)
		req := validCheckout()
		req.TotalAmount = 999
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), req); !errors.Is(err, ErrAmountMismatch) {
			t.Fatalf("err = %v, want ErrAmountMismatch", err)
		}
		if len(fx.gateway.orders) != 0 {
			t.Error("gateway order created despite mismatch")
		}
	})

	t.Run("too many devotees", func(t *testing.T) {
		fx := newBookingFixture(t)
		req := validCheckout()
		req.Devotees = make([]models.Devotee, 5)
		for i := range req.Devotees {
			req.Devotees[i].Name = "D"
		}
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), req); !errors.Is(err, ErrCheckoutInvalid) {
			t.Fatalf("err = %v, want ErrCheckoutInvalid", err)
		}
	})

	t.Run("coupon applied", func(t *testing.T) {
		fx := newBookingFixture(t)
		req := validCheckout()
		req.CouponCode = "FEST10"
		req.TotalAmount = 990
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), req)
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		if resp.TotalAmount != 990 {
			t.Errorf("total = %v, want 990", resp.TotalAmount)
		}
		b, _ := fx.store.GetByBookingID(ctx, resp.BookingID)
		if b.Discount != 110 || b.Amount != 1100 {
			t.Errorf("amount/discount = %v/%v, want 1100/110", b.Amount, b.Discount)
		}
	})

	t.Run("expired coupon rejected", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.svc.now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }
		req := validCheckout()
		req.CouponCode = "FEST10"
		req.TotalAmount = 990
		if _, err := fx.svc.Checkout(ctx, checkoutUser(), req); !errors.Is(err, ErrInvalidCoupon) {
			t.Fatalf("err = %v, want ErrInvalidCoupon", err)
		}
	})
}

func successWebhook(orderID string) *gateway.WebhookPayload {
	var p gateway.WebhookPayload
	p.Data.Order.OrderID = orderID
	p.Data.Payment.PaymentStatus = "SUCCESS"
	p.Data.Payment.BankReference = "UTR1234"
	p.Data.Payment.PaymentMethod = map[string]map[string]interface{}{
		"upi": {"upi_id": "user@okbank"},
	}
	return &p
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	book := func(t *testing.T, fx *bookingFixture) string {
		t.Helper()
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		return resp.BookingID
	}

	t.Run("success confirms and notifies once", func(t *testing.T) {
		fx := newBookingFixture(t)
		id := book(t, fx)

		if err := fx.svc.HandleWebhook(ctx, successWebhook(id)); err != nil {
			t.Fatalf("HandleWebhook error: %v", err)
		}

		b, _ := fx.store.GetByBookingID(ctx, id)
		if b.PaymentStatus != "success" || b.BookingStatus != models.BookingStatusConfirmed {
			t.Errorf("statuses = %s/%s, want success/confirmed", b.PaymentStatus, b.BookingStatus)
		}
		if b.PaymentReference != "UTR1234" || b.PaymentType != "upi" {
			t.Errorf("reference/type = %s/%s", b.PaymentReference, b.PaymentType)
		}
		if len(fx.whatsapp.sent) != 1 {
			t.Fatalf("whatsapp sends = %d, want 1", len(fx.whatsapp.sent))
		}
		msg := fx.whatsapp.sent[0]
		if msg.campaign != "booking_confirmation" || len(msg.params) != 6 {
			t.Errorf("campaign = %q with %d params, want booking_confirmation with 6", msg.campaign, len(msg.params))
		}
		if msg.params[5] != id {
			t.Errorf("params[5] = %q, want booking id", msg.params[5])
		}

		// Redelivery: no second send, no state change
		if err := fx.svc.HandleWebhook(ctx, successWebhook(id)); err != nil {
			t.Fatalf("redelivered webhook error: %v", err)
		}
		if len(fx.whatsapp.sent) != 1 {
			t.Errorf("whatsapp sends after redelivery = %d, want 1", len(fx.whatsapp.sent))
		}
	})

	t.Run("failure keeps booking pending", func(t *testing.T) {
		fx := newBookingFixture(t)
		id := book(t, fx)

		p := successWebhook(id)
		p.Data.Payment.PaymentStatus = "FAILED"
		if err := fx.svc.HandleWebhook(ctx, p); err != nil {
			t.Fatalf("HandleWebhook error: %v", err)
		}

		b, _ := fx.store.GetByBookingID(ctx, id)
		if b.PaymentStatus != "failed" {
			t.Errorf("payment status = %q, want the raw status lowercased", b.PaymentStatus)
		}
		if b.BookingStatus != models.BookingStatusPending {
			t.Errorf("booking status = %q, want pending", b.BookingStatus)
		}
		if len(fx.whatsapp.sent) != 0 {
			t.Error("whatsapp sent for a failed payment")
		}
	})

	t.Run("success is never downgraded", func(t *testing.T) {
		fx := newBookingFixture(t)
		id := book(t, fx)

		if err := fx.svc.HandleWebhook(ctx, successWebhook(id)); err != nil {
			t.Fatalf("HandleWebhook error: %v", err)
		}
		p := successWebhook(id)
		p.Data.Payment.PaymentStatus = "FAILED"
		if err := fx.svc.HandleWebhook(ctx, p); err != nil {
			t.Fatalf("late failure webhook error: %v", err)
		}

		b, _ := fx.store.GetByBookingID(ctx, id)
		if b.PaymentStatus != "success" || b.BookingStatus != models.BookingStatusConfirmed {
			t.Errorf("statuses = %s/%s, success was downgraded", b.PaymentStatus, b.BookingStatus)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		fx := newBookingFixture(t)
		var p gateway.WebhookPayload
		if err := fx.svc.HandleWebhook(ctx, &p); !errors.Is(err, ErrWebhookBadPayload) {
			t.Fatalf("err = %v, want ErrWebhookBadPayload", err)
		}
	})

	t.Run("unknown booking has no side effects", func(t *testing.T) {
		fx := newBookingFixture(t)
		if err := fx.svc.HandleWebhook(ctx, successWebhook("KSB0")); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("err = %v, want ErrBookingNotFound", err)
		}
		if len(fx.whatsapp.sent) != 0 {
			t.Error("whatsapp sent for unknown booking")
		}
	})

	t.Run("retry order id lands on the original booking", func(t *testing.T) {
		fx := newBookingFixture(t)
		id := book(t, fx)

		if err := fx.svc.HandleWebhook(ctx, successWebhook(id+"_retry_1756700999")); err != nil {
			t.Fatalf("HandleWebhook error: %v", err)
		}
		b, _ := fx.store.GetByBookingID(ctx, id)
		if b.BookingStatus != models.BookingStatusConfirmed {
			t.Errorf("booking status = %q, want confirmed via retry order id", b.BookingStatus)
		}
	})

	t.Run("whatsapp failure does not fail the webhook", func(t *testing.T) {
		fx := newBookingFixture(t)
		id := book(t, fx)
		fx.whatsapp.err = errors.New("provider down")

		if err := fx.svc.HandleWebhook(ctx, successWebhook(id)); err != nil {
			t.Fatalf("HandleWebhook error: %v, want nil despite whatsapp failure", err)
		}
		b, _ := fx.store.GetByBookingID(ctx, id)
		if b.BookingStatus != models.BookingStatusConfirmed {
			t.Error("booking not confirmed")
		}
	})
}

func TestRetryPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("pending booking gets a fresh session", func(t *testing.T) {
		fx := newBookingFixture(t)
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}

		fx.gateway.session = "session_retry456"
		retry, err := fx.svc.RetryPayment(ctx, resp.BookingID)
		if err != nil {
			t.Fatalf("RetryPayment error: %v", err)
		}
		if retry.PaymentSessionID != "session_retry456" {
			t.Errorf("session = %q", retry.PaymentSessionID)
		}
		if !strings.HasPrefix(retry.GatewayOrderID, resp.BookingID+"_retry_") {
			t.Errorf("gateway order id = %q, want %s_retry_ prefix", retry.GatewayOrderID, resp.BookingID)
		}

		b, _ := fx.store.GetByBookingID(ctx, resp.BookingID)
		if b.PaymentSessionID != "session_retry456" || b.GatewayOrderID != retry.GatewayOrderID {
			t.Errorf("persisted session/order = %s/%s", b.PaymentSessionID, b.GatewayOrderID)
		}
		// Retry reuses the original amount
		if got := fx.gateway.orders[len(fx.gateway.orders)-1].Amount; got != 1100 {
			t.Errorf("retry order amount = %v, want 1100", got)
		}
	})

	t.Run("failed booking resets to pending", func(t *testing.T) {
		fx := newBookingFixture(t)
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		p := successWebhook(resp.BookingID)
		p.Data.Payment.PaymentStatus = "FAILED"
		if err := fx.svc.HandleWebhook(ctx, p); err != nil {
			t.Fatalf("HandleWebhook error: %v", err)
		}

		fx.gateway.session = "session_retry789"
		if _, err := fx.svc.RetryPayment(ctx, resp.BookingID); err != nil {
			t.Fatalf("RetryPayment error: %v", err)
		}

		b, _ := fx.store.GetByBookingID(ctx, resp.BookingID)
		if b.PaymentStatus != models.PaymentStatusPending || b.BookingStatus != models.BookingStatusPending {
			t.Errorf("statuses after retry = %s/%s, want pending/pending", b.PaymentStatus, b.BookingStatus)
		}
		if b.PaymentSessionID != "session_retry789" {
			t.Errorf("session = %q, want the fresh one", b.PaymentSessionID)
		}
	})

	t.Run("paid booking rejected", func(t *testing.T) {
		fx := newBookingFixture(t)
		resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		if err := fx.svc.HandleWebhook(ctx, successWebhook(resp.BookingID)); err != nil {
			t.Fatalf("HandleWebhook error: %v", err)
		}
		if _, err := fx.svc.RetryPayment(ctx, resp.BookingID); !errors.Is(err, ErrAlreadyPaid) {
			t.Fatalf("err = %v, want ErrAlreadyPaid", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		fx := newBookingFixture(t)
		if _, err := fx.svc.RetryPayment(ctx, "KSB0"); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("err = %v, want ErrBookingNotFound", err)
		}
	})
}

func TestGatewayStatusDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	fx.gateway.fetched = &gateway.OrderStatus{OrderID: resp.BookingID, OrderStatus: "PAID", OrderAmount: 1100}

	status, err := fx.svc.GatewayStatus(ctx, resp.BookingID)
	if err != nil {
		t.Fatalf("GatewayStatus error: %v", err)
	}
	if status.OrderStatus != "PAID" {
		t.Errorf("gateway status = %q", status.OrderStatus)
	}
	if fx.gateway.fetchedID != resp.BookingID {
		t.Errorf("fetched order id = %q", fx.gateway.fetchedID)
	}

	// The local row is untouched by the live lookup
	b, _ := fx.store.GetByBookingID(ctx, resp.BookingID)
	if b.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("local payment status = %q, want pending", b.PaymentStatus)
	}
}

func TestGetForReceipt(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	resp, err := fx.svc.Checkout(ctx, checkoutUser(), validCheckout())
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}

	if _, err := fx.svc.GetForReceipt(ctx, resp.BookingID); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("err = %v, want ErrNotConfirmed for a pending booking", err)
	}

	if err := fx.svc.HandleWebhook(ctx, successWebhook(resp.BookingID)); err != nil {
		t.Fatalf("HandleWebhook error: %v", err)
	}
	b, err := fx.svc.GetForReceipt(ctx, resp.BookingID)
	if err != nil {
		t.Fatalf("GetForReceipt error: %v", err)
	}
	if b.BookingStatus != models.BookingStatusConfirmed {
		t.Errorf("booking status = %q", b.BookingStatus)
	}
}
