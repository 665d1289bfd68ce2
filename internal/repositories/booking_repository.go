package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"puja-backend/internal/models"
)

type BookingRepository struct {
	DB *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	devotees, err := json.Marshal(b.Devotees)
	if err != nil {
		return fmt.Errorf("marshal devotees: %w", err)
	}
	shipping, err := json.Marshal(b.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}
	billing, err := json.Marshal(b.BillingAddress)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}

	err = r.DB.QueryRow(ctx,
		`INSERT INTO bookings(booking_id, puja_id, package_code, user_id, puja_date, devotees,
            contact_name, contact_phone, contact_email, shipping_address, billing_address,
            amount, coupon_code, discount, total_amount, payment_status, booking_status,
            payment_session_id, gateway_order_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
         RETURNING id, created_at, updated_at`,
		b.BookingID, b.PujaID, b.PackageCode, b.UserID, b.PujaDate, devotees,
		b.ContactName, b.ContactPhone, b.ContactEmail, shipping, billing,
		b.Amount, b.CouponCode, b.Discount, b.TotalAmount, b.PaymentStatus, b.BookingStatus,
		b.PaymentSessionID, b.GatewayOrderID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return err
}

const bookingColumns = `b.id, b.booking_id, b.puja_id, p.puja_code, p.name, b.package_code, b.user_id,
    b.puja_date, b.devotees, b.contact_name, b.contact_phone, b.contact_email,
    b.shipping_address, b.billing_address, b.amount, b.coupon_code, b.discount, b.total_amount,
    b.payment_status, b.booking_status, b.payment_session_id, b.gateway_order_id,
    b.payment_reference, b.payment_type, b.whatsapp_sent, b.created_at, b.updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	var devotees, shipping, billing []byte
	err := row.Scan(&b.ID, &b.BookingID, &b.PujaID, &b.PujaCode, &b.PujaName, &b.PackageCode, &b.UserID,
		&b.PujaDate, &devotees, &b.ContactName, &b.ContactPhone, &b.ContactEmail,
		&shipping, &billing, &b.Amount, &b.CouponCode, &b.Discount, &b.TotalAmount,
		&b.PaymentStatus, &b.BookingStatus, &b.PaymentSessionID, &b.GatewayOrderID,
		&b.PaymentReference, &b.PaymentType, &b.WhatsAppSent, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(devotees, &b.Devotees); err != nil {
		return nil, fmt.Errorf("unmarshal devotees: %w", err)
	}
	if err := json.Unmarshal(shipping, &b.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	if err := json.Unmarshal(billing, &b.BillingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal billing address: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+bookingColumns+`
         FROM bookings b JOIN pujas p ON p.id = b.puja_id
         WHERE b.booking_id=$1`, bookingID)
	return scanBooking(row)
}

// UpdateSession stores a fresh gateway session on payment retry and
// resets both statuses to pending, so a booking whose last attempt
// failed reports pending again while the new session is live.
func (r *BookingRepository) UpdateSession(ctx context.Context, bookingID, sessionID, gatewayOrderID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE bookings SET payment_session_id=$1, gateway_order_id=$2,
            payment_status=$3, booking_status=$4, updated_at=NOW()
         WHERE booking_id=$5`,
		sessionID, gatewayOrderID, models.PaymentStatusPending, models.BookingStatusPending, bookingID)
	return err
}

// ApplyWebhook records the gateway's verdict. A booking already marked
// success is never downgraded; redelivered or late webhooks become
// no-ops. Returns whether a row actually changed.
func (r *BookingRepository) ApplyWebhook(ctx context.Context, u models.WebhookUpdate) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE bookings SET payment_status=$1, booking_status=$2,
            payment_reference=$3, payment_type=$4, updated_at=NOW()
         WHERE booking_id=$5 AND payment_status <> $6`,
		u.PaymentStatus, u.BookingStatus, u.PaymentReference, u.PaymentType,
		u.BookingID, models.PaymentStatusSuccess)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkWhatsAppSent flips the flag only if it is not already set, so
// exactly one caller wins when webhooks race.
func (r *BookingRepository) MarkWhatsAppSent(ctx context.Context, bookingID string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE bookings SET whatsapp_sent=TRUE, updated_at=NOW()
         WHERE booking_id=$1 AND NOT whatsapp_sent`, bookingID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+bookingColumns+`
         FROM bookings b JOIN pujas p ON p.id = b.puja_id
         WHERE b.user_id=$1 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ListAdmin lists bookings with optional status and puja filters.
func (r *BookingRepository) ListAdmin(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error) {
	var conds []string
	var args []any
	if f.PaymentStatus != "" {
		args = append(args, f.PaymentStatus)
		conds = append(conds, fmt.Sprintf("b.payment_status=$%d", len(args)))
	}
	if f.BookingStatus != "" {
		args = append(args, f.BookingStatus)
		conds = append(conds, fmt.Sprintf("b.booking_status=$%d", len(args)))
	}
	if f.PujaCode != "" {
		args = append(args, f.PujaCode)
		conds = append(conds, fmt.Sprintf("p.puja_code=$%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings b JOIN pujas p ON p.id = b.puja_id`+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit)
	limitPos := len(args)
	args = append(args, f.Offset)
	offsetPos := len(args)

	rows, err := r.DB.Query(ctx,
		`SELECT `+bookingColumns+`
         FROM bookings b JOIN pujas p ON p.id = b.puja_id`+where+
			fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, limitPos, offsetPos),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}

func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}

func (r *BookingRepository) CountByPaymentStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE payment_status=$1`, status).Scan(&n)
	return n, err
}

// TotalRevenue sums paid bookings only.
func (r *BookingRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM bookings WHERE payment_status=$1`,
		models.PaymentStatusSuccess).Scan(&total)
	return total, err
}
