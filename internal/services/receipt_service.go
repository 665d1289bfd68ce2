package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"puja-backend/internal/models"
	"puja-backend/internal/timeutil"
)

// GenerateBookingReceipt renders a paid booking as a PDF receipt.
func GenerateBookingReceipt(b *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Puja Booking Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Booking Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Booking Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Booking ID: %s", b.BookingID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", b.PujaDate.Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Puja: %s", b.PujaName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Package: %s", b.PackageCode), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Contact: %s", b.ContactName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", b.ContactPhone), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Devotees table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Devotees", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(75, 7, "Name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Gotra", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Nakshatra", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, d := range b.Devotees {
		name := d.Name
		if len(name) > 35 {
			name = name[:32] + "..."
		}
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(75, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, d.Gotra, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, d.Nakshatra, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Payment summary
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Payment Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Amount: Rs. %.2f", b.Amount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Discount: Rs. %.2f", b.Discount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Total: Rs. %.2f", b.TotalAmount), "1", 1, "C", false, 0, "")

	if b.PaymentStatus == models.PaymentStatusSuccess {
		pdf.SetFillColor(200, 255, 200)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(190, 10, "PAID", "1", 1, "C", true, 0, "")
		if b.PaymentReference != "" {
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(190, 7, fmt.Sprintf("Reference: %s  (%s)", b.PaymentReference, b.PaymentType), "", 1, "C", false, 0, "")
		}
	} else {
		pdf.SetFillColor(255, 200, 200)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(190, 10, "PAYMENT PENDING", "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
