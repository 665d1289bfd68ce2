package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"puja-backend/internal/middleware"
	"puja-backend/internal/models"
	"puja-backend/internal/services"
	"puja-backend/pkg/utils"
)

type BookingHandler struct {
	BookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: bookingService}
}

// ListMine returns the authenticated devotee's bookings.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	bookings, err := h.BookingService.ListForUser(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, bookings)
}

// ListAdmin returns bookings with optional filters and pagination.
func (h *BookingHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.BookingFilter{
		PaymentStatus: q.Get("payment_status"),
		BookingStatus: q.Get("booking_status"),
		PujaCode:      q.Get("puja_id"),
		Limit:         limit,
		Offset:        offset,
	}

	bookings, total, err := h.BookingService.ListForAdmin(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
	})
}

// Receipt renders a confirmed booking as a PDF.
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]

	booking, err := h.BookingService.GetForReceipt(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotConfirmed):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	pdf, err := services.GenerateBookingReceipt(booking)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Receipt generation failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="receipt_%s.pdf"`, booking.BookingID))
	w.Write(pdf)
}
