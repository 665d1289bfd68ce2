package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"puja-backend/internal/gateway"
	"puja-backend/internal/middleware"
	"puja-backend/internal/models"
	"puja-backend/internal/services"
	"puja-backend/pkg/utils"
)

type PaymentHandler struct {
	BookingService *services.BookingService
	UserService    *services.UserService
}

func NewPaymentHandler(bookingService *services.BookingService, userService *services.UserService) *PaymentHandler {
	return &PaymentHandler{BookingService: bookingService, UserService: userService}
}

// GenerateToken validates the cart, creates a gateway order and
// persists the pending booking.
func (h *PaymentHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "User not found")
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.BookingService.Checkout(r.Context(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPackageNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrBadSessionID):
			utils.Error(w, http.StatusInternalServerError, err.Error())
		case errors.Is(err, services.ErrAmountMismatch),
			errors.Is(err, services.ErrInvalidDevotee),
			errors.Is(err, services.ErrInvalidCoupon),
			errors.Is(err, services.ErrCheckoutInvalid):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Webhook receives the gateway callback. The raw body is read in full
// so a signature check can be added without changing the handler shape.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Cannot read body")
		return
	}

	var payload gateway.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if err := h.BookingService.HandleWebhook(r.Context(), &payload); err != nil {
		switch {
		case errors.Is(err, services.ErrWebhookBadPayload):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrBookingNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("[Webhook] processing failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]

	resp, err := h.BookingService.RetryPayment(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrAlreadyPaid):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// GetStatus reads the local booking row only.
func (h *PaymentHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]

	booking, err := h.BookingService.GetStatus(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, booking)
}

// GetGatewayStatus fetches the live order state without mutating the
// booking.
func (h *PaymentHandler) GetGatewayStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]

	status, err := h.BookingService.GatewayStatus(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, status)
}
