package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"puja-backend/internal/middleware"
	"puja-backend/internal/models"
	"puja-backend/internal/services"
	"puja-backend/pkg/utils"
)

type UserAuthHandler struct {
	OTPService  *services.OTPService
	UserService *services.UserService
}

func NewUserAuthHandler(otpService *services.OTPService, userService *services.UserService) *UserAuthHandler {
	return &UserAuthHandler{OTPService: otpService, UserService: userService}
}

// CreateAccount starts phone registration by dispatching an OTP.
func (h *UserAuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.OTPService.RequestOTP(r.Context(), req.Phone); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone),
			errors.Is(err, services.ErrAlreadyRegistered):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "OTP sent successfully",
	})
}

// VerifyOTP completes registration and returns a session token.
func (h *UserAuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.OTPService.VerifyOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone),
			errors.Is(err, services.ErrOTPExpired),
			errors.Is(err, services.ErrOTPMismatch):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *UserAuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.UserService.SetPassword(r.Context(), userID, req.Password); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password set successfully",
	})
}

func (h *UserAuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.UserService.ResetPassword(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		default:
			utils.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset successfully",
	})
}

// Login authenticates by phone and password. Failure reasons stay
// distinct so the frontend can route to registration or reset.
func (h *UserAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.UserService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrAccountInactive):
			utils.Error(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrWrongPassword),
			errors.Is(err, services.ErrNoPasswordSet),
			errors.Is(err, services.ErrNotVerified),
			errors.Is(err, services.ErrInvalidPhone):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *UserAuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

func (h *UserAuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, user)
}
