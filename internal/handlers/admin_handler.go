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

type AdminHandler struct {
	AdminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{AdminService: adminService}
}

func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	admin, err := h.AdminService.Register(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, admin)
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.AdminService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			utils.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// TOTPLogin exchanges the pending token plus authenticator code for a
// full session.
func (h *AdminHandler) TOTPLogin(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.AdminService.CompleteTOTPLogin(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTOTP) {
			utils.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.Error(w, http.StatusUnauthorized, "Invalid or expired temp token")
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	url, err := h.AdminService.SetupTOTP(r.Context(), adminID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"otpauth_url": url})
}

func (h *AdminHandler) ConfirmTOTP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.AdminService.ConfirmTOTP(r.Context(), adminID, req.Code); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Two-factor authentication enabled",
	})
}
