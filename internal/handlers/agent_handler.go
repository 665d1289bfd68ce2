package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"puja-backend/internal/middleware"
	"puja-backend/internal/models"
	"puja-backend/internal/services"
	"puja-backend/pkg/utils"
)

type AgentHandler struct {
	AgentService *services.AgentService
}

func NewAgentHandler(agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{AgentService: agentService}
}

func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.AgentRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	agent, err := h.AgentService.Register(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, agent)
}

func (h *AgentHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AgentLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.AgentService.Login(r.Context(), &req)
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

func (h *AgentHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	agentID, ok := middleware.GetAgentIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	wallet, err := h.AgentService.GetWallet(r.Context(), agentID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Wallet not found")
		return
	}

	utils.JSON(w, http.StatusOK, wallet)
}

func (h *AgentHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	agentID, ok := middleware.GetAgentIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wr, err := h.AgentService.RequestWithdrawal(r.Context(), agentID, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, wr)
}

func (h *AgentHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	agentID, ok := middleware.GetAgentIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	withdrawals, err := h.AgentService.ListWithdrawals(r.Context(), agentID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, withdrawals)
}

// ListPendingWithdrawals serves the admin approval queue.
func (h *AgentHandler) ListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.AgentService.ListPendingWithdrawals(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, withdrawals)
}

// ResolveWithdrawal approves or rejects a pending request.
func (h *AgentHandler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid withdrawal id")
		return
	}

	var req models.ResolveWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wr, err := h.AgentService.ResolveWithdrawal(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResolution) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusConflict, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, wr)
}
