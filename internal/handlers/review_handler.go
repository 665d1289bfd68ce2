package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"puja-backend/internal/middleware"
	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
	"puja-backend/pkg/utils"
)

type ReviewHandler struct {
	ReviewRepo *repositories.ReviewRepository
}

func NewReviewHandler(reviewRepo *repositories.ReviewRepository) *ReviewHandler {
	return &ReviewHandler{ReviewRepo: reviewRepo}
}

// SubmitReview writes the user's review; a second submission for the
// same puja replaces the first.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	code := mux.Vars(r)["code"]

	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.Error(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	review, err := h.ReviewRepo.Upsert(r.Context(), code, userID, req.Rating, req.Comment)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Puja not found")
		return
	}

	utils.JSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	reviews, err := h.ReviewRepo.ListByPuja(r.Context(), code)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, reviews)
}
