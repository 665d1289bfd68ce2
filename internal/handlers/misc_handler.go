package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"puja-backend/internal/models"
	"puja-backend/internal/repositories"
	"puja-backend/internal/storage"
	"puja-backend/pkg/utils"
)

// TempleHandler serves the standalone temple directory.
type TempleHandler struct {
	TempleRepo *repositories.TempleRepository
	Uploader   *storage.Uploader
}

func NewTempleHandler(templeRepo *repositories.TempleRepository, uploader *storage.Uploader) *TempleHandler {
	return &TempleHandler{TempleRepo: templeRepo, Uploader: uploader}
}

func (h *TempleHandler) uploadImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return "", nil
	}
	fh := r.MultipartForm.File["image"][0]
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return h.Uploader.Upload(r.Context(), "temples", fh.Filename, data, contentType)
}

func (h *TempleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var t models.Temple
	if err := json.Unmarshal([]byte(r.FormValue("data")), &t); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid data field")
		return
	}
	if t.Name == "" {
		utils.Error(w, http.StatusBadRequest, "temple name is required")
		return
	}

	imageURL, err := h.uploadImage(r)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Image upload failed: "+err.Error())
		return
	}
	if imageURL != "" {
		t.ImageURL = imageURL
	}

	if err := h.TempleRepo.Create(r.Context(), &t); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, t)
}

func (h *TempleHandler) List(w http.ResponseWriter, r *http.Request) {
	temples, err := h.TempleRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, temples)
}

func (h *TempleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid temple id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var t models.Temple
	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid data field")
			return
		}
	}
	t.ID = id

	imageURL, err := h.uploadImage(r)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Image upload failed: "+err.Error())
		return
	}
	if imageURL != "" {
		t.ImageURL = imageURL
	}

	if err := h.TempleRepo.Update(r.Context(), &t); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TempleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid temple id")
		return
	}
	if err := h.TempleRepo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CarouselHandler manages homepage slides.
type CarouselHandler struct {
	CarouselRepo *repositories.CarouselRepository
	Uploader     *storage.Uploader
}

func NewCarouselHandler(carouselRepo *repositories.CarouselRepository, uploader *storage.Uploader) *CarouselHandler {
	return &CarouselHandler{CarouselRepo: carouselRepo, Uploader: uploader}
}

func (h *CarouselHandler) uploadImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return "", nil
	}
	fh := r.MultipartForm.File["image"][0]
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return h.Uploader.Upload(r.Context(), "carousel", fh.Filename, data, contentType)
}

func (h *CarouselHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var s models.CarouselSlide
	if err := json.Unmarshal([]byte(r.FormValue("data")), &s); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid data field")
		return
	}

	imageURL, err := h.uploadImage(r)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Image upload failed: "+err.Error())
		return
	}
	if imageURL != "" {
		s.ImageURL = imageURL
	}
	if s.ImageURL == "" {
		utils.Error(w, http.StatusBadRequest, "slide image is required")
		return
	}

	if err := h.CarouselRepo.Create(r.Context(), &s); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, s)
}

func (h *CarouselHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid slide id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var u models.CarouselSlideUpdate
	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid data field")
			return
		}
	}

	imageURL, err := h.uploadImage(r)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Image upload failed: "+err.Error())
		return
	}
	u.ImageURL = imageURL

	if err := h.CarouselRepo.Update(r.Context(), id, &u); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListPublic returns active slides in display order.
func (h *CarouselHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	slides, err := h.CarouselRepo.ListActive(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, slides)
}

func (h *CarouselHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	slides, err := h.CarouselRepo.ListAll(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, slides)
}

func (h *CarouselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid slide id")
		return
	}
	if err := h.CarouselRepo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// FeedbackHandler collects public feedback for the admin console.
type FeedbackHandler struct {
	FeedbackRepo *repositories.FeedbackRepository
}

func NewFeedbackHandler(feedbackRepo *repositories.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{FeedbackRepo: feedbackRepo}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var f models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if f.Message == "" {
		utils.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		utils.Error(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	if err := h.FeedbackRepo.Create(r.Context(), &f); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, f)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.FeedbackRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, items)
}
