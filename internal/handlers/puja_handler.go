package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"puja-backend/internal/models"
	"puja-backend/internal/services"
	"puja-backend/internal/storage"
	"puja-backend/pkg/utils"
)

const (
	maxUploadSize = 64 << 20 // 64 MB across all parts
	maxMediaFiles = 10
)

type PujaHandler struct {
	PujaService *services.PujaService
	Uploader    *storage.Uploader
}

func NewPujaHandler(pujaService *services.PujaService, uploader *storage.Uploader) *PujaHandler {
	return &PujaHandler{PujaService: pujaService, Uploader: uploader}
}

// uploadPart pushes one multipart file to object storage and returns
// its public URL and detected content type.
func (h *PujaHandler) uploadPart(r *http.Request, fh *multipart.FileHeader, category string) (string, string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", "", err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.Uploader.Upload(r.Context(), category, fh.Filename, data, contentType)
	return url, contentType, err
}

func mediaTypeFor(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}

// collectMedia uploads the request's media parts, tagging each row
// image or video by content type.
func (h *PujaHandler) collectMedia(r *http.Request) ([]models.PujaMedia, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["media"]
	if len(files) > maxMediaFiles {
		return nil, errors.New("too many media files")
	}

	var media []models.PujaMedia
	for _, fh := range files {
		url, contentType, err := h.uploadPart(r, fh, "puja-media")
		if err != nil {
			return nil, err
		}
		media = append(media, models.PujaMedia{MediaType: mediaTypeFor(contentType), URL: url})
	}
	return media, nil
}

func (h *PujaHandler) uploadNamed(r *http.Request, field, category string) (string, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return "", nil
	}
	url, _, err := h.uploadPart(r, r.MultipartForm.File[field][0], category)
	return url, err
}

// CreatePuja handles the multipart catalog create: uploads first, then
// one transaction for all rows.
func (h *PujaHandler) CreatePuja(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var req models.CreatePujaRequest
	if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid data field: "+err.Error())
		return
	}

	thumbnailURL, err := h.uploadNamed(r, "thumbnail", "thumbnails")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Thumbnail upload failed: "+err.Error())
		return
	}
	templeImageURL, err := h.uploadNamed(r, "temple_image", "temples")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Temple image upload failed: "+err.Error())
		return
	}
	media, err := h.collectMedia(r)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Media upload failed: "+err.Error())
		return
	}

	puja, err := h.PujaService.CreatePuja(r.Context(), &req, templeImageURL, thumbnailURL, media)
	if err != nil {
		// Validation failures (missing prices, bad dates) arrive here too;
		// the transaction has already rolled back.
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, puja)
}

func (h *PujaHandler) UpdatePuja(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var req models.UpdatePujaRequest
	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid data field: "+err.Error())
			return
		}
	}

	thumbnailURL, err := h.uploadNamed(r, "thumbnail", "thumbnails")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Thumbnail upload failed: "+err.Error())
		return
	}
	templeImageURL, err := h.uploadNamed(r, "temple_image", "temples")
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Temple image upload failed: "+err.Error())
		return
	}
	newMedia, err := h.collectMedia(r)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Media upload failed: "+err.Error())
		return
	}

	if err := h.PujaService.UpdatePuja(r.Context(), code, &req, templeImageURL, thumbnailURL, newMedia); err != nil {
		if errors.Is(err, services.ErrPujaNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Puja updated",
	})
}

func (h *PujaHandler) UpdatePackages(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req models.UpdatePackagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.PujaService.UpdatePackages(r.Context(), code, &req); err != nil {
		if errors.Is(err, services.ErrPujaNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Packages updated",
	})
}

// ListPujas serves all list projections through one query path. The
// minimal view trims each card to code, name and thumbnail.
func (h *PujaHandler) ListPujas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	resp, err := h.PujaService.List(r.Context(), q.Get("status"), page, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if q.Get("view") == "minimal" {
		type minimalCard struct {
			PujaCode     string `json:"puja_id"`
			Name         string `json:"name"`
			ThumbnailURL string `json:"thumbnail_url"`
		}
		minimal := make([]minimalCard, 0, len(resp.Pujas))
		for _, c := range resp.Pujas {
			minimal = append(minimal, minimalCard{PujaCode: c.PujaCode, Name: c.Name, ThumbnailURL: c.ThumbnailURL})
		}
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"pujas": minimal,
			"total": resp.Total,
			"page":  resp.Page,
			"limit": resp.Limit,
		})
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *PujaHandler) GetPuja(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	detail, err := h.PujaService.GetDetail(r.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrPujaNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, detail)
}
