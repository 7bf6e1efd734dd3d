package handlers

import (
	"fmt"
	"net/http"

	"matchup-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// 10 MB, matching the client-side uploader limit
const maxUploadSize = 10 << 20

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// AddPhoto handles POST /api/users/{id}/photos (multipart)
func (h *PhotoHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	description := r.FormValue("description")

	photo, err := h.photoService.AddPhoto(r.Context(), userID, header.Filename, file, contentType, description)
	if err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int64("photo_id", photo.ID).
		Bool("is_main", photo.IsMain).
		Msg("Photo added")

	w.Header().Set("Location", fmt.Sprintf("/api/users/%d/photos/%d", userID, photo.ID))
	respondJSON(w, http.StatusCreated, photo)
}

// GetPhoto handles GET /api/users/{id}/photos/{photoId}
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	photoID, err := parseIDParam(r, "photoId")
	if err != nil {
		respondError(w, "Invalid photo ID", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.GetPhoto(r.Context(), userID, photoID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

// SetMainPhoto handles POST /api/users/{id}/photos/{photoId}/setMain
func (h *PhotoHandler) SetMainPhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	photoID, err := parseIDParam(r, "photoId")
	if err != nil {
		respondError(w, "Invalid photo ID", http.StatusBadRequest)
		return
	}

	if err := h.photoService.SetMainPhoto(r.Context(), userID, photoID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /api/users/{id}/photos/{photoId}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	photoID, err := parseIDParam(r, "photoId")
	if err != nil {
		respondError(w, "Invalid photo ID", http.StatusBadRequest)
		return
	}

	if err := h.photoService.DeletePhoto(r.Context(), userID, photoID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
