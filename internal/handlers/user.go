package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"matchup-backend/internal/middleware"
	"matchup-backend/internal/services"
)

// UserHandler handles user profile and like HTTP requests
type UserHandler struct {
	userService *services.UserService
	likeService *services.LikeService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, likeService *services.LikeService) *UserHandler {
	return &UserHandler{
		userService: userService,
		likeService: likeService,
	}
}

// GetUsers handles GET /api/users
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)
	page, pageSize := parsePageParams(r)

	params := services.ListParams{
		Gender:   r.URL.Query().Get("gender"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := r.URL.Query().Get("minAge"); v != "" {
		params.MinAge, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("maxAge"); v != "" {
		params.MaxAge, _ = strconv.Atoi(v)
	}

	users, total, err := h.userService.ListUsers(ctx, callerID, params)
	if err != nil {
		respondAppError(w, err)
		return
	}

	addPagination(w, page, pageSize, total)
	respondJSON(w, http.StatusOK, newUserListView(users))
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserView(user))
}

// UpdateUser handles PUT /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req services.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdateUser(r.Context(), id, req); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeUser handles POST /api/users/{id}/like/{recipientId}
func (h *UserHandler) LikeUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	recipientID, err := parseIDParam(r, "recipientId")
	if err != nil {
		respondError(w, "Invalid recipient ID", http.StatusBadRequest)
		return
	}

	if err := h.likeService.Like(r.Context(), id, recipientID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetLikes handles GET /api/users/{id}/likes. With likers=true it
// lists the users who like this user, otherwise the users this user
// likes.
func (h *UserHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	page, pageSize := parsePageParams(r)

	if r.URL.Query().Get("likers") == "true" {
		list, total, err := h.likeService.ListLikers(r.Context(), id, page, pageSize)
		if err != nil {
			respondAppError(w, err)
			return
		}
		addPagination(w, page, pageSize, total)
		respondJSON(w, http.StatusOK, newUserListView(list))
		return
	}

	list, total, err := h.likeService.ListLikees(r.Context(), id, page, pageSize)
	if err != nil {
		respondAppError(w, err)
		return
	}
	addPagination(w, page, pageSize, total)
	respondJSON(w, http.StatusOK, newUserListView(list))
}

// DeviceTokenRequest carries the APNs device token to register
type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token"`
}

// RegisterDeviceToken handles POST /api/users/{id}/device-token
func (h *UserHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req DeviceTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.RegisterDeviceToken(r.Context(), id, req.DeviceToken); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
