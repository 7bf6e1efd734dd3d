package handlers

import (
	"encoding/json"
	"net/http"

	"matchup-backend/internal/services"
)

// MessageHandler handles messaging HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// GetMessages handles GET /api/users/{id}/messages
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	page, pageSize := parsePageParams(r)
	container := r.URL.Query().Get("container")

	messages, total, err := h.messageService.ListMessages(r.Context(), userID, container, page, pageSize)
	if err != nil {
		respondAppError(w, err)
		return
	}

	addPagination(w, page, pageSize, total)
	respondJSON(w, http.StatusOK, messages)
}

// GetThread handles GET /api/users/{id}/messages/thread/{recipientId}
func (h *MessageHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	recipientID, err := parseIDParam(r, "recipientId")
	if err != nil {
		respondError(w, "Invalid recipient ID", http.StatusBadRequest)
		return
	}

	messages, err := h.messageService.Thread(r.Context(), userID, recipientID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// CreateMessageRequest carries a new message
type CreateMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
}

// CreateMessage handles POST /api/users/{id}/messages
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Send(r.Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

// DeleteMessage handles DELETE /api/users/{id}/messages/{messageId}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	messageID, err := parseIDParam(r, "messageId")
	if err != nil {
		respondError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	if err := h.messageService.Delete(r.Context(), userID, messageID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
