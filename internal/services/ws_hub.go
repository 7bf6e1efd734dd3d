package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types pushed to connected clients.
const (
	EventMainPhotoChanged = "main_photo_changed"
	EventMessageReceived  = "message_received"
	EventLikeReceived     = "like_received"
)

// Event is a server-to-client notification
type Event struct {
	Type     string      `json:"type"`
	UserID   int64       `json:"user_id,omitempty"`
	PhotoURL string      `json:"photo_url,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections, one per user. It is the
// change-notification channel for main-photo updates and incoming
// messages, replacing client-side polling.
type WSHub struct {
	mu          sync.RWMutex
	connections map[int64]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[int64]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, exists := h.connections[userID]; exists {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Int64("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Int64("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends an event to a specific user
func (h *WSHub) SendToUser(userID int64, event Event) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// NotifyMainPhotoChanged broadcasts the user's new main photo URL to
// their own connection, so every open view updates without polling
func (h *WSHub) NotifyMainPhotoChanged(userID int64, photoURL string) {
	if h == nil {
		return
	}
	event := Event{
		Type:     EventMainPhotoChanged,
		UserID:   userID,
		PhotoURL: photoURL,
	}
	if err := h.SendToUser(userID, event); err != nil {
		log.Debug().Int64("user_id", userID).Msg("No live connection for main photo event")
	}
}
