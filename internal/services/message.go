package services

import (
	"context"
	"fmt"
	"time"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"
	"matchup-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// MessageService handles messaging business logic
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	hub         *WSHub
	notifier    Notifier
}

// NewMessageService creates a new message service
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	hub *WSHub,
	notifier Notifier,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
		notifier:    notifier,
	}
}

// ListMessages retrieves one page of the user's messages for the given
// container (Unread, Inbox or Outbox), with the total count
func (s *MessageService) ListMessages(ctx context.Context, userID int64, container string, page, pageSize int) ([]*models.Message, int, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.messageRepo.ListForUser(ctx, userID, container, pageSize, (page-1)*pageSize)
}

// Thread retrieves the conversation between two users and marks the
// unread incoming messages as read
func (s *MessageService) Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	messages, err := s.messageRepo.Thread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.MarkThreadRead(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return messages, nil
}

// Send creates a message from sender to recipient
func (s *MessageService) Send(ctx context.Context, senderID, recipientID int64, content string) (*models.Message, error) {
	if content == "" {
		return nil, apperrors.Invalid("message content must not be empty")
	}
	if senderID == recipientID {
		return nil, apperrors.Invalid("you cannot message yourself")
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		DateSent:    time.Now(),
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.notifyRecipient(ctx, message, recipient)
	return message, nil
}

// Delete removes a message from the caller's view. The row itself is
// only purged once both sides have deleted it.
func (s *MessageService) Delete(ctx context.Context, callerID, messageID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != callerID && message.RecipientID != callerID {
		return apperrors.Forbidden("you cannot delete this message")
	}

	bySender := message.SenderID == callerID
	if err := s.messageRepo.MarkDeleted(ctx, messageID, bySender); err != nil {
		return err
	}

	otherSideDeleted := (bySender && message.RecipientDeleted) || (!bySender && message.SenderDeleted)
	if otherSideDeleted {
		return s.messageRepo.Delete(ctx, messageID)
	}
	return nil
}

// notifyRecipient delivers the message event over the hub when the
// recipient is connected, falling back to a push notification.
// Delivery is best effort and never affects the caller's response.
func (s *MessageService) notifyRecipient(ctx context.Context, message *models.Message, recipient *models.User) {
	if s.hub != nil && s.hub.IsOnline(recipient.ID) {
		event := Event{
			Type:   EventMessageReceived,
			UserID: message.SenderID,
			Data:   message,
		}
		if err := s.hub.SendToUser(recipient.ID, event); err == nil {
			return
		}
	}

	if s.notifier != nil && recipient.DeviceToken != nil {
		sender, err := s.userRepo.GetByID(ctx, message.SenderID)
		if err != nil {
			log.Error().Err(err).Int64("sender_id", message.SenderID).Msg("Failed to load sender for notification")
			return
		}
		alert := fmt.Sprintf("New message from %s", sender.KnownAs)
		if err := s.notifier.Push(*recipient.DeviceToken, alert); err != nil {
			log.Error().Err(err).Int64("recipient_id", recipient.ID).Msg("Failed to push message notification")
		}
	}
}
