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

// LikeService handles like-relationship business logic
type LikeService struct {
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
	hub      *WSHub
	notifier Notifier
}

// NewLikeService creates a new like service
func NewLikeService(
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	hub *WSHub,
	notifier Notifier,
) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		userRepo: userRepo,
		hub:      hub,
		notifier: notifier,
	}
}

// Like records liker's interest in likee. A like of self, or a second
// like for the same ordered pair, is rejected. A like from A to B does
// not create one from B to A.
func (s *LikeService) Like(ctx context.Context, likerID, likeeID int64) error {
	if likerID == likeeID {
		return apperrors.Invalid("you cannot like yourself")
	}

	exists, err := s.likeRepo.Exists(ctx, likerID, likeeID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflict("you already like this user")
	}

	likee, err := s.userRepo.GetByID(ctx, likeeID)
	if err != nil {
		return err
	}

	like := &models.Like{
		LikerID:   likerID,
		LikeeID:   likeeID,
		CreatedAt: time.Now(),
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return err
	}

	s.notifyLikee(ctx, likerID, likee)
	return nil
}

// ListLikers returns one page of the users who like the given user
func (s *LikeService) ListLikers(ctx context.Context, userID int64, page, pageSize int) ([]*models.User, int, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.likeRepo.ListLikers(ctx, userID, pageSize, (page-1)*pageSize)
}

// ListLikees returns one page of the users the given user likes
func (s *LikeService) ListLikees(ctx context.Context, userID int64, page, pageSize int) ([]*models.User, int, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.likeRepo.ListLikees(ctx, userID, pageSize, (page-1)*pageSize)
}

// notifyLikee delivers the like event over the hub when the likee is
// connected, falling back to a push notification. Delivery is best
// effort and never affects the caller's response.
func (s *LikeService) notifyLikee(ctx context.Context, likerID int64, likee *models.User) {
	liker, err := s.userRepo.GetByID(ctx, likerID)
	if err != nil {
		log.Error().Err(err).Int64("liker_id", likerID).Msg("Failed to load liker for notification")
		return
	}

	if s.hub != nil && s.hub.IsOnline(likee.ID) {
		event := Event{
			Type:   EventLikeReceived,
			UserID: liker.ID,
			Data:   map[string]interface{}{"known_as": liker.KnownAs},
		}
		if err := s.hub.SendToUser(likee.ID, event); err == nil {
			return
		}
	}

	if s.notifier != nil && likee.DeviceToken != nil {
		alert := fmt.Sprintf("%s likes you", liker.KnownAs)
		if err := s.notifier.Push(*likee.DeviceToken, alert); err != nil {
			log.Error().Err(err).Int64("likee_id", likee.ID).Msg("Failed to push like notification")
		}
	}
}
