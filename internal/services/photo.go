package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"
	"matchup-backend/internal/repository"
	"matchup-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PhotoService handles photo-related business logic
type PhotoService struct {
	photoRepo repository.PhotoRepository
	userRepo  repository.UserRepository
	store     storage.ImageStore
	hub       *WSHub
}

// NewPhotoService creates a new photo service
func NewPhotoService(
	photoRepo repository.PhotoRepository,
	userRepo repository.UserRepository,
	store storage.ImageStore,
	hub *WSHub,
) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		userRepo:  userRepo,
		store:     store,
		hub:       hub,
	}
}

// AddPhoto uploads the image to the external store and creates the
// photo record. The user's first photo becomes the main photo.
func (s *PhotoService) AddPhoto(ctx context.Context, userID int64, filename string, body io.Reader, contentType, description string) (*models.Photo, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("photos/%d/%s%s", userID, uuid.New().String(), filepath.Ext(filename))
	url, externalID, err := s.store.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, apperrors.Upstream("was not able to add the photo", err)
	}

	count, err := s.photoRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		UserID:      userID,
		URL:         url,
		ExternalID:  &externalID,
		IsMain:      count == 0,
		Description: description,
		DateAdded:   time.Now(),
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Don't leave an orphaned asset on the host.
		if delErr := s.store.Delete(ctx, externalID); delErr != nil {
			log.Error().Err(delErr).Str("external_id", externalID).
				Msg("Failed to clean up uploaded object after persist failure")
		}
		return nil, apperrors.Internal("failed to save photo", err)
	}

	if photo.IsMain {
		s.hub.NotifyMainPhotoChanged(userID, photo.URL)
	}
	return photo, nil
}

// GetPhoto retrieves a photo owned by the given user
func (s *PhotoService) GetPhoto(ctx context.Context, userID, photoID int64) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.UserID != userID {
		return nil, apperrors.NotFound("photo not found")
	}
	return photo, nil
}

// SetMainPhoto promotes a photo to main, demoting the previous main.
// Setting the current main photo again is rejected.
func (s *PhotoService) SetMainPhoto(ctx context.Context, userID, photoID int64) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return apperrors.Forbidden("photo does not belong to this user")
	}
	if photo.IsMain {
		return apperrors.Invalid("this is already the main photo")
	}

	if err := s.photoRepo.SetMain(ctx, userID, photoID); err != nil {
		return err
	}

	s.hub.NotifyMainPhotoChanged(userID, photo.URL)
	return nil
}

// DeletePhoto removes a photo. The main photo cannot be deleted, and an
// externally hosted photo is only removed locally after the host
// confirms deletion.
func (s *PhotoService) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return apperrors.Forbidden("photo does not belong to this user")
	}
	if photo.IsMain {
		return apperrors.Invalid("you cannot delete your main photo")
	}

	if photo.ExternalID != nil {
		if err := s.store.Delete(ctx, *photo.ExternalID); err != nil {
			return apperrors.Upstream("failed to delete the photo from the image host", err)
		}
	}
	return s.photoRepo.Delete(ctx, photoID)
}
