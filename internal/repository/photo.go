package repository

import (
	"context"
	"errors"
	"fmt"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Photo, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
	SetMain(ctx context.Context, userID, photoID int64) error
	Delete(ctx context.Context, id int64) error
}

type photoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) PhotoRepository {
	return &photoRepository{db: db}
}

// Create creates a new photo
func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (user_id, url, external_id, is_main, description, date_added)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		photo.UserID, photo.URL, photo.ExternalID, photo.IsMain,
		photo.Description, photo.DateAdded,
	).Scan(&photo.ID)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *photoRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `
		SELECT id, user_id, url, external_id, is_main, description, date_added
		FROM photos
		WHERE id = $1
	`
	var photo models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.UserID, &photo.URL, &photo.ExternalID,
		&photo.IsMain, &photo.Description, &photo.DateAdded,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("photo not found")
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// ListForUser retrieves all photos belonging to a user
func (r *photoRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Photo, error) {
	query := `
		SELECT id, user_id, url, external_id, is_main, description, date_added
		FROM photos
		WHERE user_id = $1
		ORDER BY date_added
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.URL, &photo.ExternalID,
			&photo.IsMain, &photo.Description, &photo.DateAdded,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

// CountForUser counts the photos belonging to a user
func (r *photoRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM photos WHERE user_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

// SetMain demotes the user's current main photo and promotes the target
// in one transaction, so concurrent calls can never leave zero or two
// main photos for the same user.
func (r *photoRepository) SetMain(ctx context.Context, userID, photoID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = FALSE WHERE user_id = $1 AND is_main`, userID); err != nil {
		return fmt.Errorf("failed to demote main photo: %w", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = TRUE WHERE id = $1 AND user_id = $2`, photoID, userID)
	if err != nil {
		return fmt.Errorf("failed to promote photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("photo not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit main photo change: %w", err)
	}
	return nil
}

// Delete removes a photo row
func (r *photoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("photo not found")
	}
	return nil
}
