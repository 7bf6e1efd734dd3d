package repository

import (
	"context"
	"fmt"

	"matchup-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles database operations for likes
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Exists(ctx context.Context, likerID, likeeID int64) (bool, error)
	ListLikers(ctx context.Context, userID int64, limit, offset int) ([]*models.User, int, error)
	ListLikees(ctx context.Context, userID int64, limit, offset int) ([]*models.User, int, error)
}

type likeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like for the ordered (liker, likee) pair
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (liker_id, likee_id, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.Exec(ctx, query, like.LikerID, like.LikeeID, like.CreatedAt); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Exists checks whether the ordered (liker, likee) pair is already present
func (r *likeRepository) Exists(ctx context.Context, likerID, likeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND likee_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, likerID, likeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// ListLikers retrieves the users who like the given user
func (r *likeRepository) ListLikers(ctx context.Context, userID int64, limit, offset int) ([]*models.User, int, error) {
	return r.listRelated(ctx, userID, "liker_id", "likee_id", limit, offset)
}

// ListLikees retrieves the users the given user likes
func (r *likeRepository) ListLikees(ctx context.Context, userID int64, limit, offset int) ([]*models.User, int, error) {
	return r.listRelated(ctx, userID, "likee_id", "liker_id", limit, offset)
}

func (r *likeRepository) listRelated(ctx context.Context, userID int64, selectCol, whereCol string, limit, offset int) ([]*models.User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM likes WHERE %s = $1`, whereCol)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count likes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users u
		JOIN likes l ON u.id = l.%s
		WHERE l.%s = $1
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`, prefixedUserColumns("u"), selectCol, whereCol)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating likes: %w", err)
	}
	return users, total, nil
}

func prefixedUserColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.username, %[1]s.password_hash, %[1]s.gender,
		%[1]s.date_of_birth, %[1]s.known_as, %[1]s.city, %[1]s.country,
		%[1]s.introduction, %[1]s.looking_for, %[1]s.interests, %[1]s.device_token,
		%[1]s.created_at, %[1]s.last_active`, alias)
}
