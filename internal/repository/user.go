package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserFilter narrows the paginated member listing
type UserFilter struct {
	Gender    string
	MinAge    int
	MaxAge    int
	ExcludeID int64
	Limit     int
	Offset    int
}

// UserRepository handles database operations for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastActive(ctx context.Context, id int64) error
	UpdateDeviceToken(ctx context.Context, id int64, deviceToken *string) error
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password_hash, gender, date_of_birth, known_as,
		city, country, introduction, looking_for, interests, device_token,
		created_at, last_active`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Gender,
		&user.DateOfBirth, &user.KnownAs, &user.City, &user.Country,
		&user.Introduction, &user.LookingFor, &user.Interests,
		&user.DeviceToken, &user.CreatedAt, &user.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, gender, date_of_birth, known_as,
			city, country, introduction, looking_for, interests, created_at, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Gender, user.DateOfBirth, user.KnownAs,
		user.City, user.Country, user.Introduction, user.LookingFor, user.Interests,
		user.CreatedAt, user.LastActive,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID, including the photo collection
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := r.loadPhotos(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	if err := r.loadPhotos(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UsernameExists checks if a username is already taken
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// List retrieves users matching the filter, with the total count
func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]*models.User, int, error) {
	conditions := []string{"id <> $1"}
	args := []interface{}{filter.ExcludeID}

	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)))
	}
	if filter.MaxAge > 0 {
		args = append(args, time.Now().AddDate(-filter.MaxAge-1, 0, 0))
		conditions = append(conditions, fmt.Sprintf("date_of_birth >= $%d", len(args)))
	}
	if filter.MinAge > 0 {
		args = append(args, time.Now().AddDate(-filter.MinAge, 0, 0))
		conditions = append(conditions, fmt.Sprintf("date_of_birth <= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM users WHERE ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY last_active DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
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
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	if err := r.loadMainPhotos(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update persists the mutable profile fields
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET gender = $1, date_of_birth = $2, known_as = $3, city = $4, country = $5,
			introduction = $6, looking_for = $7, interests = $8
		WHERE id = $9
	`
	result, err := r.db.Exec(ctx, query,
		user.Gender, user.DateOfBirth, user.KnownAs, user.City, user.Country,
		user.Introduction, user.LookingFor, user.Interests, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// UpdateLastActive stamps the user's last activity time
func (r *userRepository) UpdateLastActive(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_active = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

// UpdateDeviceToken updates the push device token for a user
func (r *userRepository) UpdateDeviceToken(ctx context.Context, id int64, deviceToken *string) error {
	query := `UPDATE users SET device_token = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, deviceToken, id); err != nil {
		return fmt.Errorf("failed to update device token: %w", err)
	}
	return nil
}

func (r *userRepository) loadPhotos(ctx context.Context, user *models.User) error {
	query := `
		SELECT id, user_id, url, external_id, is_main, description, date_added
		FROM photos
		WHERE user_id = $1
		ORDER BY date_added
	`
	rows, err := r.db.Query(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.URL, &photo.ExternalID,
			&photo.IsMain, &photo.Description, &photo.DateAdded,
		)
		if err != nil {
			return fmt.Errorf("failed to scan photo: %w", err)
		}
		user.Photos = append(user.Photos, &photo)
	}
	return rows.Err()
}

// loadMainPhotos attaches only the main photo to each listed user
func (r *userRepository) loadMainPhotos(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, len(users))
	byID := make(map[int64]*models.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
	}

	query := `
		SELECT id, user_id, url, external_id, is_main, description, date_added
		FROM photos
		WHERE is_main AND user_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load main photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.URL, &photo.ExternalID,
			&photo.IsMain, &photo.Description, &photo.DateAdded,
		)
		if err != nil {
			return fmt.Errorf("failed to scan photo: %w", err)
		}
		if user, ok := byID[photo.UserID]; ok {
			user.Photos = append(user.Photos, &photo)
		}
	}
	return rows.Err()
}
