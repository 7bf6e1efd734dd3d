package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"
	"matchup-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 7

// UserService handles registration, authentication and profile logic
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest carries the fields needed to create a profile
type RegisterRequest struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	KnownAs     string    `json:"known_as"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
}

// UpdateRequest carries the mutable profile fields for a full update
type UpdateRequest struct {
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Introduction string    `json:"introduction"`
	LookingFor   string    `json:"looking_for"`
	Interests    string    `json:"interests"`
}

// ListParams narrows the member listing
type ListParams struct {
	Gender   string
	MinAge   int
	MaxAge   int
	Page     int
	PageSize int
}

// Register creates a new user with a hashed password
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, apperrors.Invalid("username and password are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Invalid("password must be at least 8 characters long")
	}

	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		KnownAs:      req.KnownAs,
		City:         req.City,
		Country:      req.Country,
		CreatedAt:    now,
		LastActive:   now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, "", apperrors.Forbidden("invalid username or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", apperrors.Forbidden("invalid username or password")
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateJWT generates a JWT token carrying the user's numeric ID
func (s *UserService) GenerateJWT(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID claim
func (s *UserService) ValidateJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	// JSON numbers decode as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in token")
	}
	return int64(userID), nil
}

// GetUser retrieves a user's detailed profile
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers retrieves one page of members, excluding the caller.
// When no gender filter is given it defaults to the opposite of the
// caller's gender.
func (s *UserService) ListUsers(ctx context.Context, callerID int64, params ListParams) ([]*models.User, int, error) {
	if params.Gender == "" {
		caller, err := s.userRepo.GetByID(ctx, callerID)
		if err != nil {
			return nil, 0, err
		}
		if caller.Gender == "male" {
			params.Gender = "female"
		} else {
			params.Gender = "male"
		}
	}

	page, pageSize := clampPage(params.Page, params.PageSize)
	filter := repository.UserFilter{
		Gender:    params.Gender,
		MinAge:    params.MinAge,
		MaxAge:    params.MaxAge,
		ExcludeID: callerID,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	return s.userRepo.List(ctx, filter)
}

// UpdateUser applies a full profile update
func (s *UserService) UpdateUser(ctx context.Context, id int64, req UpdateRequest) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.Gender = req.Gender
	user.DateOfBirth = req.DateOfBirth
	user.KnownAs = req.KnownAs
	user.City = req.City
	user.Country = req.Country
	user.Introduction = req.Introduction
	user.LookingFor = req.LookingFor
	user.Interests = req.Interests

	return s.userRepo.Update(ctx, user)
}

// RegisterDeviceToken stores the push token for a user
func (s *UserService) RegisterDeviceToken(ctx context.Context, id int64, deviceToken string) error {
	var token *string
	if deviceToken != "" {
		token = &deviceToken
	}
	return s.userRepo.UpdateDeviceToken(ctx, id, token)
}

// TouchLastActive stamps a user's last activity time
func (s *UserService) TouchLastActive(ctx context.Context, id int64) error {
	return s.userRepo.UpdateLastActive(ctx, id)
}

// clampPage normalizes page parameters to sane bounds
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 50 {
		pageSize = 50
	}
	return page, pageSize
}
