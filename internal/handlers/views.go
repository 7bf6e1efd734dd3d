package handlers

import (
	"time"

	"matchup-backend/internal/models"
)

// UserView is the profile representation returned to clients
type UserView struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	KnownAs      string          `json:"known_as"`
	Age          int             `json:"age"`
	Gender       string          `json:"gender"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	Introduction string          `json:"introduction,omitempty"`
	LookingFor   string          `json:"looking_for,omitempty"`
	Interests    string          `json:"interests,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActive   time.Time       `json:"last_active"`
	PhotoURL     string          `json:"photo_url,omitempty"`
	Photos       []*models.Photo `json:"photos,omitempty"`
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:           u.ID,
		Username:     u.Username,
		KnownAs:      u.KnownAs,
		Age:          u.Age(),
		Gender:       u.Gender,
		City:         u.City,
		Country:      u.Country,
		Introduction: u.Introduction,
		LookingFor:   u.LookingFor,
		Interests:    u.Interests,
		CreatedAt:    u.CreatedAt,
		LastActive:   u.LastActive,
		PhotoURL:     u.MainPhotoURL(),
		Photos:       u.Photos,
	}
}

// newUserListView strips the photo collection down to the main photo URL
func newUserListView(users []*models.User) []UserView {
	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = newUserView(u)
		views[i].Photos = nil
	}
	return views
}
