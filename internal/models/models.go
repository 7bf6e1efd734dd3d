package models

import "time"

// User represents a member profile
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Introduction string    `json:"introduction,omitempty"`
	LookingFor   string    `json:"looking_for,omitempty"`
	Interests    string    `json:"interests,omitempty"`
	DeviceToken  *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
	Photos       []*Photo  `json:"photos,omitempty"`
}

// Age returns the user's age in full years
func (u *User) Age() int {
	now := time.Now()
	age := now.Year() - u.DateOfBirth.Year()
	if now.YearDay() < u.DateOfBirth.YearDay() {
		age--
	}
	return age
}

// MainPhotoURL returns the URL of the user's main photo, if any
func (u *User) MainPhotoURL() string {
	for _, p := range u.Photos {
		if p.IsMain {
			return p.URL
		}
	}
	return ""
}

// Photo represents a profile photo hosted on the image store
type Photo struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	URL         string    `json:"url"`
	ExternalID  *string   `json:"external_id,omitempty"` // nil means locally stored
	IsMain      bool      `json:"is_main"`
	Description string    `json:"description,omitempty"`
	DateAdded   time.Time `json:"date_added"`
}

// Like represents a one-directional interest from liker to likee
type Like struct {
	LikerID   int64     `json:"liker_id"`
	LikeeID   int64     `json:"likee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a message between two users.
// Deletion is per side; the row is removed once both sides have deleted it.
type Message struct {
	ID               int64      `json:"id"`
	SenderID         int64      `json:"sender_id"`
	RecipientID      int64      `json:"recipient_id"`
	Content          string     `json:"content"`
	IsRead           bool       `json:"is_read"`
	DateRead         *time.Time `json:"date_read,omitempty"`
	DateSent         time.Time  `json:"date_sent"`
	SenderDeleted    bool       `json:"-"`
	RecipientDeleted bool       `json:"-"`
}
