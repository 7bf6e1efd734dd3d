package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"matchup-backend/internal/apperrors"
	"matchup-backend/internal/models"
	"matchup-backend/internal/repository"
)

// In-memory fakes for the repository and storage interfaces.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) addUser(username, gender string) *models.User {
	r.nextID++
	user := &models.User{
		ID:          r.nextID,
		Username:    username,
		Gender:      gender,
		KnownAs:     username,
		DateOfBirth: time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now(),
		LastActive:  time.Now(),
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]*models.User, int, error) {
	var matched []*models.User
	for _, user := range r.users {
		if user.ID == filter.ExcludeID {
			continue
		}
		if filter.Gender != "" && user.Gender != filter.Gender {
			continue
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if filter.Offset < len(matched) {
		matched = matched[filter.Offset:]
	} else {
		matched = nil
	}
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NotFound("user not found")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastActive(_ context.Context, id int64) error {
	if user, ok := r.users[id]; ok {
		user.LastActive = time.Now()
	}
	return nil
}

func (r *fakeUserRepo) UpdateDeviceToken(_ context.Context, id int64, deviceToken *string) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	user.DeviceToken = deviceToken
	return nil
}

type fakePhotoRepo struct {
	photos     map[int64]*models.Photo
	nextID     int64
	failCreate bool
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[int64]*models.Photo)}
}

func (r *fakePhotoRepo) addPhoto(userID int64, url string, isMain bool, externalID *string) *models.Photo {
	r.nextID++
	photo := &models.Photo{
		ID:         r.nextID,
		UserID:     userID,
		URL:        url,
		ExternalID: externalID,
		IsMain:     isMain,
		DateAdded:  time.Now(),
	}
	r.photos[photo.ID] = photo
	return photo
}

func (r *fakePhotoRepo) Create(_ context.Context, photo *models.Photo) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.nextID++
	photo.ID = r.nextID
	r.photos[photo.ID] = photo
	return nil
}

func (r *fakePhotoRepo) GetByID(_ context.Context, id int64) (*models.Photo, error) {
	photo, ok := r.photos[id]
	if !ok {
		return nil, apperrors.NotFound("photo not found")
	}
	copied := *photo
	return &copied, nil
}

func (r *fakePhotoRepo) ListForUser(_ context.Context, userID int64) ([]*models.Photo, error) {
	var photos []*models.Photo
	for _, photo := range r.photos {
		if photo.UserID == userID {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (r *fakePhotoRepo) CountForUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, photo := range r.photos {
		if photo.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakePhotoRepo) SetMain(_ context.Context, userID, photoID int64) error {
	target, ok := r.photos[photoID]
	if !ok || target.UserID != userID {
		return apperrors.NotFound("photo not found")
	}
	for _, photo := range r.photos {
		if photo.UserID == userID {
			photo.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (r *fakePhotoRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.photos[id]; !ok {
		return apperrors.NotFound("photo not found")
	}
	delete(r.photos, id)
	return nil
}

func (r *fakePhotoRepo) mainCount(userID int64) int {
	count := 0
	for _, photo := range r.photos {
		if photo.UserID == userID && photo.IsMain {
			count++
		}
	}
	return count
}

type likeKey struct {
	liker int64
	likee int64
}

type fakeLikeRepo struct {
	likes    map[likeKey]*models.Like
	userRepo *fakeUserRepo
}

func newFakeLikeRepo(userRepo *fakeUserRepo) *fakeLikeRepo {
	return &fakeLikeRepo{
		likes:    make(map[likeKey]*models.Like),
		userRepo: userRepo,
	}
}

func (r *fakeLikeRepo) Create(_ context.Context, like *models.Like) error {
	key := likeKey{liker: like.LikerID, likee: like.LikeeID}
	if _, exists := r.likes[key]; exists {
		return errors.New("duplicate like")
	}
	r.likes[key] = like
	return nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, likerID, likeeID int64) (bool, error) {
	_, exists := r.likes[likeKey{liker: likerID, likee: likeeID}]
	return exists, nil
}

func (r *fakeLikeRepo) ListLikers(_ context.Context, userID int64, limit, offset int) ([]*models.User, int, error) {
	var users []*models.User
	for key := range r.likes {
		if key.likee == userID {
			users = append(users, r.userRepo.users[key.liker])
		}
	}
	return users, len(users), nil
}

func (r *fakeLikeRepo) ListLikees(_ context.Context, userID int64, limit, offset int) ([]*models.User, int, error) {
	var users []*models.User
	for key := range r.likes {
		if key.liker == userID {
			users = append(users, r.userRepo.users[key.likee])
		}
	}
	return users, len(users), nil
}

type fakeMessageRepo struct {
	messages map[int64]*models.Message
	nextID   int64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[int64]*models.Message)}
}

func (r *fakeMessageRepo) addMessage(senderID, recipientID int64, content string, isRead bool) *models.Message {
	r.nextID++
	m := &models.Message{
		ID:          r.nextID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		IsRead:      isRead,
		DateSent:    time.Now(),
	}
	r.messages[m.ID] = m
	return m
}

func (r *fakeMessageRepo) Create(_ context.Context, message *models.Message) error {
	r.nextID++
	message.ID = r.nextID
	r.messages[message.ID] = message
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id int64) (*models.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, apperrors.NotFound("message not found")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) ListForUser(_ context.Context, userID int64, container string, limit, offset int) ([]*models.Message, int, error) {
	var matched []*models.Message
	for _, m := range r.messages {
		switch container {
		case repository.ContainerInbox:
			if m.RecipientID == userID && !m.RecipientDeleted {
				matched = append(matched, m)
			}
		case repository.ContainerOutbox:
			if m.SenderID == userID && !m.SenderDeleted {
				matched = append(matched, m)
			}
		default:
			if m.RecipientID == userID && !m.RecipientDeleted && !m.IsRead {
				matched = append(matched, m)
			}
		}
	}
	return matched, len(matched), nil
}

func (r *fakeMessageRepo) Thread(_ context.Context, userID, otherID int64) ([]*models.Message, error) {
	var matched []*models.Message
	for _, m := range r.messages {
		incoming := m.RecipientID == userID && m.SenderID == otherID && !m.RecipientDeleted
		outgoing := m.SenderID == userID && m.RecipientID == otherID && !m.SenderDeleted
		if incoming || outgoing {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DateSent.Before(matched[j].DateSent) })
	return matched, nil
}

func (r *fakeMessageRepo) MarkThreadRead(_ context.Context, readerID, senderID int64) error {
	now := time.Now()
	for _, m := range r.messages {
		if m.RecipientID == readerID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			m.DateRead = &now
		}
	}
	return nil
}

func (r *fakeMessageRepo) MarkDeleted(_ context.Context, id int64, bySender bool) error {
	m, ok := r.messages[id]
	if !ok {
		return apperrors.NotFound("message not found")
	}
	if bySender {
		m.SenderDeleted = true
	} else {
		m.RecipientDeleted = true
	}
	return nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id int64) error {
	delete(r.messages, id)
	return nil
}

// fakeImageStore records uploads and deletions instead of calling S3
type fakeImageStore struct {
	objects    map[string][]byte
	failUpload bool
	failDelete bool
	deleted    []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string][]byte)}
}

func (s *fakeImageStore) Upload(_ context.Context, key string, body io.Reader, _ string) (string, string, error) {
	if s.failUpload {
		return "", "", errors.New("upload rejected")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", "", err
	}
	s.objects[key] = buf.Bytes()
	return fmt.Sprintf("https://images.example.com/%s", key), key, nil
}

func (s *fakeImageStore) Delete(_ context.Context, externalID string) error {
	if s.failDelete {
		return errors.New("delete rejected")
	}
	delete(s.objects, externalID)
	s.deleted = append(s.deleted, externalID)
	return nil
}

// fakeNotifier records push notifications
type fakeNotifier struct {
	pushes []string
}

func (n *fakeNotifier) Push(deviceToken, alert string) error {
	n.pushes = append(n.pushes, fmt.Sprintf("%s: %s", deviceToken, alert))
	return nil
}
