package services

import (
	"context"
	"strings"
	"testing"

	"matchup-backend/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhotoFixture(t *testing.T) (*PhotoService, *fakeUserRepo, *fakePhotoRepo, *fakeImageStore) {
	t.Helper()
	userRepo := newFakeUserRepo()
	photoRepo := newFakePhotoRepo()
	store := newFakeImageStore()
	svc := NewPhotoService(photoRepo, userRepo, store, NewWSHub())
	return svc, userRepo, photoRepo, store
}

func TestAddPhotoFirstBecomesMain(t *testing.T) {
	svc, userRepo, photoRepo, store := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")

	photo, err := svc.AddPhoto(context.Background(), user.ID, "portrait.jpg", strings.NewReader("jpegdata"), "image/jpeg", "")
	require.NoError(t, err)

	assert.True(t, photo.IsMain)
	assert.NotEmpty(t, photo.URL)
	require.NotNil(t, photo.ExternalID)
	assert.Contains(t, store.objects, *photo.ExternalID)
	assert.Equal(t, 1, photoRepo.mainCount(user.ID))
}

func TestAddPhotoSecondIsNotMain(t *testing.T) {
	svc, userRepo, photoRepo, _ := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")

	first, err := svc.AddPhoto(context.Background(), user.ID, "a.jpg", strings.NewReader("a"), "image/jpeg", "")
	require.NoError(t, err)
	second, err := svc.AddPhoto(context.Background(), user.ID, "b.jpg", strings.NewReader("b"), "image/jpeg", "")
	require.NoError(t, err)

	assert.True(t, first.IsMain)
	assert.False(t, second.IsMain)
	assert.Equal(t, 1, photoRepo.mainCount(user.ID))
}

func TestAddPhotoUnknownUser(t *testing.T) {
	svc, _, _, _ := newPhotoFixture(t)

	_, err := svc.AddPhoto(context.Background(), 42, "a.jpg", strings.NewReader("a"), "image/jpeg", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAddPhotoUploadFailure(t *testing.T) {
	svc, userRepo, photoRepo, store := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	store.failUpload = true

	_, err := svc.AddPhoto(context.Background(), user.ID, "a.jpg", strings.NewReader("a"), "image/jpeg", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	assert.Empty(t, photoRepo.photos)
}

func TestAddPhotoPersistFailureCleansUpObject(t *testing.T) {
	svc, userRepo, photoRepo, store := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	photoRepo.failCreate = true

	_, err := svc.AddPhoto(context.Background(), user.ID, "a.jpg", strings.NewReader("a"), "image/jpeg", "")
	require.Error(t, err)

	// The uploaded object must not be left orphaned on the host.
	assert.Empty(t, store.objects)
	assert.Len(t, store.deleted, 1)
}

func TestSetMainPhotoPromotesAndDemotes(t *testing.T) {
	svc, userRepo, photoRepo, _ := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	p1 := photoRepo.addPhoto(user.ID, "p1", true, nil)
	p2 := photoRepo.addPhoto(user.ID, "p2", false, nil)

	err := svc.SetMainPhoto(context.Background(), user.ID, p2.ID)
	require.NoError(t, err)

	assert.False(t, photoRepo.photos[p1.ID].IsMain)
	assert.True(t, photoRepo.photos[p2.ID].IsMain)
	assert.Equal(t, 1, photoRepo.mainCount(user.ID))
}

func TestSetMainPhotoAlreadyMainRejected(t *testing.T) {
	svc, userRepo, photoRepo, _ := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	p1 := photoRepo.addPhoto(user.ID, "p1", true, nil)
	photoRepo.addPhoto(user.ID, "p2", false, nil)

	err := svc.SetMainPhoto(context.Background(), user.ID, p1.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))

	// No state change.
	assert.True(t, photoRepo.photos[p1.ID].IsMain)
	assert.Equal(t, 1, photoRepo.mainCount(user.ID))
}

func TestSetMainPhotoWrongOwnerRejected(t *testing.T) {
	svc, userRepo, photoRepo, _ := newPhotoFixture(t)
	lisa := userRepo.addUser("lisa", "female")
	todd := userRepo.addUser("todd", "male")
	photo := photoRepo.addPhoto(todd.ID, "p1", true, nil)

	err := svc.SetMainPhoto(context.Background(), lisa.ID, photo.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.True(t, photoRepo.photos[photo.ID].IsMain)
}

func TestSetMainPhotoNotFound(t *testing.T) {
	svc, userRepo, _, _ := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")

	err := svc.SetMainPhoto(context.Background(), user.ID, 99)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteMainPhotoRejected(t *testing.T) {
	svc, userRepo, photoRepo, _ := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	photo := photoRepo.addPhoto(user.ID, "p1", true, nil)

	err := svc.DeletePhoto(context.Background(), user.ID, photo.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
	assert.Contains(t, photoRepo.photos, photo.ID)
}

func TestDeletePhotoExternalFailureKeepsRecord(t *testing.T) {
	svc, userRepo, photoRepo, store := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	externalID := "photos/1/abc.jpg"
	photo := photoRepo.addPhoto(user.ID, "p1", false, &externalID)
	store.failDelete = true

	err := svc.DeletePhoto(context.Background(), user.ID, photo.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	assert.Contains(t, photoRepo.photos, photo.ID)
}

func TestDeletePhotoExternal(t *testing.T) {
	svc, userRepo, photoRepo, store := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	externalID := "photos/1/abc.jpg"
	photo := photoRepo.addPhoto(user.ID, "p1", false, &externalID)

	err := svc.DeletePhoto(context.Background(), user.ID, photo.ID)
	require.NoError(t, err)
	assert.NotContains(t, photoRepo.photos, photo.ID)
	assert.Equal(t, []string{externalID}, store.deleted)
}

func TestDeletePhotoLocalSkipsHost(t *testing.T) {
	svc, userRepo, photoRepo, store := newPhotoFixture(t)
	user := userRepo.addUser("lisa", "female")
	photo := photoRepo.addPhoto(user.ID, "p1", false, nil)

	err := svc.DeletePhoto(context.Background(), user.ID, photo.ID)
	require.NoError(t, err)
	assert.NotContains(t, photoRepo.photos, photo.ID)
	assert.Empty(t, store.deleted)
}

func TestDeletePhotoWrongOwnerRejected(t *testing.T) {
	svc, userRepo, photoRepo, _ := newPhotoFixture(t)
	lisa := userRepo.addUser("lisa", "female")
	todd := userRepo.addUser("todd", "male")
	photo := photoRepo.addPhoto(todd.ID, "p1", false, nil)

	err := svc.DeletePhoto(context.Background(), lisa.ID, photo.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Contains(t, photoRepo.photos, photo.ID)
}
