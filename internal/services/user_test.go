package services

import (
	"context"
	"testing"
	"time"

	"matchup-backend/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	return NewUserService(userRepo, "test-secret"), userRepo
}

func validRegister(username, gender string) RegisterRequest {
	return RegisterRequest{
		Username:    username,
		Password:    "correct horse",
		Gender:      gender,
		DateOfBirth: time.Date(1994, 3, 12, 0, 0, 0, 0, time.UTC),
		KnownAs:     username,
		City:        "Lima",
		Country:     "Peru",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newUserFixture(t)

	user, err := svc.Register(context.Background(), validRegister("Lisa", "female"))
	require.NoError(t, err)
	assert.Equal(t, "lisa", user.Username) // normalized
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.PasswordHash)

	loggedIn, token, err := svc.Login(context.Background(), "Lisa", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	// Token carries the numeric user ID claim.
	claimedID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claimedID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), validRegister("lisa", "female"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegister("lisa", "female"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newUserFixture(t)

	req := validRegister("lisa", "female")
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newUserFixture(t)
	_, err := svc.Register(context.Background(), validRegister("lisa", "female"))
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "lisa", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	require.Error(t, err)
	// Same failure for unknown user and wrong password.
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsForeignSecret(t *testing.T) {
	svc, _ := newUserFixture(t)
	other := NewUserService(newFakeUserRepo(), "different-secret")

	token, err := other.GenerateJWT(7)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(token)
	assert.Error(t, err)
}

func TestListUsersDefaultsToOppositeGender(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	lisa := userRepo.addUser("lisa", "female")
	userRepo.addUser("anna", "female")
	todd := userRepo.addUser("todd", "male")

	users, total, err := svc.ListUsers(context.Background(), lisa.ID, ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, todd.ID, users[0].ID)
}

func TestListUsersExplicitGenderAndExcludesCaller(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	lisa := userRepo.addUser("lisa", "female")
	anna := userRepo.addUser("anna", "female")

	users, total, err := svc.ListUsers(context.Background(), lisa.ID, ListParams{Gender: "female", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, anna.ID, users[0].ID)
}

func TestUpdateUser(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	lisa := userRepo.addUser("lisa", "female")

	err := svc.UpdateUser(context.Background(), lisa.ID, UpdateRequest{
		Gender:       "female",
		DateOfBirth:  lisa.DateOfBirth,
		KnownAs:      "Lis",
		City:         "Cusco",
		Country:      "Peru",
		Introduction: "hello",
	})
	require.NoError(t, err)

	updated := userRepo.users[lisa.ID]
	assert.Equal(t, "Lis", updated.KnownAs)
	assert.Equal(t, "Cusco", updated.City)
	assert.Equal(t, "hello", updated.Introduction)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	err := svc.UpdateUser(context.Background(), 99, UpdateRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRegisterDeviceToken(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	lisa := userRepo.addUser("lisa", "female")

	require.NoError(t, svc.RegisterDeviceToken(context.Background(), lisa.ID, "tok-1"))
	require.NotNil(t, userRepo.users[lisa.ID].DeviceToken)
	assert.Equal(t, "tok-1", *userRepo.users[lisa.ID].DeviceToken)

	// Empty token clears it.
	require.NoError(t, svc.RegisterDeviceToken(context.Background(), lisa.ID, ""))
	assert.Nil(t, userRepo.users[lisa.ID].DeviceToken)
}

func TestUserAge(t *testing.T) {
	svc, userRepo := newUserFixture(t)
	lisa := userRepo.addUser("lisa", "female")
	lisa.DateOfBirth = time.Now().AddDate(-30, 0, -1)

	user, err := svc.GetUser(context.Background(), lisa.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, user.Age())
}
