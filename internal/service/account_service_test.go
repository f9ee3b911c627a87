package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"chargegrid/internal/models"
	"chargegrid/internal/password"
	"chargegrid/internal/repository"
)

func strPtr(s string) *string { return &s }

type fakeUserStore struct {
	users  map[int64]*models.UserAccount
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.UserAccount{}, nextID: 1}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.UserAccount) error {
	for _, existing := range f.users {
		if strings.EqualFold(existing.LoginName, user.LoginName) {
			return repository.ErrLoginExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, userID int64) (*models.UserAccount, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByLogin(_ context.Context, login string) (*models.UserAccount, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.LoginName, login) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]models.UserAccount, error) {
	var out []models.UserAccount
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.UserAccount) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

func newTestAccountService() (*AccountService, *fakeUserStore) {
	store := newFakeUserStore()
	svc := NewAccountService(store, password.NewBcryptHasher(bcrypt.MinCost), zap.NewNop())
	return svc, store
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestAccountService()

	_, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: "  ", Password: "secret"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(context.Background(), CreateUserInput{LoginName: "alice", Password: ""})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserHashesPasswordAndSetsPublicID(t *testing.T) {
	svc, store := newTestAccountService()

	user, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: " alice ", Password: "secret", IsAdmin: true})
	require.NoError(t, err)
	require.Equal(t, "alice", user.LoginName)
	require.True(t, user.IsAdmin)
	require.NotEmpty(t, user.PublicID)
	require.NotEqual(t, "secret", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.PublicID, stored.PublicID)
}

func TestCreateUserDuplicateLogin(t *testing.T) {
	svc, _ := newTestAccountService()

	_, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserInput{LoginName: "ALICE", Password: "other"})
	require.ErrorIs(t, err, ErrLoginTaken)
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	svc, _ := newTestAccountService()

	created, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: "alice", Password: "secret"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), UpdateUserInput{UserID: created.ID, LoginName: "alice2", IsAdmin: true})
	require.NoError(t, err)
	require.Equal(t, "alice2", updated.LoginName)
	require.True(t, updated.IsAdmin)
	require.Equal(t, created.PasswordHash, updated.PasswordHash)
}

func TestUpdateUserLoginConflict(t *testing.T) {
	svc, _ := newTestAccountService()

	_, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: "alice", Password: "secret"})
	require.NoError(t, err)
	bob, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: "bob", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), UpdateUserInput{UserID: bob.ID, LoginName: "alice"})
	require.ErrorIs(t, err, ErrLoginTaken)

	// Keeping your own login is not a conflict.
	_, err = svc.UpdateUser(context.Background(), UpdateUserInput{UserID: bob.ID, LoginName: "bob"})
	require.NoError(t, err)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _ := newTestAccountService()

	_, err := svc.UpdateUser(context.Background(), UpdateUserInput{UserID: 42, LoginName: "ghost"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, store := newTestAccountService()

	created, err := svc.CreateUser(context.Background(), CreateUserInput{LoginName: "alice", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))
	_, err = store.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), created.ID), ErrUserNotFound)
}
