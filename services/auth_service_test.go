package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
	"github.com/LettersBlue/african-nations-league-sub000/utils"
)

// stubUserRepository держит пользователей в памяти.
type stubUserRepository struct {
	nextID int
	users  map[string]*models.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{nextID: 1, users: make(map[string]*models.User)}
}

func (r *stubUserRepository) Create(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *stubUserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepository) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

func newTestAuthService() (AuthService, *stubUserRepository) {
	repo := newStubUserRepository()
	return NewAuthService(repo, "test-secret"), repo
}

func TestRegisterThenLogin(t *testing.T) {
	svc, repo := newTestAuthService()

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Email:    "rep@caf.example",
		Name:     "Amara Toure",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleRepresentative, user.Role)
	assert.Empty(t, user.PasswordHash, "password hash must not leave the service")

	// Хеш в хранилище получен с фиксированной стоимостью bcrypt.
	stored := repo.users["rep@caf.example"]
	require.NotNil(t, stored)
	assert.True(t, utils.CheckPasswordHash("correct horse", stored.PasswordHash))

	loggedIn, token, err := svc.Login(context.Background(), LoginInput{
		Email:    "rep@caf.example",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "rep@caf.example",
		Name:     "Amara Toure",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{
		Email:    "rep@caf.example",
		Password: "wrong horse",
	})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginInput{
		Email:    "nobody@caf.example",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "rep@caf.example",
		Name:     "Amara Toure",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, _, err = svc.Register(context.Background(), RegisterInput{
		Email:    "rep@caf.example",
		Name:     "Amara Toure",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), RegisterInput{
		Email:    "rep@caf.example",
		Name:     "Another Name",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}
