package service

import (
	"context"
	"testing"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("writes identity fields", func(t *testing.T) {
		repos := newStubRepos()
		var written *models.User
		repos.users.updateProfileFn = func(_ context.Context, u *models.User) error {
			written = u
			return nil
		}

		user, err := NewUserService(repos.users).UpdateProfile(context.Background(), 4, ProfileInput{
			Username:  " renamed ",
			Email:     "renamed@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(4), user.ID)
		require.NotNil(t, written)
		assert.Equal(t, "renamed", written.Username)
		assert.Equal(t, "Ada", written.FirstName)
	})

	t.Run("taken username and email are field errors", func(t *testing.T) {
		repos := newStubRepos()
		var excluded []uint
		repos.users.isTakenFn = func(_ context.Context, _, _ string, excludeID uint) (bool, error) {
			excluded = append(excluded, excludeID)
			return true, nil
		}
		repos.users.updateProfileFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("profile must not be written")
			return nil
		}

		_, err := NewUserService(repos.users).UpdateProfile(context.Background(), 4, ProfileInput{
			Username: "bob",
			Email:    "bob@example.com",
		})
		appErr := assertCode(t, err, models.CodeValidation)
		assert.Contains(t, appErr.Fields, "username")
		assert.Contains(t, appErr.Fields, "email")
		assert.Equal(t, []uint{4, 4}, excluded, "own row never counts as taken")
	})

	t.Run("invalid format skips uniqueness check", func(t *testing.T) {
		repos := newStubRepos()
		repos.users.isTakenFn = func(_ context.Context, field, _ string, _ uint) (bool, error) {
			assert.NotEqual(t, "email", field)
			return false, nil
		}

		_, err := NewUserService(repos.users).UpdateProfile(context.Background(), 4, ProfileInput{
			Username: "valid_name",
			Email:    "not-an-email",
		})
		appErr := assertCode(t, err, models.CodeValidation)
		assert.Contains(t, appErr.Fields, "email")
		assert.NotContains(t, appErr.Fields, "username")
	})
}

func TestUserService_SignupAndAuthenticate(t *testing.T) {
	t.Parallel()

	repos := newStubRepos()
	var stored *models.User
	repos.users.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 9
		stored = u
		return nil
	}
	repos.users.getByLoginFn = func(_ context.Context, login string) (*models.User, error) {
		if stored != nil && (login == stored.Username || login == stored.Email) {
			return stored, nil
		}
		return nil, nil
	}
	svc := NewUserService(repos.users)

	user, err := svc.Signup(context.Background(), SignupInput{
		Username: "writer",
		Email:    "writer@example.com",
		Password: "SecurePass12!@",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), user.ID)
	assert.NotEqual(t, "SecurePass12!@", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("SecurePass12!@")))

	for _, login := range []string{"writer", "writer@example.com"} {
		got, err := svc.Authenticate(context.Background(), login, "SecurePass12!@")
		require.NoError(t, err, login)
		assert.Equal(t, uint(9), got.ID)
	}

	_, err = svc.Authenticate(context.Background(), "writer", "WrongPass12!@")
	assertCode(t, err, models.CodeUnauthorized)
	_, err = svc.Authenticate(context.Background(), "nobody", "SecurePass12!@")
	assertCode(t, err, models.CodeUnauthorized)
}

func TestUserService_SignupValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     SignupInput
		wantField string
	}{
		{name: "missing fields", input: SignupInput{Username: "writer"}},
		{name: "weak password", input: SignupInput{Username: "writer", Email: "w@example.com", Password: "short"}, wantField: "password"},
		{name: "bad username", input: SignupInput{Username: "a b", Email: "w@example.com", Password: "SecurePass12!@"}, wantField: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := newStubRepos()
			repos.users.createFn = func(_ context.Context, _ *models.User) error {
				t.Fatal("user must not be stored")
				return nil
			}

			_, err := NewUserService(repos.users).Signup(context.Background(), tt.input)
			appErr := assertCode(t, err, models.CodeValidation)
			if tt.wantField != "" {
				assert.Contains(t, appErr.Fields, tt.wantField)
			}
		})
	}
}

func TestUserService_IsAdmin(t *testing.T) {
	t.Parallel()

	repos := newStubRepos()
	repos.users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		switch id {
		case 1:
			return &models.User{ID: 1, IsAdmin: true}, nil
		case 2:
			return &models.User{ID: 2}, nil
		}
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewUserService(repos.users)

	for id, want := range map[uint]bool{1: true, 2: false, 3: false} {
		got, err := svc.IsAdmin(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "user %d", id)
	}
}
