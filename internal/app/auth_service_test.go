package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-prep/internal/pkg/jwtutil"
	"interview-prep/internal/pkg/testdb"
	"interview-prep/internal/repository"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(testdb.Open(t)), testSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEqual(t, "password123", res.User.PasswordHash)

	claims, err := jwtutil.ParseToken(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "ada@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)

	login, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "", Email: "a@example.com", Password: "password123"},
		{Name: "A", Email: "not-an-email", Password: "password123"},
		{Name: "A", Email: "a@example.com", Password: "short"},
		{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 80)},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRegisterAcceptsLongestHashablePassword(t *testing.T) {
	svc := newAuthService(t)
	password := strings.Repeat("z", maxPasswordLength)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Max", Email: "max@example.com", Password: password})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "max@example.com", Password: password})
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	ada, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: ada.User.ID, Name: strPtr("Ada L."), ProfileImageURL: strPtr("https://img.example.com/a.png")})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{UserID: ada.User.ID, Email: strPtr("bob@example.com")})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{UserID: ada.User.ID, Password: strPtr(strings.Repeat("y", 73))})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{UserID: ada.User.ID, Password: strPtr("newpassword1")})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "newpassword1"})
	assert.NoError(t, err)

	stored, err := svc.GetUserByID(ctx, ada.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.png", stored.ProfileImageURL)

	_, err = svc.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
