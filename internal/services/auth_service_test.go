package services

import (
	"testing"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestService(t *testing.T) (*AuthService, *repositories.MockUserRepository) {
	t.Helper()
	users := repositories.NewMockUserRepository()
	return NewAuthService(users, "test-secret"), users
}

func registeredUser() *models.User {
	return &models.User{
		Name:     "Sita Sharma",
		Email:    "sita@example.com",
		Password: "hunter22",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	service, users := newAuthTestService(t)

	user := registeredUser()
	require.NoError(t, service.Register(user))

	stored, err := users.GetByEmail("sita@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newAuthTestService(t)
	require.NoError(t, service.Register(registeredUser()))

	err := service.Register(registeredUser())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginIssuesValidToken(t *testing.T) {
	service, _ := newAuthTestService(t)
	require.NoError(t, service.Register(registeredUser()))

	token, user, err := service.Login("sita@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "sita@example.com", user.Email)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "sita@example.com", claims["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newAuthTestService(t)
	require.NoError(t, service.Register(registeredUser()))

	_, _, err := service.Login("sita@example.com", "wrong")
	assert.Error(t, err)

	_, _, err = service.Login("nobody@example.com", "hunter22")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service, _ := newAuthTestService(t)

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	service, users := newAuthTestService(t)
	require.NoError(t, service.Register(registeredUser()))

	token, _, err := service.Login("sita@example.com", "hunter22")
	require.NoError(t, err)

	other := NewAuthService(users, "different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
