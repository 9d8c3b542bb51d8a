package auth

import (
	"testing"

	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService("test-jwt-secret", 3600)
	require.NoError(t, err)
	return service
}

func TestNewService(t *testing.T) {
	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := NewService("", 3600)
		assert.Error(t, err)
	})

	t.Run("non-positive expiry falls back to an hour", func(t *testing.T) {
		service, err := NewService("secret", 0)
		require.NoError(t, err)
		assert.Equal(t, float64(3600), service.SessionTTL().Seconds())
	})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	service := newTestService(t)
	accountID := uuid.New()

	token, err := service.GenerateSessionToken(accountID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := service.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
}

func TestValidateSessionTokenRejections(t *testing.T) {
	service := newTestService(t)

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateSessionToken("not.a.jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidSessionToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := NewService("different-secret", 3600)
		require.NoError(t, err)
		token, err := other.GenerateSessionToken(uuid.New())
		require.NoError(t, err)

		_, err = service.ValidateSessionToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSessionToken)
	})

	t.Run("state token is not a session token", func(t *testing.T) {
		token, err := service.GenerateStateToken(uuid.Nil)
		require.NoError(t, err)

		_, err = service.ValidateSessionToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSessionToken)
	})
}

func TestStateTokenRoundTrip(t *testing.T) {
	service := newTestService(t)

	t.Run("anonymous flow", func(t *testing.T) {
		token, err := service.GenerateStateToken(uuid.Nil)
		require.NoError(t, err)

		got, err := service.ValidateStateToken(token)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, got)
	})

	t.Run("linking flow carries the account", func(t *testing.T) {
		accountID := uuid.New()
		token, err := service.GenerateStateToken(accountID)
		require.NoError(t, err)

		got, err := service.ValidateStateToken(token)
		require.NoError(t, err)
		assert.Equal(t, accountID, got)
	})

	t.Run("tampered state rejected", func(t *testing.T) {
		_, err := service.ValidateStateToken("forged-state")
		assert.ErrorIs(t, err, apperrors.ErrInvalidStateToken)
	})
}
