package fitbit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOAuthClient(tokenURL string) *OAuthClient {
	return NewOAuthClient(OAuthConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURI:  "http://localhost:8080/fitbit/callback",
		TokenURL:     tokenURL,
	})
}

func TestAuthCodeURL(t *testing.T) {
	client := newTestOAuthClient("")
	url := client.AuthCodeURL("signed-state")

	assert.True(t, strings.HasPrefix(url, "https://www.fitbit.com/oauth2/authorize"))
	assert.Contains(t, url, "client_id=test-client")
	assert.Contains(t, url, "state=signed-state")
	assert.Contains(t, url, "scope=activity+heartrate+sleep+profile")
}

func TestExchangeCodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "the-code", r.Form.Get("code"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "client credentials go in the Authorization header")
		assert.Equal(t, "test-client", user)
		assert.Equal(t, "test-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "acc-1",
			"refresh_token": "ref-1",
			"token_type": "Bearer",
			"expires_in": 28800,
			"scope": "activity heartrate sleep profile",
			"user_id": "ABC123"
		}`)
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	payload, err := client.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)

	assert.Equal(t, "acc-1", payload.AccessToken)
	assert.Equal(t, "ref-1", payload.RefreshToken)
	assert.Equal(t, "activity heartrate sleep profile", payload.Scope)
	assert.Equal(t, 28800, payload.ExpiresIn)
	assert.Equal(t, "ABC123", payload.UserID)
}

func TestExchangeCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors":[{"errorType":"invalid_grant","message":"Authorization code invalid"}]}`)
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	payload, err := client.ExchangeCode(context.Background(), "bad-code")

	assert.Nil(t, payload)
	assert.ErrorIs(t, err, apperrors.ErrOAuthExchangeFailed)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestRefreshSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "ref-1", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "acc-2",
			"refresh_token": "ref-2",
			"token_type": "Bearer",
			"expires_in": 28800,
			"scope": "activity heartrate sleep profile"
		}`)
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	payload, err := client.Refresh(context.Background(), "ref-1")
	require.NoError(t, err)

	assert.Equal(t, "acc-2", payload.AccessToken)
	assert.Equal(t, "ref-2", payload.RefreshToken, "rotated refresh token must be returned")
	assert.Equal(t, 28800, payload.ExpiresIn)
}

func TestRefreshRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"errorType":"invalid_grant"}]}`)
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	payload, err := client.Refresh(context.Background(), "revoked")

	assert.Nil(t, payload)
	assert.ErrorIs(t, err, apperrors.ErrRefreshFailed)
}
