package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := newTestService(t)
	middleware := NewMiddleware(service)

	router := gin.New()
	router.GET("/protected", middleware.RequireAuth(), func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"account_id": accountID.String()})
	})
	router.GET("/optional", middleware.OptionalAuth(), func(c *gin.Context) {
		if accountID, ok := GetAccountID(c); ok {
			c.JSON(http.StatusOK, gin.H{"account_id": accountID.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"account_id": nil})
	})
	return router, service
}

func TestRequireAuth(t *testing.T) {
	router, service := setupAuthRouter(t)
	accountID := uuid.New()
	token, err := service.GenerateSessionToken(accountID)
	require.NoError(t, err)

	t.Run("valid bearer token passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), accountID.String())
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	router, service := setupAuthRouter(t)
	accountID := uuid.New()
	token, err := service.GenerateSessionToken(accountID)
	require.NoError(t, err)

	t.Run("with token the identity is available", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), accountID.String())
	})

	t.Run("without token the request continues anonymously", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "null")
	})
}
