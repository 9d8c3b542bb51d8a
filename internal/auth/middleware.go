package auth

import (
	"net/http"
	"strings"

	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// accountIDKey is the gin context key holding the authenticated account id.
const accountIDKey = "account_id"

// Middleware validates session tokens on protected routes.
type Middleware struct {
	service *Service
}

// NewMiddleware creates an auth middleware around the given service.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth aborts with 401 unless a valid bearer session token is present.
// On success the account id is stored in the gin context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := m.resolve(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": apperrors.ErrAuthenticationRequired.Error(),
			})
			return
		}
		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// OptionalAuth stores the account id when a valid bearer token is present
// and continues anonymously otherwise. Used by /fitbit/login so a logged-in
// user links Fitbit to their own account.
func (m *Middleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if accountID, ok := m.resolve(c); ok {
			c.Set(accountIDKey, accountID)
		}
		c.Next()
	}
}

func (m *Middleware) resolve(c *gin.Context) (uuid.UUID, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, false
	}
	accountID, err := m.service.ValidateSessionToken(strings.TrimSpace(parts[1]))
	if err != nil {
		logger.FromGinContext(c).WithField("error", err.Error()).Debug("Session token rejected")
		return uuid.Nil, false
	}
	return accountID, true
}

// GetAccountID returns the authenticated account id stored by RequireAuth.
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(accountIDKey)
	if !ok {
		return uuid.Nil, false
	}
	accountID, ok := v.(uuid.UUID)
	return accountID, ok
}
