package handlers

import (
	"net/http"

	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/logger"
	"fitness-tracker-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles HTTP requests for local accounts
type UserHandler struct {
	userService service.UserServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST /users/register
// @Summary Register a local account
// @Description Creates a username/password account and returns a session token. Local accounts can later connect Fitbit via /fitbit/login.
// @Tags users
// @Accept json
// @Produce json
// @Param account body service.RegisterRequest true "Registration data"
// @Success 201 {object} service.SessionResponse "Session token and account summary"
// @Failure 400 {object} map[string]interface{} "Validation failed or username taken"
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.userService.Register(&req)
	if err != nil {
		if apperrors.IsAlreadyExists(err) || apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.FromGinContext(c).WithField("error", err.Error()).Error("Registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register account"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Login handles POST /users/login
// @Summary Login with username and password
// @Description Verifies local credentials and returns a session token.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "Login credentials"
// @Success 200 {object} service.SessionResponse "Session token and account summary"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.userService.Login(&req)
	if err != nil {
		if apperrors.IsAuthentication(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.FromGinContext(c).WithField("error", err.Error()).Error("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetAccount handles GET /users/:id
// @Summary Get account by ID
// @Description Returns the account summary including whether Fitbit is connected.
// @Tags users
// @Produce json
// @Param id path string true "Account ID (UUID)"
// @Success 200 {object} service.AccountResponse "Account summary"
// @Failure 400 {object} map[string]interface{} "Invalid account ID"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}

	account, err := h.userService.GetByID(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get account"})
		return
	}

	c.JSON(http.StatusOK, account)
}
