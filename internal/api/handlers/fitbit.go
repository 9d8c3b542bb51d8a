package handlers

import (
	"errors"
	"net/http"

	"fitness-tracker-backend/internal/auth"
	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/logger"
	"fitness-tracker-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FitbitHandler handles HTTP requests for the Fitbit OAuth flow and the
// cleaned metric endpoints
type FitbitHandler struct {
	fitbitService service.FitbitServiceInterface
}

// NewFitbitHandler creates a new Fitbit handler
func NewFitbitHandler(fitbitService service.FitbitServiceInterface) *FitbitHandler {
	return &FitbitHandler{fitbitService: fitbitService}
}

// Login handles GET /fitbit/login
// @Summary Start Fitbit authorization
// @Description Redirects the caller to Fitbit's authorization page with the configured scopes and a signed state parameter. A logged-in caller links Fitbit to their own account.
// @Tags fitbit
// @Produce json
// @Success 302 {string} string "Redirect to Fitbit authorization URL"
// @Failure 500 {object} map[string]interface{} "Failed to build authorization URL"
// @Router /fitbit/login [get]
func (h *FitbitHandler) Login(c *gin.Context) {
	accountID, _ := auth.GetAccountID(c)

	url, err := h.fitbitService.AuthorizationURL(accountID)
	if err != nil {
		logger.FromGinContext(c).WithField("error", err.Error()).Error("Failed to build authorization URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build authorization URL"})
		return
	}

	c.Redirect(http.StatusFound, url)
}

// Callback handles GET /fitbit/callback
// @Summary Fitbit OAuth callback
// @Description Exchanges the authorization code for a token pair, persists account and tokens, and returns a session token bound to the account.
// @Tags fitbit
// @Produce json
// @Param code query string true "Authorization code from Fitbit"
// @Param state query string true "Signed state parameter issued at /fitbit/login"
// @Success 200 {object} map[string]interface{} "Session token and account id"
// @Failure 400 {object} map[string]interface{} "Missing code or invalid state"
// @Failure 502 {object} map[string]interface{} "Provider rejected the code exchange"
// @Router /fitbit/callback [get]
func (h *FitbitHandler) Callback(c *gin.Context) {
	log := logger.FromGinContext(c)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	result, err := h.fitbitService.CompleteAuthorization(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidStateToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrOAuthExchangeFailed) {
			log.WithField("error", err.Error()).Warn("Fitbit code exchange rejected")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "failed to get access token",
				"details": err.Error(),
			})
			return
		}
		log.WithField("error", err.Error()).Error("Fitbit authorization failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete authorization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Fitbit authentication successful, tokens stored",
		"account_id":   result.Account.ID,
		"access_token": result.SessionToken,
		"token_type":   result.TokenType,
		"expires_in":   result.ExpiresIn,
	})
}

// Steps handles GET /fitbit/steps?date=
// @Summary Cleaned daily steps
// @Description Returns the cleaned daily step count for the given date (defaults to today). Accepts YYYY-MM-DD, MM/DD/YY or MM/DD/YYYY.
// @Tags fitbit
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD or MM/DD/YY)"
// @Success 200 {object} fitbit.StepsSummary "Cleaned steps payload"
// @Failure 400 {object} map[string]interface{} "No Fitbit authorization on file"
// @Failure 401 {object} map[string]interface{} "Refresh failed, re-authorization required"
// @Security BearerAuth
// @Router /fitbit/steps [get]
func (h *FitbitHandler) Steps(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrAuthenticationRequired.Error()})
		return
	}

	summary, err := h.fitbitService.GetSteps(c.Request.Context(), accountID, c.Query("date"))
	if err != nil {
		h.respondFitbitError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Sleep handles GET /fitbit/sleep?date=
// @Summary Cleaned daily sleep summary
// @Description Returns total minutes asleep, time in bed, and the four sleep stage buckets for the given date (defaults to today).
// @Tags fitbit
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD or MM/DD/YY)"
// @Success 200 {object} fitbit.SleepSummary "Cleaned sleep payload"
// @Failure 400 {object} map[string]interface{} "No Fitbit authorization on file"
// @Failure 401 {object} map[string]interface{} "Refresh failed, re-authorization required"
// @Security BearerAuth
// @Router /fitbit/sleep [get]
func (h *FitbitHandler) Sleep(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrAuthenticationRequired.Error()})
		return
	}

	summary, err := h.fitbitService.GetSleep(c.Request.Context(), accountID, c.Query("date"))
	if err != nil {
		h.respondFitbitError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HeartRate handles GET /fitbit/heartrate?date=
// @Summary Cleaned daily heart rate
// @Description Returns the resting heart rate (nullable) and the remapped heart rate zones for the given date (defaults to today).
// @Tags fitbit
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD or MM/DD/YY)"
// @Success 200 {object} fitbit.HeartRateSummary "Cleaned heart rate payload"
// @Failure 400 {object} map[string]interface{} "No Fitbit authorization on file"
// @Failure 401 {object} map[string]interface{} "Refresh failed, re-authorization required"
// @Security BearerAuth
// @Router /fitbit/heartrate [get]
func (h *FitbitHandler) HeartRate(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrAuthenticationRequired.Error()})
		return
	}

	summary, err := h.fitbitService.GetHeartRate(c.Request.Context(), accountID, c.Query("date"))
	if err != nil {
		h.respondFitbitError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondFitbitError maps proxy failures onto the documented status codes.
func (h *FitbitHandler) respondFitbitError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNoTokenFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, apperrors.ErrRefreshFailed) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if upstream, ok := apperrors.AsUpstream(err); ok {
		c.JSON(upstream.StatusCode, gin.H{
			"error":   "Fitbit API request failed",
			"details": upstream.Details,
		})
		return
	}
	logger.FromGinContext(c).WithField("error", err.Error()).Error("Fitbit metric request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch Fitbit data"})
}
