package service

import (
	"context"
	"encoding/json"
	"time"

	"fitness-tracker-backend/internal/auth"
	"fitness-tracker-backend/internal/cache"
	"fitness-tracker-backend/internal/database/models"
	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/fitbit"
	"fitness-tracker-backend/internal/logger"
	"fitness-tracker-backend/internal/repository"

	"github.com/google/uuid"
)

// MetricsProxy is the token-refresh proxy contract the service depends on.
type MetricsProxy interface {
	Fetch(ctx context.Context, accountID uuid.UUID, resourcePath string) (map[string]interface{}, error)
}

// OAuthExchanger is the subset of the OAuth client used by the service.
type OAuthExchanger interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*fitbit.TokenPayload, error)
}

// AuthorizationResult is returned after a completed OAuth callback.
type AuthorizationResult struct {
	Account      *models.Account
	SessionToken string
	TokenType    string
	ExpiresIn    int64
}

// FitbitServiceInterface defines the Fitbit business operations.
type FitbitServiceInterface interface {
	AuthorizationURL(accountID uuid.UUID) (string, error)
	CompleteAuthorization(ctx context.Context, code, state string) (*AuthorizationResult, error)
	GetSteps(ctx context.Context, accountID uuid.UUID, rawDate string) (*fitbit.StepsSummary, error)
	GetSleep(ctx context.Context, accountID uuid.UUID, rawDate string) (*fitbit.SleepSummary, error)
	GetHeartRate(ctx context.Context, accountID uuid.UUID, rawDate string) (*fitbit.HeartRateSummary, error)
}

// FitbitService orchestrates the OAuth flow and the cleaned metric reads.
type FitbitService struct {
	oauth        OAuthExchanger
	proxy        MetricsProxy
	accountRepo  *repository.AccountRepository
	tokenRepo    *repository.TokenRepository
	authService  *auth.Service
	cacheService cache.Service
	ttl          cache.TTLConfig
}

// NewFitbitService creates the Fitbit service.
func NewFitbitService(
	oauth OAuthExchanger,
	proxy MetricsProxy,
	accountRepo *repository.AccountRepository,
	tokenRepo *repository.TokenRepository,
	authService *auth.Service,
	cacheService cache.Service,
	ttl cache.TTLConfig,
) *FitbitService {
	return &FitbitService{
		oauth:        oauth,
		proxy:        proxy,
		accountRepo:  accountRepo,
		tokenRepo:    tokenRepo,
		authService:  authService,
		cacheService: cacheService,
		ttl:          ttl,
	}
}

// AuthorizationURL builds the provider authorization page URL with a signed
// state parameter. accountID may be uuid.Nil for anonymous starts.
func (s *FitbitService) AuthorizationURL(accountID uuid.UUID) (string, error) {
	state, err := s.authService.GenerateStateToken(accountID)
	if err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

// CompleteAuthorization exchanges the authorization code, resolves or creates
// the owning account, persists the issued token pair, and returns a session
// token bound to that account.
func (s *FitbitService) CompleteAuthorization(ctx context.Context, code, state string) (*AuthorizationResult, error) {
	linkAccountID, err := s.authService.ValidateStateToken(state)
	if err != nil {
		return nil, err
	}

	payload, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	account, err := s.resolveAccount(linkAccountID, payload.UserID)
	if err != nil {
		return nil, err
	}

	token := &models.FitbitToken{
		AccountID:    account.ID,
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		Scope:        payload.Scope,
		ExpiresIn:    payload.ExpiresIn,
		TokenType:    payload.TokenType,
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return nil, err
	}

	sessionToken, err := s.authService.GenerateSessionToken(account.ID)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"account_id":     account.ID.String(),
		"fitbit_user_id": payload.UserID,
	}).Info("Fitbit authorization completed, tokens stored")

	return &AuthorizationResult{
		Account:      account,
		SessionToken: sessionToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.authService.SessionTTL().Seconds()),
	}, nil
}

// resolveAccount maps a provider identity onto an account. The provider's
// user id is the unique key: an existing owner always wins, a linking local
// account is re-keyed, and otherwise a fresh account is created.
func (s *FitbitService) resolveAccount(linkAccountID uuid.UUID, fitbitUserID string) (*models.Account, error) {
	existing, err := s.accountRepo.GetByFitbitUserID(fitbitUserID)
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	if linkAccountID != uuid.Nil {
		account, err := s.accountRepo.GetByID(linkAccountID)
		if err != nil {
			return nil, err
		}
		if err := s.accountRepo.SetFitbitUserID(account.ID, fitbitUserID); err != nil {
			return nil, err
		}
		account.FitbitUserID = fitbitUserID
		return account, nil
	}

	account := &models.Account{FitbitUserID: fitbitUserID}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetSteps returns the cleaned daily steps for the given date input.
func (s *FitbitService) GetSteps(ctx context.Context, accountID uuid.UUID, rawDate string) (*fitbit.StepsSummary, error) {
	date := fitbit.ResolveDate(rawDate)
	key := cache.BuildKey(cache.KeyPrefixSteps, accountID.String(), date)

	var cached fitbit.StepsSummary
	if s.cacheHit(key, &cached) {
		return &cached, nil
	}

	body, err := s.proxy.Fetch(ctx, accountID, fitbit.StepsPath(date))
	if err != nil {
		return nil, err
	}
	summary := fitbit.NormalizeSteps(date, body)
	s.cacheStore(key, date, summary)
	return &summary, nil
}

// GetSleep returns the cleaned daily sleep summary for the given date input.
func (s *FitbitService) GetSleep(ctx context.Context, accountID uuid.UUID, rawDate string) (*fitbit.SleepSummary, error) {
	date := fitbit.ResolveDate(rawDate)
	key := cache.BuildKey(cache.KeyPrefixSleep, accountID.String(), date)

	var cached fitbit.SleepSummary
	if s.cacheHit(key, &cached) {
		return &cached, nil
	}

	body, err := s.proxy.Fetch(ctx, accountID, fitbit.SleepPath(date))
	if err != nil {
		return nil, err
	}
	summary := fitbit.NormalizeSleep(date, body)
	s.cacheStore(key, date, summary)
	return &summary, nil
}

// GetHeartRate returns the cleaned daily heart rate for the given date input.
func (s *FitbitService) GetHeartRate(ctx context.Context, accountID uuid.UUID, rawDate string) (*fitbit.HeartRateSummary, error) {
	date := fitbit.ResolveDate(rawDate)
	key := cache.BuildKey(cache.KeyPrefixHeartRate, accountID.String(), date)

	var cached fitbit.HeartRateSummary
	if s.cacheHit(key, &cached) {
		return &cached, nil
	}

	body, err := s.proxy.Fetch(ctx, accountID, fitbit.HeartRatePath(date))
	if err != nil {
		return nil, err
	}
	summary := fitbit.NormalizeHeartRate(date, body)
	s.cacheStore(key, date, summary)
	return &summary, nil
}

func (s *FitbitService) cacheHit(key string, out interface{}) bool {
	if s.cacheService == nil {
		return false
	}
	data, err := s.cacheService.Get(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *FitbitService) cacheStore(key, date string, value interface{}) {
	if s.cacheService == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	ttl := s.ttl.MetricsHistorical
	if date == time.Now().Format("2006-01-02") {
		ttl = s.ttl.MetricsToday
	}
	_ = s.cacheService.Set(key, data, ttl)
}
