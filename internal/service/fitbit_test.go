package service

import (
	"context"
	"encoding/base64"
	"testing"

	"fitness-tracker-backend/internal/auth"
	"fitness-tracker-backend/internal/cache"
	"fitness-tracker-backend/internal/database/models"
	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/fitbit"
	"fitness-tracker-backend/internal/repository"
	"fitness-tracker-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type fakeExchanger struct {
	payload      *fitbit.TokenPayload
	exchangeErr  error
	lastCode     string
	lastAuthURL  string
	exchangeHits int
}

func (f *fakeExchanger) AuthCodeURL(state string) string {
	f.lastAuthURL = "https://www.fitbit.com/oauth2/authorize?state=" + state
	return f.lastAuthURL
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code string) (*fitbit.TokenPayload, error) {
	f.exchangeHits++
	f.lastCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.payload, nil
}

type fakeProxy struct {
	body  map[string]interface{}
	err   error
	calls int
	paths []string
}

func (f *fakeProxy) Fetch(ctx context.Context, accountID uuid.UUID, resourcePath string) (map[string]interface{}, error) {
	f.calls++
	f.paths = append(f.paths, resourcePath)
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type FitbitServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	accountRepo *repository.AccountRepository
	tokenRepo   *repository.TokenRepository
	authService *auth.Service
	exchanger   *fakeExchanger
	proxy       *fakeProxy
	service     *FitbitService
}

func (s *FitbitServiceTestSuite) SetupSuite() {
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	s.Require().NoError(auth.SetTokenSecret(secret))
}

func (s *FitbitServiceTestSuite) SetupTest() {
	s.db = testutils.SetupTestDB(s.T())
	s.accountRepo = repository.NewAccountRepository(s.db)
	s.tokenRepo = repository.NewTokenRepository(s.db)

	authService, err := auth.NewService("test-jwt-secret", 3600)
	s.Require().NoError(err)
	s.authService = authService

	s.exchanger = &fakeExchanger{payload: &fitbit.TokenPayload{
		AccessToken:  "acc-1",
		RefreshToken: "ref-1",
		Scope:        "activity heartrate sleep profile",
		ExpiresIn:    28800,
		TokenType:    "bearer",
		UserID:       "FITBIT1",
	}}
	s.proxy = &fakeProxy{}

	ttl := cache.DefaultTTLConfig()
	cacheService := cache.NewInMemoryCache(ttl.Default, 0)
	s.service = NewFitbitService(
		s.exchanger, s.proxy, s.accountRepo, s.tokenRepo, s.authService, cacheService, ttl)
}

func (s *FitbitServiceTestSuite) completeAuthorization(state string) *AuthorizationResult {
	result, err := s.service.CompleteAuthorization(context.Background(), "the-code", state)
	s.Require().NoError(err)
	return result
}

func (s *FitbitServiceTestSuite) TestAuthorizationURLCarriesSignedState() {
	url, err := s.service.AuthorizationURL(uuid.Nil)
	s.Require().NoError(err)
	s.Contains(url, "state=")
	s.Contains(url, "https://www.fitbit.com/oauth2/authorize")
}

func (s *FitbitServiceTestSuite) TestCompleteAuthorizationCreatesAccount() {
	state, err := s.authService.GenerateStateToken(uuid.Nil)
	s.Require().NoError(err)

	result := s.completeAuthorization(state)

	s.Equal("the-code", s.exchanger.lastCode)
	s.Equal("FITBIT1", result.Account.FitbitUserID)
	s.NotEmpty(result.SessionToken)
	s.Equal("bearer", result.TokenType)
	s.EqualValues(3600, result.ExpiresIn)

	// session token is bound to the new account
	accountID, err := s.authService.ValidateSessionToken(result.SessionToken)
	s.Require().NoError(err)
	s.Equal(result.Account.ID, accountID)

	// token pair persisted
	token, err := s.tokenRepo.GetLatestByAccountID(result.Account.ID)
	s.Require().NoError(err)
	s.Equal("acc-1", token.AccessToken)
	s.Equal("ref-1", token.RefreshToken)
}

func (s *FitbitServiceTestSuite) TestCompleteAuthorizationReusesExistingAccount() {
	existing := testutils.NewAccount(s.T(), s.db, "FITBIT1")

	state, err := s.authService.GenerateStateToken(uuid.Nil)
	s.Require().NoError(err)

	result := s.completeAuthorization(state)
	s.Equal(existing.ID, result.Account.ID, "provider identity maps back to its owner")
}

func (s *FitbitServiceTestSuite) TestCompleteAuthorizationLinksLocalAccount() {
	local := &models.Account{Username: "alice", FitbitUserID: "local:alice", PasswordHash: "x"}
	s.Require().NoError(s.accountRepo.Create(local))

	state, err := s.authService.GenerateStateToken(local.ID)
	s.Require().NoError(err)

	result := s.completeAuthorization(state)

	s.Equal(local.ID, result.Account.ID, "logged-in user keeps their account")
	s.Equal("FITBIT1", result.Account.FitbitUserID, "account re-keyed to the provider identity")

	got, err := s.accountRepo.GetByID(local.ID)
	s.Require().NoError(err)
	s.Equal("FITBIT1", got.FitbitUserID)
}

func (s *FitbitServiceTestSuite) TestCompleteAuthorizationRejectsForgedState() {
	_, err := s.service.CompleteAuthorization(context.Background(), "the-code", "forged")
	s.ErrorIs(err, apperrors.ErrInvalidStateToken)
	s.Zero(s.exchanger.exchangeHits, "no code exchange on a bad state")
}

func (s *FitbitServiceTestSuite) TestCompleteAuthorizationExchangeFailure() {
	s.exchanger.exchangeErr = apperrors.ErrOAuthExchangeFailed
	state, err := s.authService.GenerateStateToken(uuid.Nil)
	s.Require().NoError(err)

	_, err = s.service.CompleteAuthorization(context.Background(), "bad-code", state)
	s.ErrorIs(err, apperrors.ErrOAuthExchangeFailed)

	var count int64
	s.Require().NoError(s.db.Model(&models.Account{}).Count(&count).Error)
	s.Zero(count, "no account created from a failed exchange")
}

func (s *FitbitServiceTestSuite) TestGetStepsNormalizesAndCaches() {
	accountID := uuid.New()
	s.proxy.body = map[string]interface{}{
		"activities-steps": []interface{}{
			map[string]interface{}{"dateTime": "2024-01-15", "value": "6521"},
		},
	}

	summary, err := s.service.GetSteps(context.Background(), accountID, "01/15/2024")
	s.Require().NoError(err)
	s.Equal("2024-01-15", summary.Date, "input date canonicalized to ISO")
	s.Equal(6521, summary.Steps)
	s.Equal([]string{"/1/user/-/activities/steps/date/2024-01-15/1d.json"}, s.proxy.paths)

	// second read for the same day is served from cache
	again, err := s.service.GetSteps(context.Background(), accountID, "2024-01-15")
	s.Require().NoError(err)
	s.Equal(summary.Steps, again.Steps)
	s.Equal(1, s.proxy.calls, "cache hit avoids a second upstream fetch")
}

func (s *FitbitServiceTestSuite) TestGetSleepNormalizes() {
	s.proxy.body = map[string]interface{}{
		"summary": map[string]interface{}{
			"totalMinutesAsleep": float64(420),
			"totalTimeInBed":     float64(460),
		},
	}

	summary, err := s.service.GetSleep(context.Background(), uuid.New(), "2024-01-15")
	s.Require().NoError(err)
	s.Equal(420, summary.TotalMinutesAsleep)
	s.Equal(fitbit.SleepStages{}, summary.Stages)
}

func (s *FitbitServiceTestSuite) TestGetHeartRatePropagatesProxyError() {
	s.proxy.err = apperrors.ErrNoTokenFound

	_, err := s.service.GetHeartRate(context.Background(), uuid.New(), "")
	s.ErrorIs(err, apperrors.ErrNoTokenFound)
}

func TestFitbitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FitbitServiceTestSuite))
}
