package fitbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"fitness-tracker-backend/internal/database/models"
	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/logger"

	"github.com/google/uuid"
)

// TokenStore is the persistence API the proxy needs: read the latest token
// pair for an account and append a new one after a refresh.
type TokenStore interface {
	GetLatestByAccountID(accountID uuid.UUID) (*models.FitbitToken, error)
	Create(token *models.FitbitToken) error
}

// Refresher performs the refresh_token grant.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPayload, error)
}

// Proxy executes authenticated GETs against the Fitbit resource API,
// transparently handling token expiry: on a 401 it refreshes the token pair,
// persists the new pair, and retries the original call exactly once.
type Proxy struct {
	metrics *MetricsClient
	oauth   Refresher
	tokens  TokenStore

	// per-account locks serialize the check-then-refresh sequence so two
	// concurrent requests cannot both refresh and invalidate each other's
	// new token at the provider
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewProxy creates the token-refresh proxy.
func NewProxy(metrics *MetricsClient, oauth Refresher, tokens TokenStore) *Proxy {
	return &Proxy{
		metrics: metrics,
		oauth:   oauth,
		tokens:  tokens,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// Fetch resolves the account's current token, calls the resource API, and
// returns the parsed JSON body on 200.
//
// Failure modes:
//   - no stored token         -> ErrNoTokenFound
//   - 401 and refresh rejected -> ErrRefreshFailed (no row written, no retry)
//   - any other non-200        -> *UpstreamError with status and details
//
// After a successful refresh the new pair is persisted before the retry, so
// a crash between the two cannot lose the only valid refresh token.
func (p *Proxy) Fetch(ctx context.Context, accountID uuid.UUID, resourcePath string) (map[string]interface{}, error) {
	lock := p.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	token, err := p.tokens.GetLatestByAccountID(accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrNoTokenFound
		}
		return nil, err
	}

	status, body, err := p.metrics.Get(ctx, resourcePath, token.AccessToken)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		newToken, refreshErr := p.refreshAndPersist(ctx, accountID, token.RefreshToken)
		if refreshErr != nil {
			return nil, refreshErr
		}
		status, body, err = p.metrics.Get(ctx, resourcePath, newToken.AccessToken)
		if err != nil {
			return nil, err
		}
		// A second 401 surfaces as-is: at most one refresh-retry cycle per call.
	}

	if status != http.StatusOK {
		return nil, apperrors.NewUpstreamError(status, parseDetails(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode fitbit response: %w", err)
	}
	return result, nil
}

// refreshAndPersist exchanges the refresh token and appends the new pair as
// a brand-new row. The old row is never mutated.
func (p *Proxy) refreshAndPersist(ctx context.Context, accountID uuid.UUID, refreshToken string) (*models.FitbitToken, error) {
	payload, err := p.oauth.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshFailed) {
			logger.WithField("account_id", accountID.String()).
				Warn("Fitbit refresh grant rejected, re-authorization required")
			return nil, apperrors.ErrRefreshFailed
		}
		return nil, err
	}

	row := &models.FitbitToken{
		AccountID:    accountID,
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		Scope:        payload.Scope,
		ExpiresIn:    payload.ExpiresIn,
		TokenType:    payload.TokenType,
	}
	if err := p.tokens.Create(row); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"account_id": accountID.String(),
		"token_id":   row.ID,
	}).Info("Refreshed Fitbit token pair")
	return row, nil
}

func (p *Proxy) accountLock(accountID uuid.UUID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[accountID] = lock
	}
	return lock
}

// parseDetails best-effort decodes an upstream error body: parsed JSON when
// possible, otherwise the raw text.
func parseDetails(body []byte) interface{} {
	var details interface{}
	if err := json.Unmarshal(body, &details); err != nil {
		return map[string]interface{}{"raw": string(body)}
	}
	return details
}
