package fitbit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "fitness-tracker-backend/internal/errors"

	"golang.org/x/oauth2"
)

const (
	authURL  = "https://www.fitbit.com/oauth2/authorize"
	tokenURL = "https://api.fitbit.com/oauth2/token"
)

// Scopes requested during authorization.
var Scopes = []string{"activity", "heartrate", "sleep", "profile"}

// TokenPayload is a successful token endpoint response. UserID is only
// present on the authorization-code grant.
type TokenPayload struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresIn    int
	TokenType    string
	UserID       string
}

// OAuthClient performs the two token-endpoint grant types against Fitbit.
// The token endpoint authenticates the client id/secret via HTTP Basic auth.
type OAuthClient struct {
	config *oauth2.Config
}

// OAuthConfig carries the provider credentials for the exchange client.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// TokenURL overrides the Fitbit token endpoint, used by tests.
	TokenURL string
}

// NewOAuthClient creates the exchange client from explicit configuration.
// Credentials are injected here once at startup, never read from globals.
func NewOAuthClient(cfg OAuthConfig) *OAuthClient {
	tokenEndpoint := cfg.TokenURL
	if tokenEndpoint == "" {
		tokenEndpoint = tokenURL
	}
	return &OAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenEndpoint,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
}

// AuthCodeURL returns the Fitbit authorization page URL for the given state.
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// ExchangeCode performs the authorization_code grant. A non-200 from the
// token endpoint surfaces as ErrOAuthExchangeFailed carrying the provider's
// error body; no account or token rows may be created from it.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*TokenPayload, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrOAuthExchangeFailed,
				strings.TrimSpace(string(retrieveErr.Body)))
		}
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return payloadFromToken(token), nil
}

// Refresh performs the refresh_token grant. A non-200 from the token
// endpoint surfaces as ErrRefreshFailed; the proxy treats that as terminal
// for the current request.
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPayload, error) {
	source := c.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrRefreshFailed,
				strings.TrimSpace(string(retrieveErr.Body)))
		}
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return payloadFromToken(token), nil
}

func payloadFromToken(token *oauth2.Token) *TokenPayload {
	payload := &TokenPayload{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        extraString(token, "scope"),
		ExpiresIn:    extraInt(token, "expires_in"),
		UserID:       extraString(token, "user_id"),
	}
	if payload.TokenType == "" {
		payload.TokenType = "bearer"
	}
	return payload
}

func extraString(token *oauth2.Token, key string) string {
	if v, ok := token.Extra(key).(string); ok {
		return v
	}
	return ""
}

func extraInt(token *oauth2.Token, key string) int {
	switch v := token.Extra(key).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
