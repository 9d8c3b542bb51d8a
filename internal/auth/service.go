package auth

import (
	"fmt"
	"time"

	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "fitness-tracker-backend"

	// stateTTL bounds the lifetime of the signed OAuth state parameter
	stateTTL = 10 * time.Minute
)

// SessionClaims are the JWT claims carried by a session token. The AccountID
// claim is the explicit session identity that replaces any "most recently
// created account" lookup.
type SessionClaims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// StateClaims are the claims of the signed OAuth state parameter. AccountID
// is set when a logged-in user initiates the flow, so the callback can link
// the Fitbit profile to their existing account.
type StateClaims struct {
	AccountID string `json:"account_id,omitempty"`
	Nonce     string `json:"nonce"`
	jwt.RegisteredClaims
}

// Service issues and validates session and OAuth-state tokens.
type Service struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewService creates the auth service. expiresInSeconds controls session
// token lifetime.
func NewService(jwtSecret string, expiresInSeconds int) (*Service, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if expiresInSeconds <= 0 {
		expiresInSeconds = 3600
	}
	return &Service{
		secret:     []byte(jwtSecret),
		sessionTTL: time.Duration(expiresInSeconds) * time.Second,
	}, nil
}

// SessionTTL returns the configured session token lifetime.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// GenerateSessionToken creates a signed session token for the given account.
func (s *Service) GenerateSessionToken(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		AccountID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSessionToken parses a session token and returns the account id.
func (s *Service) ValidateSessionToken(tokenString string) (uuid.UUID, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return uuid.Nil, apperrors.ErrInvalidSessionToken
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidSessionToken
	}
	return accountID, nil
}

// GenerateStateToken creates the signed OAuth state parameter. accountID may
// be uuid.Nil for anonymous authorization starts.
func (s *Service) GenerateStateToken(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &StateClaims{
		Nonce: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}
	if accountID != uuid.Nil {
		claims.AccountID = accountID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateStateToken verifies the OAuth state parameter and returns the
// initiating account id, or uuid.Nil for anonymous flows.
func (s *Service) ValidateStateToken(tokenString string) (uuid.UUID, error) {
	claims := &StateClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return uuid.Nil, apperrors.ErrInvalidStateToken
	}
	if claims.AccountID == "" {
		return uuid.Nil, nil
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidStateToken
	}
	return accountID, nil
}

func (s *Service) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
