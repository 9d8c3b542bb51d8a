package service

import (
	"errors"

	"fitness-tracker-backend/internal/auth"
	"fitness-tracker-backend/internal/database/models"
	apperrors "fitness-tracker-backend/internal/errors"
	"fitness-tracker-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the payload for local account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// LoginRequest is the payload for local login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse is the caller-facing account summary.
type AccountResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username,omitempty"`
	CreatedAt       string    `json:"created_at"`
	FitbitConnected bool      `json:"fitbit_connected"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Account     AccountResponse `json:"account"`
}

// UserServiceInterface defines local account operations.
type UserServiceInterface interface {
	Register(req *RegisterRequest) (*SessionResponse, error)
	Login(req *LoginRequest) (*SessionResponse, error)
	GetByID(id uuid.UUID) (*AccountResponse, error)
}

// UserService implements local registration and login on top of the shared
// accounts table. It is unrelated to the Fitbit OAuth flow; local accounts
// synthesize their provider identity as "local:<username>".
type UserService struct {
	accountRepo *repository.AccountRepository
	tokenRepo   *repository.TokenRepository
	authService *auth.Service
	validator   *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(
	accountRepo *repository.AccountRepository,
	tokenRepo *repository.TokenRepository,
	authService *auth.Service,
	validate *validator.Validate,
) *UserService {
	return &UserService{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		authService: authService,
		validator:   validate,
	}
}

// Register creates a local account with a bcrypt-hashed password and returns
// a session token.
func (s *UserService) Register(req *RegisterRequest) (*SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	if _, err := s.accountRepo.GetByUsername(req.Username); err == nil {
		return nil, apperrors.ErrUsernameExists
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		FitbitUserID: "local:" + req.Username,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	return s.sessionFor(account)
}

// Login verifies local credentials and returns a session token.
func (s *UserService) Login(req *LoginRequest) (*SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	account, err := s.accountRepo.GetByUsername(req.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.sessionFor(account)
}

// GetByID returns the account summary including Fitbit connection status.
func (s *UserService) GetByID(id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	resp, err := s.accountResponse(account)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *UserService) sessionFor(account *models.Account) (*SessionResponse, error) {
	token, err := s.authService.GenerateSessionToken(account.ID)
	if err != nil {
		return nil, err
	}
	accountResp, err := s.accountResponse(account)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.authService.SessionTTL().Seconds()),
		Account:     *accountResp,
	}, nil
}

func (s *UserService) accountResponse(account *models.Account) (*AccountResponse, error) {
	connected, err := s.tokenRepo.HasTokens(account.ID)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return nil, err
	}
	return &AccountResponse{
		ID:              account.ID,
		Username:        account.Username,
		CreatedAt:       account.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		FitbitConnected: connected,
	}, nil
}
