package repository

import (
	"errors"

	"fitness-tracker-backend/internal/auth"
	"fitness-tracker-backend/internal/database/models"
	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository handles database operations for issued Fitbit token pairs.
// The table is an append-only history: a refresh inserts a new row and the
// latest row per account is treated as current. Token columns are stored
// encrypted (AES-256-GCM, enc:v1: prefix).
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create encrypts and inserts a new token row. Existing rows are never
// updated in place; superseded pairs are retained for auditing.
func (r *TokenRepository) Create(token *models.FitbitToken) error {
	encAccess, err := auth.EncryptToken(token.AccessToken)
	if err != nil {
		return err
	}
	encRefresh, err := auth.EncryptToken(token.RefreshToken)
	if err != nil {
		return err
	}
	row := *token
	row.AccessToken = encAccess
	row.RefreshToken = encRefresh
	if err := r.db.Create(&row).Error; err != nil {
		return err
	}
	token.ID = row.ID
	token.CreatedAt = row.CreatedAt
	return nil
}

// GetLatestByAccountID returns the most recently inserted token pair for the
// account, decrypted.
func (r *TokenRepository) GetLatestByAccountID(accountID uuid.UUID) (*models.FitbitToken, error) {
	var token models.FitbitToken
	if err := r.db.Where("account_id = ?", accountID).
		Order("id DESC").First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, err
	}

	access, err := auth.DecryptToken(token.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.DecryptToken(token.RefreshToken)
	if err != nil {
		return nil, err
	}
	token.AccessToken = access
	token.RefreshToken = refresh
	return &token, nil
}

// CountByAccountID returns the number of token rows held for an account.
func (r *TokenRepository) CountByAccountID(accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.FitbitToken{}).
		Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// HasTokens reports whether the account has completed Fitbit authorization.
func (r *TokenRepository) HasTokens(accountID uuid.UUID) (bool, error) {
	count, err := r.CountByAccountID(accountID)
	return count > 0, err
}
