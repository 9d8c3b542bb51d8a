package repository

import (
	"errors"

	"fitness-tracker-backend/internal/database/models"
	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account row.
func (r *AccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByID returns the account with the given id.
func (r *AccountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByFitbitUserID returns the account owning the given provider identity.
func (r *AccountRepository) GetByFitbitUserID(fitbitUserID string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "fitbit_user_id = ?", fitbitUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByUsername returns the locally registered account with the given username.
func (r *AccountRepository) GetByUsername(username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SetFitbitUserID re-keys an account to a real provider identity after a
// logged-in local user completes the OAuth flow.
func (r *AccountRepository) SetFitbitUserID(id uuid.UUID, fitbitUserID string) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).
		Update("fitbit_user_id", fitbitUserID).Error
}

// Delete removes an account; associated token rows cascade.
func (r *AccountRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Account{}, "id = ?", id).Error
}
