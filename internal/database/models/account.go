package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents one connected end-user identity, either linked to a
// Fitbit profile through OAuth or registered locally with a synthesized
// FitbitUserID of the form "local:<username>".
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FitbitUserID string    `json:"fitbit_user_id" gorm:"size:100;uniqueIndex;not null"`
	Username     string    `json:"username,omitempty" gorm:"size:100;uniqueIndex:idx_accounts_username,where:username <> ''"`
	PasswordHash string    `json:"-" gorm:"size:200"`
	CreatedAt    time.Time `json:"created_at"`

	Tokens []FitbitToken `json:"-" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate assigns the primary key; ids are generated application-side so
// the schema works the same on every database.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsLocal reports whether the account was created through local registration
// rather than a Fitbit OAuth callback.
func (a *Account) IsLocal() bool {
	return len(a.FitbitUserID) > 6 && a.FitbitUserID[:6] == "local:"
}
