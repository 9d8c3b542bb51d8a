package models

import (
	"time"

	"github.com/google/uuid"
)

// FitbitToken is one issued OAuth token pair. Rows are append-only: every
// refresh inserts a new row and the highest ID for an account is the current
// pair. Access and refresh tokens are stored encrypted (enc:v1: scheme).
type FitbitToken struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	AccountID    uuid.UUID `json:"account_id" gorm:"type:uuid;index;not null"`
	AccessToken  string    `json:"-" gorm:"not null"`
	RefreshToken string    `json:"-" gorm:"not null"`
	Scope        string    `json:"scope" gorm:"size:200"`
	ExpiresIn    int       `json:"expires_in"`
	TokenType    string    `json:"token_type" gorm:"size:50"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for FitbitToken
func (FitbitToken) TableName() string {
	return "fitbit_tokens"
}
