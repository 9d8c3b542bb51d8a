package testutils

import (
	"fmt"
	"testing"

	"fitness-tracker-backend/internal/database/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a unique in-memory SQLite database with the full schema
// migrated. Each call returns an isolated database; the shared-cache DSN
// keeps all pooled connections on the same in-memory instance.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.FitbitToken{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// NewAccount inserts an account row with a fresh id.
func NewAccount(t *testing.T, db *gorm.DB, fitbitUserID string) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:           uuid.New(),
		FitbitUserID: fitbitUserID,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to insert test account: %v", err)
	}
	return account
}
