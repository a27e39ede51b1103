// Package setting provides CRUD operations for building-wide settings.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to read/write a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting value by key, falling back to the given default
// when the key has never been written.
func Get(db *gorm.DB, key, defaultValue string) (string, error) {
	if db == nil {
		return defaultValue, ErrDBNil
	}
	if key == "" {
		return defaultValue, ErrSettingKeyEmpty
	}

	var s models.Setting
	result := db.Where(keyQueryPattern, key).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return defaultValue, nil
		}
		return defaultValue, result.Error
	}

	return s.Value, nil
}

// Set creates or updates a setting by key (idempotent upsert). The write is
// committed immediately.
func Set(db *gorm.DB, key, value string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var s models.Setting
	result := db.Where(keyQueryPattern, key).First(&s)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		s = models.Setting{Key: key, Value: value}
		if createResult := db.Create(&s); createResult.Error != nil {
			return nil, createResult.Error
		}

		return &s, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	s.Value = value
	result = db.Save(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	return &s, nil
}

// Count returns the number of stored settings. Used at startup to decide
// whether the defaults need seeding.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Setting{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
