// Package client tracks display-client presence. A client counts as
// connected while its last configuration fetch falls within the trailing
// activity window.
package client

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/models"
)

// ActiveWindow is the trailing window within which a client counts as
// connected.
const ActiveWindow = 2 * time.Minute

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Touch upserts the client's last-seen timestamp to now.
func Touch(db *gorm.DB, ipAddress string) error {
	if db == nil {
		return ErrDBNil
	}
	if ipAddress == "" {
		return nil
	}

	var c models.ConnectedClient
	result := db.First(&c, "ip_address = ?", ipAddress)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c = models.ConnectedClient{IPAddress: ipAddress, LastSeen: time.Now().UTC()}
		return db.Create(&c).Error
	}
	if result.Error != nil {
		return result.Error
	}

	c.LastSeen = time.Now().UTC()

	return db.Save(&c).Error
}

// ActiveCount counts clients seen within the given trailing window.
func ActiveCount(db *gorm.DB, window time.Duration) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	threshold := time.Now().UTC().Add(-window)

	var count int64
	result := db.Model(&models.ConnectedClient{}).
		Where("last_seen >= ?", threshold).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// ResetAll clears the whole presence set. Called once at process startup;
// presence is not meant to survive restarts.
func ResetAll(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where("1 = 1").Delete(&models.ConnectedClient{}).Error
}
