// Package banner provides CRUD operations for the banner media registry.
package banner

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/models"
)

var (
	// ErrBannerNotFound is returned when a banner is not found.
	ErrBannerNotFound = errors.New("banner not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// OrderUpdate carries one entry of a bulk reorder payload.
type OrderUpdate struct {
	ID        uint64 `json:"id"`
	SortOrder int    `json:"order"`
}

// UpdateFields carries a partial banner update. Nil fields are untouched.
type UpdateFields struct {
	Active    *bool `json:"active"`
	Archived  *bool `json:"archived"`
	SortOrder *int  `json:"order"`
}

// List returns banners sorted by sort order ascending. Archived banners are
// filtered out unless includeArchived is set.
func List(db *gorm.DB, includeArchived bool) ([]models.Banner, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Model(&models.Banner{})
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	var banners []models.Banner
	result := query.Order("sort_order").Find(&banners)
	if result.Error != nil {
		return nil, result.Error
	}

	return banners, nil
}

// ListDisplayable returns active, non-archived banners sorted by sort order.
// This is the set display clients are allowed to see.
func ListDisplayable(db *gorm.DB) ([]models.Banner, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var banners []models.Banner
	result := db.
		Where("active = ? AND archived = ?", true, false).
		Order("sort_order").
		Find(&banners)
	if result.Error != nil {
		return nil, result.Error
	}

	return banners, nil
}

// Get retrieves a banner by ID.
func Get(db *gorm.DB, id uint64) (*models.Banner, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.Banner
	result := db.First(&b, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, result.Error
	}

	return &b, nil
}

// Create inserts a freshly uploaded banner at the end of the rotation:
// sort order is the current maximum plus one, active and not archived.
func Create(db *gorm.DB, filename, originalName string) (*models.Banner, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var maxOrder int
	row := db.Model(&models.Banner{}).Select("COALESCE(MAX(sort_order), 0)").Row()
	if err := row.Scan(&maxOrder); err != nil {
		return nil, err
	}

	b := models.Banner{
		Filename:     filename,
		OriginalName: originalName,
		Active:       true,
		Archived:     false,
		SortOrder:    maxOrder + 1,
	}

	result := db.Create(&b)
	if result.Error != nil {
		return nil, result.Error
	}

	return &b, nil
}

// Update applies a partial field update to an existing banner.
func Update(db *gorm.DB, id uint64, fields UpdateFields) (*models.Banner, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	b, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if fields.Active != nil {
		updates["active"] = *fields.Active
	}
	if fields.Archived != nil {
		updates["archived"] = *fields.Archived
	}
	if fields.SortOrder != nil {
		updates["sort_order"] = *fields.SortOrder
	}

	if len(updates) > 0 {
		if result := db.Model(b).Updates(updates); result.Error != nil {
			return nil, result.Error
		}
	}

	return b, nil
}

// Reorder applies the given sort order values in a single transaction.
// Unknown IDs are silently skipped; last write wins per row.
func Reorder(db *gorm.DB, updates []OrderUpdate) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			result := tx.Model(&models.Banner{}).
				Where("id = ?", update.ID).
				Update("sort_order", update.SortOrder)
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
}

// Delete removes the banner row. The caller is responsible for removing the
// backing media blob first.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Banner{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBannerNotFound
	}

	return nil
}
