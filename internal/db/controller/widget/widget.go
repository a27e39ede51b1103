// Package widget provides CRUD operations for the sidebar widget registry.
package widget

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/models"
)

var (
	// ErrWidgetNotFound is returned when a widget is not found.
	ErrWidgetNotFound = errors.New("widget not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// OrderUpdate carries one entry of a bulk reorder payload. Reordering moves
// widgets between sidebars, so both placement and order are set per ID.
type OrderUpdate struct {
	ID        uint64 `json:"id"`
	Sidebar   string `json:"sidebar" validate:"oneof=left right unused"`
	SortOrder int    `json:"order"`
}

// UpdateFields carries a partial widget update. Nil fields are untouched.
// Preferences replaces the full document, no deep merge.
type UpdateFields struct {
	Sidebar     *string         `json:"sidebar" validate:"omitempty,oneof=left right unused"`
	SortOrder   *int            `json:"order"`
	Enabled     *bool           `json:"enabled"`
	Preferences *map[string]any `json:"preferences"`
}

// List returns all widgets sorted by (sidebar, sort order).
func List(db *gorm.DB) ([]models.Widget, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var widgets []models.Widget
	result := db.Order("sidebar, sort_order").Find(&widgets)
	if result.Error != nil {
		return nil, result.Error
	}

	return widgets, nil
}

// ListEnabled returns enabled widgets sorted by (sidebar, sort order).
func ListEnabled(db *gorm.DB) ([]models.Widget, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var widgets []models.Widget
	result := db.Where("enabled = ?", true).Order("sidebar, sort_order").Find(&widgets)
	if result.Error != nil {
		return nil, result.Error
	}

	return widgets, nil
}

// Get retrieves a widget by ID.
func Get(db *gorm.DB, id uint64) (*models.Widget, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var w models.Widget
	result := db.First(&w, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrWidgetNotFound
		}
		return nil, result.Error
	}

	return &w, nil
}

// CountByType returns how many widgets exist with the given widget type.
func CountByType(db *gorm.DB, widgetType string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Widget{}).Where("widget_type = ?", widgetType).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Count returns the total number of widgets.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Widget{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Update applies a partial field update to an existing widget.
func Update(db *gorm.DB, id uint64, fields UpdateFields) (*models.Widget, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	w, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if fields.Sidebar != nil {
		updates["sidebar"] = *fields.Sidebar
	}
	if fields.SortOrder != nil {
		updates["sort_order"] = *fields.SortOrder
	}
	if fields.Enabled != nil {
		updates["enabled"] = *fields.Enabled
	}
	if fields.Preferences != nil {
		if err := w.SetPreferences(*fields.Preferences); err != nil {
			return nil, err
		}
		updates["preferences"] = w.Preferences
	}

	if len(updates) > 0 {
		if result := db.Model(w).Updates(updates); result.Error != nil {
			return nil, result.Error
		}
	}

	return w, nil
}

// Reorder applies sidebar and sort order per ID in a single transaction.
// Unknown IDs are silently skipped; last write wins per row.
func Reorder(db *gorm.DB, updates []OrderUpdate) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			result := tx.Model(&models.Widget{}).
				Where("id = ?", update.ID).
				Updates(map[string]any{
					"sidebar":    update.Sidebar,
					"sort_order": update.SortOrder,
				})
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
}
