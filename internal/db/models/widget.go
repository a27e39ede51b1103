package models

import (
	"encoding/json"
)

// Sidebar placement slots for widgets.
const (
	// SidebarLeft places the widget in the left sidebar.
	SidebarLeft = "left"
	// SidebarRight places the widget in the right sidebar.
	SidebarRight = "right"
	// SidebarUnused parks the widget without displaying it.
	SidebarUnused = "unused"
)

// Widget represents a sidebar panel of a given type (events, news,
// announcements, cleaning, traffic, ticker, weather) with type-specific JSON
// preferences. The registry treats the preferences as an opaque document;
// only display-side rendering interprets them per widget type.
type Widget struct {
	ID         uint64 `gorm:"primaryKey"`
	WidgetType string `gorm:"size:50;not null"`
	Sidebar    string `gorm:"size:10;default:left"`
	SortOrder  int    `gorm:"column:sort_order;default:0"`
	Enabled    bool   `gorm:"default:true"`
	// Preferences holds the raw JSON preference document.
	Preferences string `gorm:"type:text;default:'{}'"`
}

// PreferencesMap decodes the preference document. A corrupt document decodes
// to an empty map rather than failing the caller.
func (w *Widget) PreferencesMap() map[string]any {
	var prefs map[string]any
	if err := json.Unmarshal([]byte(w.Preferences), &prefs); err != nil || prefs == nil {
		return map[string]any{}
	}

	return prefs
}

// SetPreferences replaces the full preference document. No deep merge.
func (w *Widget) SetPreferences(prefs map[string]any) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	w.Preferences = string(data)

	return nil
}

// MarshalJSON emits the widget with its preference document decoded to an
// object, matching what display clients consume.
func (w Widget) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          uint64         `json:"id"`
		WidgetType  string         `json:"widget_type"`
		Sidebar     string         `json:"sidebar"`
		SortOrder   int            `json:"order"`
		Enabled     bool           `json:"enabled"`
		Preferences map[string]any `json:"preferences"`
	}{
		ID:          w.ID,
		WidgetType:  w.WidgetType,
		Sidebar:     w.Sidebar,
		SortOrder:   w.SortOrder,
		Enabled:     w.Enabled,
		Preferences: w.PreferencesMap(),
	})
}
