// Package display composes the configuration payload consumed by display
// clients and defines the typed schema over the string-only setting store.
package display

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
)

// Setting keys used across the service.
const (
	// KeyAlertZones holds the comma-separated alert zones of the building.
	KeyAlertZones = "alert_zones"
	// KeyRefreshToken holds the opaque token display clients poll to detect
	// a forced reload.
	KeyRefreshToken = "refresh_token"
	// KeyTestAlert holds the admin test-alert override flag ("true"/"false").
	KeyTestAlert = "test_alert"
)

// Kind is the coercion type of a setting value.
type Kind int

const (
	// KindString keeps the stored value as-is.
	KindString Kind = iota
	// KindInt parses the stored value as an integer.
	KindInt
)

// Definition describes one entry of the typed settings schema. The store
// itself stays string-only; all coercion happens here.
type Definition struct {
	Key     string
	Kind    Kind
	Default string
	// ConfigOnly entries appear in the composed display payload but not in
	// the admin settings snapshot.
	ConfigOnly bool
}

// Schema is the fixed set of building-wide settings with their defaults.
var Schema = []Definition{
	{Key: "building_title", Kind: KindString, Default: "שניר 4 חדרה"},
	{Key: "rotation_time", Kind: KindInt, Default: "8000"},
	{Key: "refresh_interval", Kind: KindInt, Default: "10"},
	{Key: "weather_location", Kind: KindString, Default: "32.4344,34.9189"},
	{Key: "weather_days", Kind: KindInt, Default: "3"},
	{Key: "ticker_rss", Kind: KindString, Default: "https://www.ynet.co.il/Integration/StoryRss1854.xml"},
	{Key: "ticker_speed", Kind: KindInt, Default: "240"},
	{Key: KeyAlertZones, Kind: KindString, Default: "חדרה"},
	{Key: KeyTestAlert, Kind: KindString, Default: "false"},
	{Key: KeyRefreshToken, Kind: KindString, Default: "", ConfigOnly: true},
}

// Default returns the schema default for the given key, or an empty string
// for keys outside the schema.
func Default(key string) string {
	for _, def := range Schema {
		if def.Key == key {
			return def.Default
		}
	}

	return ""
}

// Snapshot reads the full typed settings snapshot. ConfigOnly entries are
// included only when requested.
func Snapshot(db *gorm.DB, includeConfigOnly bool) (map[string]any, error) {
	snapshot := make(map[string]any, len(Schema))

	for _, def := range Schema {
		if def.ConfigOnly && !includeConfigOnly {
			continue
		}

		value, err := setting.Get(db, def.Key, def.Default)
		if err != nil {
			return nil, err
		}

		snapshot[def.Key] = coerce(def, value)
	}

	return snapshot, nil
}

// coerce converts a stored string value per the schema kind. An unparsable
// value falls back to the schema default.
func coerce(def Definition, value string) any {
	if def.Kind != KindInt {
		return value
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		n, _ = strconv.Atoi(def.Default)
	}

	return n
}
