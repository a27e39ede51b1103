package daemon

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/widget"
	"github.com/lobbyboard/lobbyboard/internal/db/models"
	"github.com/lobbyboard/lobbyboard/internal/display"
)

// seed installs default settings and widgets on a fresh database. The
// settings table decides freshness: when it holds any row at all, the
// defaults are assumed to have been installed before.
func seed(db *gorm.DB) {
	count, err := setting.Count(db)
	if err != nil {
		log.Error().Err(err).Msg("failed to check settings for seeding")
		return
	}

	if count > 0 {
		return
	}

	seedDefaultSettings(db)
	seedDefaultWidgets(db)
}

// seedDefaultSettings writes the schema defaults for the keys an admin is
// expected to tune. test_alert and refresh_token stay unwritten until used.
func seedDefaultSettings(db *gorm.DB) {
	keys := []string{
		"building_title",
		"rotation_time",
		"refresh_interval",
		"ticker_rss",
		"ticker_speed",
		"weather_location",
		"weather_days",
	}

	for _, key := range keys {
		if _, err := setting.Set(db, key, display.Default(key)); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to seed default setting")
		}
	}

	log.Info().Int("settings", len(keys)).Msg("seeded default settings")
}

// seedDefaultWidgets applies two independent rules. Rule A: a traffic widget
// must exist, regardless of what else does. Rule B: an empty registry gets
// the full starter set. Both may fire on first run, which can leave two
// traffic widgets with different embed parameters; that matches the historic
// behaviour and stays as-is.
func seedDefaultWidgets(db *gorm.DB) {
	trafficCount, err := widget.CountByType(db, "traffic")
	if err != nil {
		log.Error().Err(err).Msg("failed to check for traffic widget")
		return
	}

	if trafficCount == 0 {
		traffic := models.Widget{
			WidgetType:  "traffic",
			Sidebar:     models.SidebarUnused,
			SortOrder:   0,
			Enabled:     true,
			Preferences: `{"embed_url": "https://embed.waze.com/iframe?zoom=17&lat=32.4344&lon=34.9189&ct=livemap"}`,
		}
		if err := db.Create(&traffic).Error; err != nil {
			log.Error().Err(err).Msg("failed to seed traffic widget")
		}
	}

	total, err := widget.Count(db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count widgets for seeding")
		return
	}

	if total > 0 {
		return
	}

	announcementPrefs, _ := json.Marshal(map[string]any{ //nolint:errcheck
		"messages": []string{
			"מעליות: ביום ג' הקרוב תתבצע תחזוקה תקופתית בין השעות 09:00-11:00.",
			"חניה: דיירים מתבקשים לא לחסום את שער הכניסה. נא להקפיד על חניה במקומות המסומנים בלבד.",
		},
	})

	cleaningPrefs, _ := json.Marshal(map[string]any{ //nolint:errcheck
		"schedule": []map[string]string{
			{"day": "ראשון", "desc": "ניקיון קומות 10–18\nלובי, מעליות, מראות וקומת מינוס"},
			{"day": "שני", "desc": "ניקיון קומות 1–9\nלובי, מעליות, מראות וקומת מינוס"},
			{"day": "שלישי", "desc": "חדרי מדרגות\nפחי אשפה של השטחים המשותפים\nלובי, מעליות, מראות וקומת מינוס"},
			{"day": "רביעי", "desc": "ניקיון קומות 10–18\nלובי, מעליות, מראות וקומת מינוס"},
			{"day": "חמישי", "desc": "ניקיון קומות 1–9\nלובי, מעליות, מראות וקומת מינוס"},
			{"day": "שישי", "desc": "לובי, מעליות, מראות וקומת מינוס\nמעליות מיוחד"},
		},
	})

	defaults := []models.Widget{
		{
			WidgetType:  "events",
			Sidebar:     models.SidebarLeft,
			SortOrder:   0,
			Enabled:     true,
			Preferences: `{"ical_url": "https://calendar.google.com/calendar/ical/26abe10de4934e9fb7d53fc1a3f3743327110dbd5dd1288b15424bbeb05760fa%40group.calendar.google.com/public/basic.ics"}`,
		},
		{
			WidgetType:  "news",
			Sidebar:     models.SidebarLeft,
			SortOrder:   1,
			Enabled:     true,
			Preferences: `{"rss_url": "https://www.ynet.co.il/Integration/StoryRss2.xml"}`,
		},
		{
			WidgetType:  "announcements",
			Sidebar:     models.SidebarRight,
			SortOrder:   0,
			Enabled:     true,
			Preferences: string(announcementPrefs),
		},
		{
			WidgetType:  "cleaning",
			Sidebar:     models.SidebarRight,
			SortOrder:   1,
			Enabled:     true,
			Preferences: string(cleaningPrefs),
		},
		{
			WidgetType:  "traffic",
			Sidebar:     models.SidebarUnused,
			SortOrder:   0,
			Enabled:     true,
			Preferences: `{"embed_url": "https://embed.waze.com/iframe?zoom=15&lat=32.4344&lon=34.9189&ct=livemap"}`,
		},
	}

	if err := db.Create(&defaults).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed default widgets")
		return
	}

	log.Info().Int("widgets", len(defaults)).Msg("seeded default widgets")
}
