package widget

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Widget{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedWidget(t *testing.T, db *gorm.DB, widgetType, sidebar string, order int) *models.Widget {
	t.Helper()

	w := models.Widget{
		WidgetType:  widgetType,
		Sidebar:     sidebar,
		SortOrder:   order,
		Enabled:     true,
		Preferences: "{}",
	}
	require.NoError(t, db.Create(&w).Error)

	return &w
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestListOrdering(t *testing.T) {
	db := setupTestDB(t)

	seedWidget(t, db, "news", models.SidebarLeft, 1)
	seedWidget(t, db, "events", models.SidebarLeft, 0)
	seedWidget(t, db, "announcements", models.SidebarRight, 0)

	widgets, err := List(db)
	require.NoError(t, err)
	require.Len(t, widgets, 3)

	// sorted by (sidebar, order)
	assert.Equal(t, "events", widgets[0].WidgetType)
	assert.Equal(t, "news", widgets[1].WidgetType)
	assert.Equal(t, "announcements", widgets[2].WidgetType)
}

func TestListEnabled(t *testing.T) {
	db := setupTestDB(t)

	seedWidget(t, db, "events", models.SidebarLeft, 0)
	disabled := seedWidget(t, db, "news", models.SidebarLeft, 1)

	_, err := Update(db, disabled.ID, UpdateFields{Enabled: boolPtr(false)})
	require.NoError(t, err)

	widgets, err := ListEnabled(db)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, "events", widgets[0].WidgetType)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	w := seedWidget(t, db, "events", models.SidebarLeft, 0)

	testCases := []struct {
		name          string
		id            uint64
		fields        UpdateFields
		expectedError error
		check         func(t *testing.T, w *models.Widget)
	}{
		{
			name:          "unknown id",
			id:            9999,
			fields:        UpdateFields{Enabled: boolPtr(false)},
			expectedError: ErrWidgetNotFound,
		},
		{
			name:   "move to other sidebar",
			id:     w.ID,
			fields: UpdateFields{Sidebar: strPtr(models.SidebarRight), SortOrder: intPtr(3)},
			check: func(t *testing.T, w *models.Widget) {
				t.Helper()
				assert.Equal(t, models.SidebarRight, w.Sidebar)
				assert.Equal(t, 3, w.SortOrder)
				assert.True(t, w.Enabled)
			},
		},
		{
			name: "preferences replaced wholesale",
			id:   w.ID,
			fields: UpdateFields{
				Preferences: &map[string]any{"ical_url": "https://example.com/cal.ics"},
			},
			check: func(t *testing.T, w *models.Widget) {
				t.Helper()
				prefs := w.PreferencesMap()
				assert.Equal(t, "https://example.com/cal.ics", prefs["ical_url"])
				assert.Len(t, prefs, 1)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			updated, err := Update(db, tc.id, tc.fields)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			tc.check(t, updated)
		})
	}
}

func TestReorder(t *testing.T) {
	db := setupTestDB(t)

	events := seedWidget(t, db, "events", models.SidebarLeft, 0)
	news := seedWidget(t, db, "news", models.SidebarLeft, 1)

	err := Reorder(db, []OrderUpdate{
		{ID: events.ID, Sidebar: models.SidebarRight, SortOrder: 1},
		{ID: news.ID, Sidebar: models.SidebarLeft, SortOrder: 0},
		{ID: 9999, Sidebar: models.SidebarLeft, SortOrder: 0},
	})
	require.NoError(t, err)

	moved, err := Get(db, events.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SidebarRight, moved.Sidebar)
	assert.Equal(t, 1, moved.SortOrder)

	kept, err := Get(db, news.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SidebarLeft, kept.Sidebar)
	assert.Equal(t, 0, kept.SortOrder)
}

func TestCountByType(t *testing.T) {
	db := setupTestDB(t)

	count, err := CountByType(db, "traffic")
	require.NoError(t, err)
	assert.Zero(t, count)

	seedWidget(t, db, "traffic", models.SidebarUnused, 0)
	seedWidget(t, db, "events", models.SidebarLeft, 0)

	count, err = CountByType(db, "traffic")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	total, err := Count(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
