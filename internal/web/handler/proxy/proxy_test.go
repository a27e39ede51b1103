package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
	"github.com/lobbyboard/lobbyboard/internal/db/models"
	"github.com/lobbyboard/lobbyboard/internal/display"
	"github.com/lobbyboard/lobbyboard/internal/feedproxy"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupTestService(t *testing.T) (*fiber.App, *gorm.DB, *feedproxy.AlertService) {
	t.Helper()

	db := setupTestDB(t)
	alerts := feedproxy.NewAlertService(db)
	app := fiber.New()

	svc := Service{}
	svc.Init(app, &config.Config{Title: "Test Building"}, db, alerts)

	return app, db, alerts
}

func TestICalRelay(t *testing.T) {
	app, _, _ := setupTestService(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, "BEGIN:VCALENDAR\nEND:VCALENDAR\n")
	}))
	defer upstream.Close()

	target := Path + "/ical?url=" + url.QueryEscape(upstream.URL)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/calendar; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")
}

func TestRSSRelay(t *testing.T) {
	app, _, _ := setupTestService(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<rss/>")
	}))
	defer upstream.Close()

	target := Path + "/rss?url=" + url.QueryEscape(upstream.URL)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
}

func TestRelayRequiresURL(t *testing.T) {
	app, _, _ := setupTestService(t)

	for _, path := range []string{Path + "/ical", Path + "/rss"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "URL parameter required", payload["error"])
	}
}

func TestRelaySurfacesUpstreamFailure(t *testing.T) {
	app, _, _ := setupTestService(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	target := Path + "/ical?url=" + url.QueryEscape(upstream.URL)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestAlertsRelay(t *testing.T) {
	app, _, alerts := setupTestService(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// upstream prefixes the payload with a UTF-8 BOM
		_, _ = w.Write([]byte("\xEF\xBB\xBF{\"cat\":\"1\"}"))
	}))
	defer upstream.Close()
	alerts.URL = upstream.URL

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path+"/alerts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cat":"1"}`, string(body))
}

func TestAlertsSwallowUpstreamFailure(t *testing.T) {
	app, _, alerts := setupTestService(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()
	alerts.URL = upstream.URL

	// a dead alert feed reads as "no alert", never as an error
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path+"/alerts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(body))
}

func TestAlertsTestOverride(t *testing.T) {
	app, db, alerts := setupTestService(t)

	// no upstream at all: the synthetic alert must not touch the network
	alerts.URL = "http://127.0.0.1:0"

	_, err := setting.Set(db, display.KeyTestAlert, "true")
	require.NoError(t, err)
	_, err = setting.Set(db, display.KeyAlertZones, "חדרה, פרדס חנה")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path+"/alerts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, true, payload["is_test"])
	assert.Equal(t, []any{"חדרה"}, payload["data"])
	assert.Equal(t, "בדיקה בלבד", payload["title"])
}
