package feedproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
	"github.com/lobbyboard/lobbyboard/internal/db/models"
	"github.com/lobbyboard/lobbyboard/internal/display"
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

func TestEndpointFetch(t *testing.T) {
	var gotUserAgent string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n"))
	}))
	defer upstream.Close()

	body, err := ICal.Fetch(context.Background(), &http.Client{}, upstream.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")
	assert.Equal(t, "Mozilla/5.0", gotUserAgent)
}

func TestEndpointFetchUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	_, err := RSS.Fetch(context.Background(), &http.Client{}, upstream.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestEndpointFetchTransportError(t *testing.T) {
	_, err := RSS.Fetch(context.Background(), &http.Client{}, "http://127.0.0.1:1/rss")
	require.Error(t, err)
}

func TestAlertFetchHeaders(t *testing.T) {
	db := setupTestDB(t)

	var gotHeader http.Header

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		// BOM-prefixed payload, as the real feed sends
		_, _ = w.Write(append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"id":"77"}`)...))
	}))
	defer upstream.Close()

	svc := NewAlertService(db)
	svc.URL = upstream.URL

	body := svc.Fetch(context.Background())
	assert.JSONEq(t, `{"id":"77"}`, string(body))
	assert.Equal(t, "XMLHttpRequest", gotHeader.Get("X-Requested-With"))
	assert.NotEmpty(t, gotHeader.Get("Referer"))
}

func TestAlertFetchEmptyBodyMeansNoAlert(t *testing.T) {
	db := setupTestDB(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer upstream.Close()

	svc := NewAlertService(db)
	svc.URL = upstream.URL

	assert.JSONEq(t, "{}", string(svc.Fetch(context.Background())))
}

func TestAlertFetchSwallowsFailures(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name string
		url  func() (string, func())
	}{
		{
			name: "upstream 500",
			url: func() (string, func()) {
				upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
				}))
				return upstream.URL, upstream.Close
			},
		},
		{
			name: "unreachable host",
			url: func() (string, func()) {
				return "http://127.0.0.1:1/alerts.json", func() {}
			},
		},
		{
			name: "timeout",
			url: func() (string, func()) {
				upstream := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
					<-r.Context().Done()
				}))
				return upstream.URL, upstream.Close
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			url, closeFn := tc.url()
			defer closeFn()

			svc := NewAlertService(db)
			svc.URL = url

			done := make(chan []byte, 1)
			go func() { done <- svc.Fetch(context.Background()) }()

			select {
			case body := <-done:
				assert.JSONEq(t, "{}", string(body))
			case <-time.After(10 * time.Second):
				t.Fatal("alert fetch did not honour its timeout")
			}
		})
	}
}

func TestTestAlertOverride(t *testing.T) {
	db := setupTestDB(t)

	_, err := setting.Set(db, display.KeyAlertZones, "חדרה, תל אביב")
	require.NoError(t, err)

	svc := NewAlertService(db)
	// unreachable on purpose: the synthetic alert must not touch the network
	svc.URL = "http://127.0.0.1:1/alerts.json"

	require.NoError(t, svc.SetTestAlert(true))

	var payload struct {
		ID     string   `json:"id"`
		Title  string   `json:"title"`
		Data   []string `json:"data"`
		IsTest bool     `json:"is_test"`
	}
	require.NoError(t, json.Unmarshal(svc.Fetch(context.Background()), &payload))

	assert.True(t, payload.IsTest)
	assert.Equal(t, "12345", payload.ID)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "חדרה", payload.Data[0])

	// switching the override off goes back to the (unreachable) feed,
	// which degrades to the empty no-alert object
	require.NoError(t, svc.SetTestAlert(false))
	assert.JSONEq(t, "{}", string(svc.Fetch(context.Background())))
}
