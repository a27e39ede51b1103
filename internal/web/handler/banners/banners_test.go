package banners

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/banner"
	"github.com/lobbyboard/lobbyboard/internal/db/models"
	"github.com/lobbyboard/lobbyboard/internal/mediastore"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Banner{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupTestService(t *testing.T) (*fiber.App, *gorm.DB, *mediastore.Store) {
	t.Helper()

	db := setupTestDB(t)

	store, err := mediastore.New(t.TempDir())
	require.NoError(t, err)

	app := fiber.New()

	svc := Service{}
	svc.Init(app, &config.Config{Title: "Test Building"}, db, store)

	return app, db, store
}

// multipartUpload builds a multipart request body with a single "file" part.
func multipartUpload(t *testing.T, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func TestUpload(t *testing.T) {
	app, _, store := setupTestService(t)

	body, contentType := multipartUpload(t, "lobby.png", []byte("not-a-real-png"))

	req := httptest.NewRequest(http.MethodPost, Path, body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Banner
	decodeJSON(t, resp, &created)

	// first upload lands at rotation position 1
	assert.Equal(t, 1, created.SortOrder)
	assert.True(t, created.Active)
	assert.False(t, created.Archived)
	assert.Equal(t, "lobby.png", created.OriginalName)
	assert.NotEqual(t, "lobby.png", created.Filename)
	assert.True(t, strings.HasSuffix(created.Filename, ".png"))
	assert.True(t, store.Exists(created.Filename))
}

func TestUploadAppendsToRotation(t *testing.T) {
	app, _, _ := setupTestService(t)

	for i, expected := range []int{1, 2, 3} {
		body, contentType := multipartUpload(t, "clip.mp4", []byte{byte(i)})

		req := httptest.NewRequest(http.MethodPost, Path, body)
		req.Header.Set(fiber.HeaderContentType, contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var created models.Banner
		decodeJSON(t, resp, &created)
		assert.Equal(t, expected, created.SortOrder)
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	app, db, _ := setupTestService(t)

	body, contentType := multipartUpload(t, "malware.exe", []byte("MZ"))

	req := httptest.NewRequest(http.MethodPost, Path, body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	decodeJSON(t, resp, &payload)
	assert.Equal(t, "Invalid file type", payload["error"])

	banners, err := banner.List(db, true)
	require.NoError(t, err)
	assert.Empty(t, banners)
}

func TestUploadWithoutFile(t *testing.T) {
	app, _, _ := setupTestService(t)

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(""))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	decodeJSON(t, resp, &payload)
	assert.Equal(t, "No file provided", payload["error"])
}

func TestListHidesArchivedByDefault(t *testing.T) {
	app, db, _ := setupTestService(t)

	require.NoError(t, db.Create(&models.Banner{Filename: "a.png", Active: true, SortOrder: 1}).Error)
	require.NoError(t, db.Create(&models.Banner{Filename: "b.png", Active: true, Archived: true, SortOrder: 2}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var banners []models.Banner
	decodeJSON(t, resp, &banners)
	require.Len(t, banners, 1)
	assert.Equal(t, "a.png", banners[0].Filename)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, Path+"?archived=true", nil))
	require.NoError(t, err)

	decodeJSON(t, resp, &banners)
	assert.Len(t, banners, 2)
}

func TestPatch(t *testing.T) {
	app, db, _ := setupTestService(t)

	require.NoError(t, db.Create(&models.Banner{Filename: "a.png", Active: true, SortOrder: 1}).Error)

	req := httptest.NewRequest(http.MethodPatch, Path+"/1", strings.NewReader(`{"archived":true}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, err := banner.Get(db, 1)
	require.NoError(t, err)
	assert.True(t, b.Archived)
}

func TestPatchUnknownBanner(t *testing.T) {
	app, _, _ := setupTestService(t)

	req := httptest.NewRequest(http.MethodPatch, Path+"/999", strings.NewReader(`{"active":false}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReorder(t *testing.T) {
	app, db, _ := setupTestService(t)

	require.NoError(t, db.Create(&models.Banner{Filename: "a.png", SortOrder: 1}).Error)
	require.NoError(t, db.Create(&models.Banner{Filename: "b.png", SortOrder: 2}).Error)

	req := httptest.NewRequest(http.MethodPost, Path+"/reorder",
		strings.NewReader(`[{"id":1,"order":2},{"id":2,"order":1}]`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	banners, err := banner.List(db, true)
	require.NoError(t, err)
	require.Len(t, banners, 2)
	assert.Equal(t, "b.png", banners[0].Filename)
	assert.Equal(t, "a.png", banners[1].Filename)
}

func TestDelete(t *testing.T) {
	app, db, store := setupTestService(t)

	require.NoError(t, store.Save("a.png", []byte("blob")))
	require.NoError(t, db.Create(&models.Banner{Filename: "a.png", SortOrder: 1}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, Path+"/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.False(t, store.Exists("a.png"))

	_, err = banner.Get(db, 1)
	require.ErrorIs(t, err, banner.ErrBannerNotFound)

	// a second delete of the same banner is a 404
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, Path+"/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
