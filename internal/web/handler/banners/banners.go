// Package banners provides the admin REST API for the banner media registry.
package banners

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/banner"
	"github.com/lobbyboard/lobbyboard/internal/mediastore"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Path is the base path of the banners API.
const Path = "/api/banners"

// Service is the banners handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store *mediastore.Store
}

// Handler is the banners handler.
var Handler = Service{}

// Init initializes the banners handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, store *mediastore.Store) {
	if app == nil || cfg == nil || db == nil || store == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.store = store

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Post(handler.RootPath, s.Upload)
		router.Post("/reorder", s.Reorder)
		router.Patch("/:id", s.Patch)
		router.Delete("/:id", s.Delete)
	})
}

// List returns the banners sorted by rotation order. Archived banners are
// included only with ?archived=true.
func (s *Service) List(c *fiber.Ctx) error {
	includeArchived := c.Query("archived") == "true"

	banners, err := banner.List(s.db, includeArchived)
	if err != nil {
		log.Error().Err(err).Msg("failed to list banners")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(banners)
}

// Upload stores a new banner media file and appends it to the rotation.
func (s *Service) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}

	if fileHeader.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file selected"})
	}

	key, err := mediastore.NewKey(fileHeader.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file type"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("failed to read banner upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err = s.store.Save(key, data); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to store banner media")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := banner.Create(s.db, key, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to create banner row")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Info().Uint64("id", created.ID).Str("key", key).Msg("banner uploaded")

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Reorder applies a bulk rotation-order update.
func (s *Service) Reorder(c *fiber.Ctx) error {
	var updates []banner.OrderUpdate
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reorder payload"})
	}

	if err := banner.Reorder(s.db, updates); err != nil {
		log.Error().Err(err).Msg("failed to reorder banners")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Patch applies a partial field update to one banner.
func (s *Service) Patch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "banner not found"})
	}

	var fields banner.UpdateFields
	if err = c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid patch payload"})
	}

	updated, err := banner.Update(s.db, id, fields)
	if err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "banner not found"})
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to update banner")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(updated)
}

// Delete removes a banner and its backing media blob.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "banner not found"})
	}

	b, err := banner.Get(s.db, id)
	if err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "banner not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// an already-missing blob is tolerated
	if err = s.store.Remove(b.Filename); err != nil {
		log.Error().Err(err).Str("key", b.Filename).Msg("failed to remove banner media")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err = banner.Delete(s.db, id); err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "banner not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Info().Uint64("id", id).Msg("banner deleted")

	return c.JSON(fiber.Map{"success": true})
}
