// Package settings provides the admin REST API for building-wide settings.
package settings

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
	"github.com/lobbyboard/lobbyboard/internal/display"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Path is the base path of the settings API.
const Path = "/api/settings"

// Service is the settings handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Put(handler.RootPath, s.Put)
	})
}

// Get returns the typed settings snapshot.
func (s *Service) Get(c *fiber.Ctx) error {
	snapshot, err := display.Snapshot(s.db, false)
	if err != nil {
		log.Error().Err(err).Msg("failed to read settings snapshot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(snapshot)
}

// Put bulk-upserts settings. Every value is stored as a string; typed
// interpretation happens on read through the schema.
func (s *Service) Put(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid settings payload"})
	}

	for key, value := range body {
		if _, err := setting.Set(s.db, key, stringify(value)); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to store setting")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

// stringify converts a decoded JSON value to its stored string form.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
