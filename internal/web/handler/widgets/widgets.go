// Package widgets provides the admin REST API for the sidebar widget
// registry.
package widgets

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/widget"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Path is the base path of the widgets API.
const Path = "/api/widgets"

// Service is the widgets handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the widgets handler.
var Handler = Service{}

// Init initializes the widgets handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Post("/reorder", s.Reorder)
		router.Patch("/:id", s.Patch)
	})
}

// List returns all widgets sorted by (sidebar, order).
func (s *Service) List(c *fiber.Ctx) error {
	widgets, err := widget.List(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list widgets")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(widgets)
}

// Patch applies a partial field update to one widget.
func (s *Service) Patch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "widget not found"})
	}

	var fields widget.UpdateFields
	if err = c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid patch payload"})
	}

	if err = s.validator.Struct(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := widget.Update(s.db, id, fields)
	if err != nil {
		if errors.Is(err, widget.ErrWidgetNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "widget not found"})
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to update widget")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(updated)
}

// Reorder applies a bulk sidebar/order update.
func (s *Service) Reorder(c *fiber.Ctx) error {
	var updates []widget.OrderUpdate
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reorder payload"})
	}

	for i := range updates {
		if err := s.validator.Struct(&updates[i]); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if err := widget.Reorder(s.db, updates); err != nil {
		log.Error().Err(err).Msg("failed to reorder widgets")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}
