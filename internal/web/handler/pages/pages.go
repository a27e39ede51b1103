// Package pages serves the display and admin HTML pages.
package pages

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Service is the page handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the page handler.
var Handler = Service{}

// Init initializes the page handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	app.Get("/", s.Display)
	app.Get("/admin", s.Admin)
}

// Display renders the lobby display page.
func (s *Service) Display(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{"Title": s.cfg.Title})
}

// Admin renders the admin page.
func (s *Service) Admin(c *fiber.Ctx) error {
	return c.Render("admin", fiber.Map{"Title": s.cfg.Title})
}
