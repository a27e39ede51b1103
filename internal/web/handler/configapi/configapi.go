// Package configapi serves the composed configuration payload to display
// clients and tracks their presence.
package configapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/client"
	"github.com/lobbyboard/lobbyboard/internal/display"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Path is the path of the display configuration endpoint.
const Path = "/api/config"

// Service is the configuration handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the configuration handler.
var Handler = Service{}

// Init initializes the configuration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)
}

// Get returns the full composed configuration. Fetching it marks the caller
// as a connected display; presence failures never fail the request.
func (s *Service) Get(c *fiber.Ctx) error {
	if err := client.Touch(s.db, clientIP(c)); err != nil {
		log.Error().Err(err).Msg("error tracking client")
	}

	cfg, err := display.Compose(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to compose display configuration")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(cfg)
}

// clientIP resolves the display's address: first entry of a comma-separated
// forwarded-for header, else the direct remote address.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}

	return c.IP()
}
