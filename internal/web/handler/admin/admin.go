// Package admin provides the administrative actions: test-alert override,
// connected-client count and forced display refresh.
package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/client"
	"github.com/lobbyboard/lobbyboard/internal/display"
	"github.com/lobbyboard/lobbyboard/internal/feedproxy"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Path is the base path of the admin API.
const Path = "/api/admin"

// Service is the admin handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	alerts *feedproxy.AlertService
}

// Handler is the admin handler.
var Handler = Service{}

// Init initializes the admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, alerts *feedproxy.AlertService) {
	if app == nil || cfg == nil || db == nil || alerts == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.alerts = alerts

	app.Route(Path, func(router fiber.Router) {
		router.Post("/trigger-alert", s.TriggerAlert)
		router.Get("/clients", s.Clients)
		router.Post("/trigger-refresh", s.TriggerRefresh)
	})
}

// TriggerAlert toggles the synthetic test alert.
func (s *Service) TriggerAlert(c *fiber.Ctx) error {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := s.alerts.SetTestAlert(body.Active); err != nil {
		log.Error().Err(err).Msg("failed to set test alert flag")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Info().Bool("active", body.Active).Msg("test alert toggled")

	return c.JSON(fiber.Map{"success": true})
}

// Clients reports how many display clients fetched the configuration within
// the activity window.
func (s *Service) Clients(c *fiber.Ctx) error {
	count, err := client.ActiveCount(s.db, client.ActiveWindow)
	if err != nil {
		log.Error().Err(err).Msg("failed to count connected clients")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"count": count})
}

// TriggerRefresh rotates the refresh token, forcing all displays to reload.
func (s *Service) TriggerRefresh(c *fiber.Ctx) error {
	token, err := display.TriggerRefresh(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to trigger refresh")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Info().Msg("display refresh triggered")

	return c.JSON(fiber.Map{"success": true, "token": token})
}
