// Package proxy relays external iCal, RSS and alert feeds to display
// clients, working around their cross-origin fetch restrictions.
package proxy

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/feedproxy"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// Path is the base path of the proxy API.
const Path = "/api/proxy"

// Service is the proxy handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	client *http.Client
	alerts *feedproxy.AlertService
}

// Handler is the proxy handler.
var Handler = Service{}

// Init initializes the proxy handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, alerts *feedproxy.AlertService) {
	if app == nil || cfg == nil || db == nil || alerts == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.client = &http.Client{}
	s.alerts = alerts

	app.Route(Path, func(router fiber.Router) {
		router.Get("/ical", s.ICal)
		router.Get("/rss", s.RSS)
		router.Get("/alerts", s.Alerts)
	})
}

// ICal relays a calendar feed. Upstream failures are surfaced to the caller;
// the feed is cosmetic and the admin should see what is wrong.
func (s *Service) ICal(c *fiber.Ctx) error {
	return s.relay(c, feedproxy.ICal)
}

// RSS relays a news feed, same policy as ICal.
func (s *Service) RSS(c *fiber.Ctx) error {
	return s.relay(c, feedproxy.RSS)
}

// Alerts returns the current emergency-alert payload. Always 200: a broken
// upstream must look like "no alert", never break the display.
func (s *Service) Alerts(c *fiber.Ctx) error {
	body := s.alerts.Fetch(c.UserContext())

	c.Set(fiber.HeaderContentType, "application/json")

	return c.Send(body)
}

func (s *Service) relay(c *fiber.Ctx, endpoint feedproxy.Endpoint) error {
	url := c.Query("url")
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "URL parameter required"})
	}

	body, err := endpoint.Fetch(c.UserContext(), s.client, url)
	if err != nil {
		log.Warn().Err(err).Str("feed", endpoint.Name).Str("url", url).Msg("feed relay failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, endpoint.ContentType)

	return c.Send(body)
}
