// Package uploads serves stored banner media blobs.
package uploads

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/mediastore"
	"github.com/lobbyboard/lobbyboard/internal/web/handler"
)

// cacheControl marks assets as effectively immutable: a storage key is never
// reused by a different upload.
const cacheControl = "public, max-age=31536000"

// Service is the uploads handler service.
type Service struct {
	store *mediastore.Store
}

// Handler is the uploads handler.
var Handler = Service{}

// Init initializes the uploads handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, store *mediastore.Store) {
	if app == nil || cfg == nil || store == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
	}

	s.store = store

	app.Get("/uploads/:key", s.Serve)
}

// Serve returns the raw media blob with a long-lived cache directive.
func (s *Service) Serve(c *fiber.Ctx) error {
	key := c.Params("key")

	path, err := s.store.Path(key)
	if err != nil || !s.store.Exists(key) {
		return c.SendStatus(fiber.StatusNotFound)
	}

	c.Set(fiber.HeaderCacheControl, cacheControl)

	return c.SendFile(path)
}
