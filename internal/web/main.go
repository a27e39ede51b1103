// Package web builds and runs the Fiber application serving the display,
// the admin interface and the REST API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/feedproxy"
	fiberlogger "github.com/lobbyboard/lobbyboard/internal/logger/adapter/fiber"
	"github.com/lobbyboard/lobbyboard/internal/mediastore"
	adminhandler "github.com/lobbyboard/lobbyboard/internal/web/handler/admin"
	"github.com/lobbyboard/lobbyboard/internal/web/handler/banners"
	"github.com/lobbyboard/lobbyboard/internal/web/handler/configapi"
	"github.com/lobbyboard/lobbyboard/internal/web/handler/pages"
	proxyhandler "github.com/lobbyboard/lobbyboard/internal/web/handler/proxy"
	"github.com/lobbyboard/lobbyboard/internal/web/handler/settings"
	"github.com/lobbyboard/lobbyboard/internal/web/handler/uploads"
	"github.com/lobbyboard/lobbyboard/internal/web/handler/widgets"
)

const megabyte = 1024 * 1024

// checkAlivePath is the liveness probe path for reverse proxies.
const checkAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	go s.WaitShutdown()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// checkAlive answers the reverse-proxy liveness probe. During graceful
// shutdown it returns 503 so the proxy drains this instance.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "LobbyBoard",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Uploads.MaxSizeMB * megabyte,
			Views:          templateEngine,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log, CheckAliveURI: checkAlivePath}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	store, err := mediastore.New(cfg.Uploads.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Uploads.Path).Msg("failed to open media store")
	}

	alertService := feedproxy.NewAlertService(db)

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	app.Get(checkAlivePath, service.checkAlive)

	// init handlers (they register their own routes)
	pages.Handler.Init(app, cfg, db)
	banners.Handler.Init(app, cfg, db, store)
	uploads.Handler.Init(app, cfg, store)
	widgets.Handler.Init(app, cfg, db)
	settings.Handler.Init(app, cfg, db)
	proxyhandler.Handler.Init(app, cfg, db, alertService)
	adminhandler.Handler.Init(app, cfg, db, alertService)
	configapi.Handler.Init(app, cfg, db)

	return service
}
