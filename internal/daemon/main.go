// Package daemon wires configuration, database and web service together.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/config"
	"github.com/lobbyboard/lobbyboard/internal/db/controller/client"
	"github.com/lobbyboard/lobbyboard/internal/db/dsn"
	"github.com/lobbyboard/lobbyboard/internal/db/models"
	"github.com/lobbyboard/lobbyboard/internal/logger"
	"github.com/lobbyboard/lobbyboard/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}

	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.Engine).Msg("unsupported database engine")
		return nil
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Setting{},
		&models.Banner{},
		&models.Widget{},
		&models.ConnectedClient{},
	); err != nil {
		panic("failed to migrate database")
	}

	// presence does not survive restarts
	if err = client.ResetAll(db); err != nil {
		log.Error().Err(err).Msg("failed to clear connected clients on startup")
	}

	seed(db)

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db),
	}
}
