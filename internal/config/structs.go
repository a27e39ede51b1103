package config

import (
	"github.com/lobbyboard/lobbyboard/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Uploads   Uploads
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}

// Uploads holds the banner media blob store settings.
type Uploads struct {
	Path      string // directory holding uploaded banner media
	MaxSizeMB int    // maximum accepted upload size in megabytes
}
