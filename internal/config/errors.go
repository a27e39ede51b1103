package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyDBEngine error if config db.engine is empty.
	ErrEmptyDBEngine = errors.New("toml config db.engine can not be empty")

	// ErrEmptySQLitePath error if the sqlite engine is selected without a db file path.
	ErrEmptySQLitePath = errors.New("toml config db.path can not be empty when db.engine is sqlite")

	// ErrEmptyUploadPath error if config uploads.path is empty.
	ErrEmptyUploadPath = errors.New("toml config uploads.path can not be empty")
)
