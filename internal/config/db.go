package config

const (
	// EngineSQLite selects the embedded sqlite database engine.
	EngineSQLite = "sqlite"
	// EngineMySQL selects the MySQL database engine.
	EngineMySQL = "mysql"
	// EnginePostgres selects the PostgreSQL database engine.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // sqlite, mysql or postgres
	Path     string // database file path (sqlite only)
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
