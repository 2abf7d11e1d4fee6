// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Store driver names accepted in StoreDriver.
const (
	DriverSQLite = "sqlite"
	DriverCSV    = "csv"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the record source: sqlite or csv.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the SQLite database file (sqlite driver).
	StorePath string `koanf:"store_path"`

	// CSVPath is the exported sheet file (csv driver).
	CSVPath string `koanf:"csv_path"`

	// RefreshSchedule is a cron expression for snapshot reloads; empty
	// disables scheduled refresh. The import tool runs weekly, so the
	// default checks once an hour.
	RefreshSchedule string `koanf:"refresh_schedule"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// NexonAPIKey enables the character lookup; empty leaves it disabled.
	NexonAPIKey string `koanf:"nexon_api_key"`

	// LookupTTLMinutes bounds the character lookup cache validity.
	LookupTTLMinutes int `koanf:"lookup_ttl_minutes"`

	// GatePasswordHashes are bcrypt hashes of the shared view passwords.
	// Empty disables the gate (open dashboard).
	GatePasswordHashes []string `koanf:"gate_password_hashes"`

	// SessionTTLMinutes bounds how long an issued session token stays valid.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		StoreDriver:         DriverSQLite,
		StorePath:           "guildstats.db",
		CSVPath:             "guild_data.csv",
		RefreshSchedule:     "@hourly",
		MaxLeaderboardLimit: 200,
		LookupTTLMinutes:    60,
		SessionTTLMinutes:   12 * 60,
	}
}
