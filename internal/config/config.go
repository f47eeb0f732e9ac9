package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Optional subsystems (Redis store, RabbitMQ
// eventing, MySQL archive) are enabled only when their variables are set;
// the service runs fully in-memory without them.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	JWTSecret string // secret used to sign JWTs

	AccessTTLMin int // access token time-to-live in minutes
	BcryptCost   int // bcrypt cost for password hashing

	// Archive database (optional; empty DB_HOST disables the archive).
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	QueueEnabled  bool          // run the RabbitMQ publisher/consumer pair
	SweepInterval time.Duration // pending-payment sweeper cadence
	PendingTTL    time.Duration // 0 keeps pending bookings forever (report-only)
}

// Load reads configuration from environment variables.  Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: os.Getenv("DB_HOST"),
		DBPort: getenv("DB_PORT", "3306"),
		DBName: os.Getenv("DB_NAME"),

		QueueEnabled:  getenv("QUEUE_ENABLED", "false") == "true",
		SweepInterval: envDur("BOOKING_SWEEP_INTERVAL", 10*time.Minute),
		PendingTTL:    envDur("BOOKING_PENDING_TTL", 0),
	}
}

// ArchiveEnabled reports whether the MySQL archive is configured.
func (c Config) ArchiveEnabled() bool { return c.DBHost != "" && c.DBName != "" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
