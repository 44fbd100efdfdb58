package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime configuration loaded from environment
// variables. A .env file in the working directory is honored before this
// runs (see Run).
type Config struct {
	LogLevel  string
	LogFile   string
	LogPretty bool

	// DatabaseURL empty means in-memory mode: the client runs against a
	// process-local store, useful for demos and tests.
	DatabaseURL string
	DBSchema    string
	DBMaxConns  int32
	DBMinConns  int32

	// DataDir holds the local account and contact files plus the default
	// log file.
	DataDir string

	PollInterval time.Duration
	StopGrace    time.Duration
	InboxLimit   int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	dataDir := EnvString("CATAPULT_DATA_DIR", "catapult_data")

	return Config{
		LogLevel:  EnvString("CATAPULT_LOG_LEVEL", "info"),
		LogFile:   EnvString("CATAPULT_LOG_FILE", filepath.Join(dataDir, "catapult.log")),
		LogPretty: EnvBool("CATAPULT_LOG_PRETTY", false),

		DatabaseURL: EnvString("CATAPULT_DATABASE_URL", ""),
		DBSchema:    EnvString("CATAPULT_DB_SCHEMA", "public"),
		DBMaxConns:  EnvInt32("CATAPULT_DB_MAX_CONNS", 4),
		DBMinConns:  EnvInt32("CATAPULT_DB_MIN_CONNS", 0),

		DataDir: dataDir,

		PollInterval: EnvDuration("CATAPULT_POLL_INTERVAL", time.Second),
		StopGrace:    EnvDuration("CATAPULT_STOP_GRACE", time.Second),
		InboxLimit:   EnvInt("CATAPULT_INBOX_LIMIT", 100),
	}
}

// UserFile is the path of the cached active account.
func (c Config) UserFile() string { return filepath.Join(c.DataDir, "user.json") }

// ContactsFile is the path of the local contact cache.
func (c Config) ContactsFile() string { return filepath.Join(c.DataDir, "contacts.json") }

// EnvString reads a string env var with a default.
func EnvString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// EnvBool reads a bool env var with a default.
func EnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvInt reads a positive int env var with a default.
func EnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// EnvInt32 reads a non-negative int32 env var with a default.
func EnvInt32(key string, def int32) int32 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 0 {
		return def
	}
	return int32(n)
}

// EnvDuration reads a positive duration env var with a default.
func EnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
