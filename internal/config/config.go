package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	gomoney "github.com/Rhymond/go-money"
)

// Config is the process configuration, read from the environment.
type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string

	// AMQP (optional; empty URL disables change notifications)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Logging
	LogLevel string
	LogDir   string
	LogJSON  bool

	// Store
	PersistTimeout time.Duration

	// Digest worker
	DigestInterval time.Duration

	// Display
	Currency string
}

var (
	validBackends  = []string{"memory", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Load reads the configuration from environment variables, falling back to
// defaults for unset or unparsable values. It does not validate.
func Load() *Config {
	cfg := &Config{
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/homekeep.db"),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "homekeep"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "store_changes"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogDir:   getEnv("LOG_DIR", ""),
		LogJSON:  getEnvBool("LOG_JSON", false),

		PersistTimeout: getEnvDuration("PERSIST_TIMEOUT", 5*time.Second),
		DigestInterval: getEnvDuration("DIGEST_INTERVAL", 24*time.Hour),

		Currency: strings.ToUpper(getEnv("CURRENCY", gomoney.USD)),
	}

	return cfg
}

// Validate checks every setting and reports all problems in one error.
func (c *Config) Validate() error {
	var problems []string
	problems = append(problems, c.storageProblems()...)
	problems = append(problems, c.amqpProblems()...)
	problems = append(problems, c.runtimeProblems()...)

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// storageProblems also creates the SQLite directory so the first run works
// without a manual mkdir.
func (c *Config) storageProblems() []string {
	if !slices.Contains(validBackends, c.DataBackend) {
		return []string{fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends)}
	}
	if c.DataBackend != "sqlite" {
		return nil
	}
	if c.SQLiteDBPath == "" {
		return []string{"SQLite database path cannot be empty when using sqlite backend"}
	}
	dir := filepath.Dir(c.SQLiteDBPath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return []string{fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err)}
	}
	return nil
}

func (c *Config) amqpProblems() []string {
	if c.AMQPURL == "" {
		return nil
	}
	var problems []string
	u, err := url.Parse(c.AMQPURL)
	switch {
	case err != nil:
		problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	case u.Scheme != "amqp" && u.Scheme != "amqps":
		problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
	}
	if c.AMQPExchange == "" {
		problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
	}
	if c.AMQPRoutingKey == "" {
		problems = append(problems, "AMQP routing key cannot be empty when AMQP URL is provided")
	}
	return problems
}

func (c *Config) runtimeProblems() []string {
	var problems []string
	if !slices.Contains(validLogLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	switch {
	case c.PersistTimeout < 100*time.Millisecond:
		problems = append(problems, fmt.Sprintf("invalid persist timeout %v: must be at least 100ms", c.PersistTimeout))
	case c.PersistTimeout > time.Minute:
		problems = append(problems, fmt.Sprintf("invalid persist timeout %v: must be at most 1 minute", c.PersistTimeout))
	}
	if c.DigestInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid digest interval %v: must be at least 1 minute", c.DigestInterval))
	}
	if gomoney.GetCurrency(c.Currency) == nil {
		problems = append(problems, fmt.Sprintf("unknown currency '%s'", c.Currency))
	}
	return problems
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
