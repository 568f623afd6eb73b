package backend

import (
	"errors"
	"fmt"

	"homekeep/internal/config"
)

// Config selects the kv backend and, optionally, the AMQP publisher.
type Config struct {
	Type         BackendType
	SQLiteDBPath string

	// An empty AMQPURL disables change notifications for every backend type.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// FromAppConfig derives the backend configuration from the application
// configuration and validates it.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	c := Config{
		Type:           BackendType(appConfig.DataBackend),
		SQLiteDBPath:   appConfig.SQLiteDBPath,
		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPRoutingKey: appConfig.AMQPRoutingKey,
	}
	if !c.Type.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (valid: %v)", appConfig.DataBackend, GetBackendTypeStrings())
	}
	return c, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if !c.Type.IsValid() {
		errs = append(errs, fmt.Errorf("invalid backend type: %s", c.Type))
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		errs = append(errs, errors.New("SQLite database path is required for sqlite backend"))
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPRoutingKey == "") {
		errs = append(errs, errors.New("AMQP exchange and routing key are required when AMQP URL is set"))
	}
	return errors.Join(errs...)
}
