package config

import (
	"time"

	"github.com/kbukum/lifekit/errors"
	"github.com/kbukum/lifekit/logger"
)

// ServiceConfig contains the configuration fields a supervised service
// needs. Projects extend this by embedding it in their own config structs:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Redis redis.Config `yaml:"redis" mapstructure:"redis"`
//	}
type ServiceConfig struct {
	Name        string           `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string           `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Version     string           `yaml:"version" mapstructure:"version"`
	Logging     logger.Config    `yaml:"logging" mapstructure:"logging"`
	Supervisor  SupervisorConfig `yaml:"supervisor" mapstructure:"supervisor"`
}

// SupervisorConfig holds supervisor tuning knobs.
type SupervisorConfig struct {
	// HealthCheckInterval is the polling period of the health-check loop.
	HealthCheckInterval time.Duration `yaml:"health_check_interval" mapstructure:"health_check_interval"`
	// GracefulTimeout bounds how long shutdown waits for components to close.
	GracefulTimeout time.Duration `yaml:"graceful_timeout" mapstructure:"graceful_timeout"`
}

// GetServiceConfig returns the base ServiceConfig. When embedded in a
// larger config struct, this method is promoted so the embedding struct
// automatically satisfies the Config interface.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Override in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	c.Supervisor.ApplyDefaults()
}

// ApplyDefaults applies default values to supervisor configuration.
func (c *SupervisorConfig) ApplyDefaults() {
	if c.HealthCheckInterval == 0 {
		c.HealthCheckInterval = 600 * time.Millisecond
	}
	if c.GracefulTimeout == 0 {
		c.GracefulTimeout = 15 * time.Second
	}
}

// Validate validates the base configuration fields.
// Override in embedding structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if err := ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig("logging", err.Error())
	}
	return c.Supervisor.Validate()
}

// Validate validates supervisor configuration.
func (c *SupervisorConfig) Validate() error {
	if c.HealthCheckInterval < 0 {
		return errors.InvalidConfig("supervisor.health_check_interval", "must be positive")
	}
	if c.GracefulTimeout < 0 {
		return errors.InvalidConfig("supervisor.graceful_timeout", "must be positive")
	}
	return nil
}

// Config is satisfied by any struct embedding ServiceConfig.
type Config interface {
	GetServiceConfig() *ServiceConfig
	ApplyDefaults()
	Validate() error
}
