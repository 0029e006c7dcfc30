package redis

import "fmt"

// Config holds Redis connection configuration.
type Config struct {
	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `yaml:"password" mapstructure:"password"`

	// DB is the Redis database number.
	DB int `yaml:"db" mapstructure:"db"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`

	// DialTimeout is the timeout for establishing new connections (e.g. "5s").
	DialTimeout string `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads (e.g. "3s").
	ReadTimeout string `yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout is the timeout for socket writes (e.g. "3s").
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.DB < 0 {
		return fmt.Errorf("redis.db must be non-negative (got: %d)", c.DB)
	}
	return nil
}
