package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for opening a store.
type Config struct {
	Backend     string        `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir     string        `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	Seed        bool          `json:"seed" yaml:"seed" mapstructure:"seed"`
	BusyTimeout time.Duration `json:"busy_timeout" yaml:"busy_timeout" mapstructure:"busy_timeout"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultBusyTimeout is used when Config.BusyTimeout is zero.
const DefaultBusyTimeout = 5 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrBusyTimeoutInvalid = errors.New("busy timeout must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.BusyTimeout < 0 {
		return ErrBusyTimeoutInvalid
	}
	return nil
}

// GetBusyTimeout returns BusyTimeout or DefaultBusyTimeout when unset.
func (c Config) GetBusyTimeout() time.Duration {
	if c.BusyTimeout == 0 {
		return DefaultBusyTimeout
	}
	return c.BusyTimeout
}
