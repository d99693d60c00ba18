package config

import (
	"path/filepath"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/paths"
)

// Config is the effective dotrig configuration
type Config struct {
	Targets   []string        `koanf:"targets"`
	Paths     PathsConfig     `koanf:"paths"`
	Source    SourceConfig    `koanf:"source"`
	KeepAlive KeepAliveConfig `koanf:"keepalive"`
	Restore   RestoreConfig   `koanf:"restore"`
	Retry     RetryConfig     `koanf:"retry"`

	// File is the config file that was loaded, if any
	File string `koanf:"-"`
}

// PathsConfig locates the three roots of a reconciliation
type PathsConfig struct {
	Source string `koanf:"source"`
	Dest   string `koanf:"dest"`
	Backup string `koanf:"backup"`
}

// SourceConfig describes the git checkout holding the managed configuration
type SourceConfig struct {
	URL      string `koanf:"url"`
	Branch   string `koanf:"branch"`
	Checkout string `koanf:"checkout"`
	Subdir   string `koanf:"subdir"`
}

// KeepAliveConfig controls the privilege refresh task
type KeepAliveConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	Command  string        `koanf:"command"`
}

// RestoreConfig controls the restore decision after failures
type RestoreConfig struct {
	Prompt bool `koanf:"prompt"`
}

// RetryConfig bounds retries of network operations
type RetryConfig struct {
	Attempts uint64        `koanf:"attempts"`
	Delay    time.Duration `koanf:"delay"`
	MaxDelay time.Duration `koanf:"maxdelay"`
}

// SourceRoot is the directory holding one subdirectory per target
func (c *Config) SourceRoot() string {
	if c.Paths.Source != "" {
		return c.Paths.Source
	}
	return filepath.Join(c.Source.Checkout, c.Source.Subdir)
}

// resolve fills empty locations from p and expands ~ in the rest
func (c *Config) resolve(p paths.Paths) {
	c.Paths.Source = paths.ExpandHome(c.Paths.Source)
	c.Paths.Dest = paths.ExpandHome(c.Paths.Dest)
	c.Source.Checkout = paths.ExpandHome(c.Source.Checkout)

	if c.Paths.Dest == "" {
		c.Paths.Dest = p.UserConfigHome()
	}
	if c.Source.Checkout == "" {
		c.Source.Checkout = p.CheckoutDir()
	}
}

// Validate checks the configuration for values dotrig cannot run with
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New(errors.ErrConfigValid, "at least one target must be configured")
	}
	for _, name := range c.Targets {
		if err := paths.ValidateTargetName(name); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid target %q", name).
				WithDetail("key", "targets")
		}
	}

	if c.KeepAlive.Enabled {
		if c.KeepAlive.Interval <= 0 {
			return errors.Newf(errors.ErrConfigValid, "keepalive.interval must be positive, got %s", c.KeepAlive.Interval).
				WithDetail("key", "keepalive.interval")
		}
		if c.KeepAlive.Command == "" {
			return errors.New(errors.ErrConfigValid, "keepalive.command cannot be empty when keepalive is enabled").
				WithDetail("key", "keepalive.command")
		}
	}

	if c.Retry.Delay <= 0 || c.Retry.MaxDelay < c.Retry.Delay {
		return errors.Newf(errors.ErrConfigValid, "retry delays must satisfy 0 < delay <= maxdelay, got %s and %s",
			c.Retry.Delay, c.Retry.MaxDelay).
			WithDetail("key", "retry")
	}
	return nil
}
