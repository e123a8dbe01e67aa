// Package config handles framework selection and defaults for uiwait.
//
// A Config is an explicit, injectable object: construct as many independent
// ones as needed (tests included). The package-level default used by the
// element factory lives in pkg/element and is sugar only.
package config

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/wait"
)

// EnvFramework is the environment variable consulted by FromEnv.
const EnvFramework = "UIWAIT_FRAMEWORK"

// Config binds a framework selection to a driver instance and the default
// wait options applied when a caller does not pass any.
type Config struct {
	Framework   core.Framework
	Driver      core.Driver
	WaitOptions wait.Options
	Logger      *zap.Logger
}

// New validates and builds a configuration. Every framework needs a driver
// supplied externally; a mismatch between the selected framework and what
// the driver reports is a programmer error and fails fast.
func New(framework core.Framework, driver core.Driver) (*Config, error) {
	if driver == nil {
		return nil, core.ErrMissingDriver.WithMessagef(
			"framework %q requires a driver instance", framework)
	}
	if framework == "" {
		framework = driver.Framework()
	}
	if framework != core.FrameworkCustom && driver.Framework() != framework {
		return nil, core.ErrInvalidConfig.WithMessagef(
			"selected framework %q but driver reports %q", framework, driver.Framework())
	}
	return &Config{
		Framework:   framework,
		Driver:      driver,
		WaitOptions: wait.DefaultOptions(),
		Logger:      zap.NewNop(),
	}, nil
}

// WithLogger sets the logger used by engines built from this config.
func (c *Config) WithLogger(l *zap.Logger) *Config {
	if l != nil {
		c.Logger = l
	}
	return c
}

// WithWaitOptions overrides the default per-condition options.
func (c *Config) WithWaitOptions(opts wait.Options) *Config {
	c.WaitOptions = opts
	return c
}

// ParseFramework maps a string onto the framework enum, case-insensitively.
func ParseFramework(s string) (core.Framework, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detox":
		return core.FrameworkDetox, true
	case "appium":
		return core.FrameworkAppium, true
	case "playwright":
		return core.FrameworkPlaywright, true
	case "cypress":
		return core.FrameworkCypress, true
	case "custom":
		return core.FrameworkCustom, true
	default:
		return "", false
	}
}

// FrameworkFromEnv reads EnvFramework and maps it onto the enum. An unset or
// unrecognized value silently preserves prior, so a bad environment never
// breaks a configured suite.
func FrameworkFromEnv(prior core.Framework) core.Framework {
	if fw, ok := ParseFramework(os.Getenv(EnvFramework)); ok {
		return fw
	}
	return prior
}

// ApplyEnv updates the framework selection from the environment, keeping the
// current value when the variable is unset or unrecognized.
func (c *Config) ApplyEnv() *Config {
	c.Framework = FrameworkFromEnv(c.Framework)
	return c
}
