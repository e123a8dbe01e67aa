package wait

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// Condition is a single timeout-bounded predicate about element state.
// Immutable once constructed; evaluated by the owning chain's Execute.
type Condition struct {
	description string
	opts        Options
	logger      *zap.Logger
	check       func(ctx context.Context) (bool, error)
}

func newCondition(description string, opts Options, logger *zap.Logger, check func(ctx context.Context) (bool, error)) *Condition {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Condition{
		description: description,
		opts:        opts.normalized(),
		logger:      logger,
		check:       check,
	}
}

// Description returns the stable human-readable text used in failure
// messages and logs.
func (c *Condition) Description() string {
	return c.description
}

// Options returns the resolved polling configuration.
func (c *Condition) Options() Options {
	return c.opts
}

// Execute polls the predicate until it holds or the timeout elapses.
// A plain timeout yields false, never an error. Predicate errors are logged
// as warnings and treated as "not met this tick" so a transient backend
// hiccup cannot abort the wait.
func (c *Condition) Execute(ctx context.Context) bool {
	start := time.Now()
	for time.Since(start) < c.opts.Timeout {
		ok, err := c.check(ctx)
		if err != nil {
			c.logger.Warn("condition check failed, retrying",
				zap.String("condition", c.description),
				zap.Error(err))
		} else if ok {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.opts.Interval):
		}
	}
	return false
}

// Visible waits until the driver reports the element visible.
func Visible(d core.Driver, sel selector.Selector, opts Options, logger *zap.Logger) *Condition {
	desc := fmt.Sprintf("wait for element %s to be visible", sel.Describe())
	return newCondition(desc, opts, logger, func(ctx context.Context) (bool, error) {
		return d.IsVisible(ctx, sel)
	})
}

// NotVisible waits until the element disappears (or never was there).
func NotVisible(d core.Driver, sel selector.Selector, opts Options, logger *zap.Logger) *Condition {
	desc := fmt.Sprintf("wait for element %s to not be visible", sel.Describe())
	return newCondition(desc, opts, logger, func(ctx context.Context) (bool, error) {
		visible, err := d.IsVisible(ctx, sel)
		if err != nil {
			return false, err
		}
		return !visible, nil
	})
}

// Enabled waits until the driver reports the element enabled.
func Enabled(d core.Driver, sel selector.Selector, opts Options, logger *zap.Logger) *Condition {
	desc := fmt.Sprintf("wait for element %s to be enabled", sel.Describe())
	return newCondition(desc, opts, logger, func(ctx context.Context) (bool, error) {
		return d.IsEnabled(ctx, sel)
	})
}

// Exists waits until the element is present in the hierarchy.
func Exists(d core.Driver, sel selector.Selector, opts Options, logger *zap.Logger) *Condition {
	desc := fmt.Sprintf("wait for element %s to exist", sel.Describe())
	return newCondition(desc, opts, logger, func(ctx context.Context) (bool, error) {
		return d.Exists(ctx, sel)
	})
}

// Custom waits until the parameterized check in spec holds. See CustomSpec
// for the supported shapes and their dispatch order.
func Custom(d core.Driver, sel selector.Selector, spec CustomSpec, opts Options, logger *zap.Logger) *Condition {
	desc := fmt.Sprintf("wait for element %s %s", sel.Describe(), spec.describe())
	return newCondition(desc, opts, logger, func(ctx context.Context) (bool, error) {
		return spec.evaluate(ctx, d, sel)
	})
}
