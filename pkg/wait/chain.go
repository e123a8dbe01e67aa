package wait

import (
	"context"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
)

// Chain is an ordered, append-only sequence of conditions evaluated strictly
// in insertion order. The first condition to time out aborts the chain with
// an error naming its description; later conditions are never evaluated.
// Order is caller-controlled on purpose and never normalized: an element may
// legitimately become enabled before it becomes visible, or the reverse.
type Chain struct {
	conditions []*Condition
	logger     *zap.Logger
	// err records a configuration mistake made while building the chain;
	// Execute surfaces it immediately without polling.
	err error
}

// NewChain returns an empty chain. A nil logger is replaced by a no-op one.
func NewChain(logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{logger: logger}
}

// Add appends a condition and returns the chain for fluent building.
func (c *Chain) Add(cond *Condition) *Chain {
	c.conditions = append(c.conditions, cond)
	return c
}

// Fail records a build-time configuration error. The first recorded error
// wins and short-circuits Execute.
func (c *Chain) Fail(err error) *Chain {
	if c.err == nil {
		c.err = err
	}
	return c
}

// Len returns the number of queued conditions.
func (c *Chain) Len() int {
	return len(c.conditions)
}

// Descriptions returns the queued condition descriptions in execution order
// without evaluating anything.
func (c *Chain) Descriptions() []string {
	out := make([]string, len(c.conditions))
	for i, cond := range c.conditions {
		out[i] = cond.Description()
	}
	return out
}

// Clear empties the condition list so the chain can be reused. Any recorded
// build error is kept: it marks the builder as misused, not the list.
func (c *Chain) Clear() *Chain {
	c.conditions = nil
	return c
}

// Execute evaluates the conditions in insertion order, failing fast on the
// first one that is not met. An empty chain is a programmer error and fails
// immediately without polling.
func (c *Chain) Execute(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	if len(c.conditions) == 0 {
		return core.ErrNoConditions.WithMessage(
			"no wait conditions specified, add at least one condition before execute")
	}

	for i, cond := range c.conditions {
		c.logger.Debug("evaluating wait condition",
			zap.Int("position", i+1),
			zap.Int("total", len(c.conditions)),
			zap.String("condition", cond.Description()))

		if !cond.Execute(ctx) {
			return core.ErrConditionNotMet.WithMessagef(
				"condition %d/%d not met within %s: %s",
				i+1, len(c.conditions), cond.Options().Timeout, cond.Description())
		}
	}
	return nil
}
