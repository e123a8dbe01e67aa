package element

import (
	"context"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/scroll"
	"github.com/devicelab-dev/uiwait/pkg/wait"
)

// WaitBuilder accumulates conditions for one execution against the owning
// wrapper. Conditions run in append order and the first unmet one aborts
// the rest; Execute resolves to the wrapper so a successful wait can feed
// straight into the next action.
type WaitBuilder struct {
	wrapper *Wrapper
	chain   *wait.Chain
}

// options resolves the effective per-condition options: the wrapper default
// unless the caller passed an override.
func (b *WaitBuilder) options(opts []wait.Options) wait.Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return b.wrapper.waitOpts
}

// ForVisible appends a visibility condition.
func (b *WaitBuilder) ForVisible(opts ...wait.Options) *WaitBuilder {
	b.chain.Add(wait.Visible(b.wrapper.driver, b.wrapper.sel, b.options(opts), b.wrapper.logger))
	return b
}

// ForNotVisible appends a disappearance condition.
func (b *WaitBuilder) ForNotVisible(opts ...wait.Options) *WaitBuilder {
	b.chain.Add(wait.NotVisible(b.wrapper.driver, b.wrapper.sel, b.options(opts), b.wrapper.logger))
	return b
}

// ForEnabled appends an enabled condition.
func (b *WaitBuilder) ForEnabled(opts ...wait.Options) *WaitBuilder {
	b.chain.Add(wait.Enabled(b.wrapper.driver, b.wrapper.sel, b.options(opts), b.wrapper.logger))
	return b
}

// ForExists appends an existence condition.
func (b *WaitBuilder) ForExists(opts ...wait.Options) *WaitBuilder {
	b.chain.Add(wait.Exists(b.wrapper.driver, b.wrapper.sel, b.options(opts), b.wrapper.logger))
	return b
}

// ForCustom appends a parameterized custom condition. An empty spec is a
// programmer error surfaced by Execute without polling.
func (b *WaitBuilder) ForCustom(spec wait.CustomSpec, opts ...wait.Options) *WaitBuilder {
	if spec.IsZero() {
		b.chain.Fail(core.ErrInvalidConfig.WithMessage("custom condition spec has no check configured"))
		return b
	}
	b.chain.Add(wait.Custom(b.wrapper.driver, b.wrapper.sel, spec, b.options(opts), b.wrapper.logger))
	return b
}

// Descriptions returns the queued condition descriptions in execution order
// without evaluating anything.
func (b *WaitBuilder) Descriptions() []string {
	return b.chain.Descriptions()
}

// Clear empties the condition list so the builder can be reused.
func (b *WaitBuilder) Clear() *WaitBuilder {
	b.chain.Clear()
	return b
}

// Execute drains the chain against the driver. On success it resolves to
// the originating wrapper for further chaining; on failure it returns an
// error naming the first unmet condition.
func (b *WaitBuilder) Execute(ctx context.Context) (*Wrapper, error) {
	if err := b.chain.Execute(ctx); err != nil {
		return nil, err
	}
	return b.wrapper, nil
}

// ScrollBuilder configures one scroll-search execution against the owning
// wrapper.
type ScrollBuilder struct {
	wrapper *Wrapper
	spec    scroll.Spec
}

// Direction overrides the scroll direction.
func (b *ScrollBuilder) Direction(d core.Direction) *ScrollBuilder {
	b.spec.Direction = d
	return b
}

// Threshold sets the required visibility fraction.
func (b *ScrollBuilder) Threshold(t float64) *ScrollBuilder {
	b.spec.VisibilityThreshold = t
	return b
}

// Center requests centering the element after it is found.
func (b *ScrollBuilder) Center() *ScrollBuilder {
	b.spec.CenterInViewport = true
	return b
}

// Execute runs the search. On success it resolves to the originating
// wrapper; on failure it returns an error naming the direction and step.
func (b *ScrollBuilder) Execute(ctx context.Context) (*Wrapper, error) {
	engine := scroll.NewSearch(b.wrapper.driver, b.wrapper.logger)
	if err := engine.Execute(ctx, b.wrapper.sel, b.spec); err != nil {
		return nil, err
	}
	return b.wrapper, nil
}
