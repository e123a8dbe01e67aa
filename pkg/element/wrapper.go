// Package element provides the fluent wrapper bound to one selector/driver
// pair: wait chains, scroll-search, direct probes and interactions.
package element

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/config"
	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/scroll"
	"github.com/devicelab-dev/uiwait/pkg/selector"
	"github.com/devicelab-dev/uiwait/pkg/wait"
)

var (
	defaultMu  sync.RWMutex
	defaultCfg *config.Config
)

// Configure installs the process-wide default configuration used by New.
// Last writer wins; test suites are expected to call it once at startup.
// Fully independent configurations remain available through NewWith.
func Configure(cfg *config.Config) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCfg = cfg
}

// New creates a wrapper using the default configuration installed by
// Configure.
func New(sel selector.Selector) (*Wrapper, error) {
	defaultMu.RLock()
	cfg := defaultCfg
	defaultMu.RUnlock()
	if cfg == nil {
		return nil, core.ErrInvalidConfig.WithMessage(
			"no default configuration installed, call element.Configure first or use element.NewWith")
	}
	return NewWith(cfg, sel)
}

// NewWith creates a wrapper from an explicit configuration.
func NewWith(cfg *config.Config, sel selector.Selector) (*Wrapper, error) {
	if cfg == nil || cfg.Driver == nil {
		return nil, core.ErrMissingDriver.WithMessage("configuration has no driver")
	}
	if sel.IsEmpty() {
		return nil, core.ErrInvalidConfig.WithMessage("selector has no hints set")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wrapper{
		sel:      sel,
		driver:   cfg.Driver,
		waitOpts: cfg.WaitOptions,
		logger:   logger,
	}, nil
}

// Wrapper binds one selector to one driver and exposes the waiting, scroll
// and interaction surface as a chainable API.
type Wrapper struct {
	sel      selector.Selector
	driver   core.Driver
	waitOpts wait.Options
	logger   *zap.Logger
}

// Selector returns the bound selector.
func (w *Wrapper) Selector() selector.Selector { return w.sel }

// Driver returns the bound driver.
func (w *Wrapper) Driver() core.Driver { return w.driver }

// WithSelector pivots to a sibling element: a new wrapper sharing this
// wrapper's driver and defaults.
func (w *Wrapper) WithSelector(sel selector.Selector) *Wrapper {
	return &Wrapper{sel: sel, driver: w.driver, waitOpts: w.waitOpts, logger: w.logger}
}

// Wait returns a fresh condition chain builder bound to this wrapper.
func (w *Wrapper) Wait() *WaitBuilder {
	return &WaitBuilder{wrapper: w, chain: wait.NewChain(w.logger)}
}

// ScrollTo returns a scroll-search builder for the given spec.
func (w *Wrapper) ScrollTo(spec scroll.Spec) *ScrollBuilder {
	return &ScrollBuilder{wrapper: w, spec: spec}
}

// ScrollToDefault is ScrollTo with the standard downward search.
func (w *Wrapper) ScrollToDefault() *ScrollBuilder {
	return w.ScrollTo(scroll.DefaultSpec(core.DirectionDown))
}

// Direct pass-through probes: no polling, one driver call.

// IsVisible reports the backend's visible flag.
func (w *Wrapper) IsVisible(ctx context.Context) (bool, error) {
	return w.driver.IsVisible(ctx, w.sel)
}

// IsEnabled reports the backend's enabled flag.
func (w *Wrapper) IsEnabled(ctx context.Context) (bool, error) {
	return w.driver.IsEnabled(ctx, w.sel)
}

// Exists reports presence in the hierarchy.
func (w *Wrapper) Exists(ctx context.Context) (bool, error) {
	return w.driver.Exists(ctx, w.sel)
}

// Text returns the element text.
func (w *Wrapper) Text(ctx context.Context) (string, error) {
	return w.driver.Text(ctx, w.sel)
}

// Attribute returns the named attribute, nil when absent.
func (w *Wrapper) Attribute(ctx context.Context, name string) (*string, error) {
	return w.driver.Attribute(ctx, w.sel, name)
}

// Property returns the named property.
func (w *Wrapper) Property(ctx context.Context, name string) (any, error) {
	return w.driver.Property(ctx, w.sel, name)
}

// Element returns the raw backend handle.
func (w *Wrapper) Element(ctx context.Context) (any, error) {
	return w.driver.Element(ctx, w.sel)
}

// interactable asserts the interaction capability, turning its absence into
// a descriptive configuration error.
func (w *Wrapper) interactable(op string) (core.Interactable, error) {
	it, ok := w.driver.(core.Interactable)
	if !ok {
		return nil, core.ErrNotInteractable.WithMessagef(
			"%s %s: driver %q does not support interaction", op, w.sel.Describe(), w.driver.Framework())
	}
	return it, nil
}

// Tap taps the element.
func (w *Wrapper) Tap(ctx context.Context) error {
	it, err := w.interactable("tap")
	if err != nil {
		return err
	}
	return it.Tap(ctx, w.sel)
}

// TypeText types into the element. The keyboard is dismissed afterwards
// unless an Options value with DismissKeyboard false is passed.
func (w *Wrapper) TypeText(ctx context.Context, text string, opts ...wait.Options) error {
	it, err := w.interactable("type into")
	if err != nil {
		return err
	}
	dismiss := w.waitOpts.DismissKeyboard
	if len(opts) > 0 {
		dismiss = opts[0].DismissKeyboard
	}
	return it.TypeText(ctx, w.sel, text, dismiss)
}

// ClearText clears the element's text.
func (w *Wrapper) ClearText(ctx context.Context) error {
	it, err := w.interactable("clear")
	if err != nil {
		return err
	}
	return it.ClearText(ctx, w.sel)
}

// DismissKeyboard hides the on-screen keyboard.
func (w *Wrapper) DismissKeyboard(ctx context.Context) error {
	it, err := w.interactable("dismiss keyboard for")
	if err != nil {
		return err
	}
	return it.DismissKeyboard(ctx)
}
