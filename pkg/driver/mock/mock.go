// Package mock provides a scripted driver for testing without a real
// backend. Element state is keyed by selector description; probes count
// their calls so tests can assert on evaluation order and short-circuiting.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// ElementState describes one scripted element.
type ElementState struct {
	Exists  bool
	Visible bool
	Enabled bool
	Text    string
	// Attributes maps attribute name to value. Missing key = attribute
	// absent (nil from the driver); empty string = present but empty.
	Attributes map[string]string
	Properties map[string]any
	// Bounds is the on-screen frame; only reported when HasBounds is set.
	Bounds    core.Bounds
	HasBounds bool
	// VisibleAfterPolls delays visibility until the Nth IsVisible call
	// for this element (0 = immediately).
	VisibleAfterPolls int
	// RevealAfterScrolls makes the element visible only once the driver
	// has scrolled at least N times (0 = no scrolling needed).
	RevealAfterScrolls int
}

// Driver is a scripted implementation of core.Driver with every optional
// capability. Use Bare to strip the capabilities off for tests that need
// their absence.
type Driver struct {
	mu sync.Mutex

	framework core.Framework
	viewport  core.Viewport
	elements  map[string]*ElementState

	calls        map[string]int
	visibleCalls map[string]int
	scrollCount  int

	// fault injection
	failProbesRemaining int
	probeErr            error
	scrollErr           error
	boundaryAfter       int
	typed               map[string]string
	centered            []string
}

// New creates a mock driver reporting the custom framework and the default
// device-class viewport.
func New() *Driver {
	return &Driver{
		framework:    core.FrameworkCustom,
		viewport:     core.DefaultViewport(),
		elements:     make(map[string]*ElementState),
		calls:        make(map[string]int),
		visibleCalls: make(map[string]int),
		typed:        make(map[string]string),
	}
}

func key(sel selector.Selector) string { return sel.Describe() }

// SetElement scripts the state for one selector.
func (d *Driver) SetElement(sel selector.Selector, st ElementState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := st
	d.elements[key(sel)] = &copied
}

// SetFramework overrides the reported framework.
func (d *Driver) SetFramework(fw core.Framework) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.framework = fw
}

// SetViewport overrides the reported viewport metrics.
func (d *Driver) SetViewport(v core.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = v
}

// FailNextProbes makes the next n probe/accessor calls return err, to
// exercise the transient-error tolerance of the polling loops.
func (d *Driver) FailNextProbes(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failProbesRemaining = n
	d.probeErr = err
}

// FailScrollWith makes every Scroll call return err.
func (d *Driver) FailScrollWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrollErr = err
}

// BoundaryAfter makes Scroll return the boundary error once more than n
// scrolls have been performed.
func (d *Driver) BoundaryAfter(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundaryAfter = n
}

// CallCount returns how many times the named method ran ("IsVisible",
// "IsEnabled", "Exists", "Attribute", "Text", "Property", "Element",
// "Scroll", "Tap", ...).
func (d *Driver) CallCount(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[method]
}

// ScrollCount returns how many scroll gestures succeeded or were attempted.
func (d *Driver) ScrollCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollCount
}

// TypedText returns what was typed into the selector so far.
func (d *Driver) TypedText(sel selector.Selector) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.typed[key(sel)]
}

// Centered returns the selectors centered in the viewport, in order.
func (d *Driver) Centered() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.centered...)
}

// record bumps the call counter and applies injected probe faults.
// Callers must hold d.mu.
func (d *Driver) record(method string) error {
	d.calls[method]++
	if d.failProbesRemaining > 0 {
		d.failProbesRemaining--
		return d.probeErr
	}
	return nil
}

func (d *Driver) state(sel selector.Selector) *ElementState {
	return d.elements[key(sel)]
}

// IsVisible implements core.Driver.
func (d *Driver) IsVisible(_ context.Context, sel selector.Selector) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("IsVisible"); err != nil {
		return false, err
	}
	st := d.state(sel)
	if st == nil || !st.Exists {
		return false, nil
	}
	d.visibleCalls[key(sel)]++
	if st.RevealAfterScrolls > 0 && d.scrollCount < st.RevealAfterScrolls {
		return false, nil
	}
	if st.VisibleAfterPolls > 0 && d.visibleCalls[key(sel)] < st.VisibleAfterPolls {
		return false, nil
	}
	return st.Visible, nil
}

// IsEnabled implements core.Driver.
func (d *Driver) IsEnabled(_ context.Context, sel selector.Selector) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("IsEnabled"); err != nil {
		return false, err
	}
	st := d.state(sel)
	if st == nil || !st.Exists {
		return false, nil
	}
	return st.Enabled, nil
}

// Exists implements core.Driver.
func (d *Driver) Exists(_ context.Context, sel selector.Selector) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Exists"); err != nil {
		return false, err
	}
	st := d.state(sel)
	return st != nil && st.Exists, nil
}

// Attribute implements core.Driver. A missing key reports nil.
func (d *Driver) Attribute(_ context.Context, sel selector.Selector, name string) (*string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Attribute"); err != nil {
		return nil, err
	}
	st := d.state(sel)
	if st == nil || !st.Exists {
		return nil, nil
	}
	val, ok := st.Attributes[name]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

// Property implements core.Driver.
func (d *Driver) Property(_ context.Context, sel selector.Selector, name string) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Property"); err != nil {
		return nil, err
	}
	st := d.state(sel)
	if st == nil || !st.Exists {
		return nil, nil
	}
	return st.Properties[name], nil
}

// Text implements core.Driver.
func (d *Driver) Text(_ context.Context, sel selector.Selector) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Text"); err != nil {
		return "", err
	}
	st := d.state(sel)
	if st == nil || !st.Exists {
		return "", nil
	}
	return st.Text, nil
}

// Element implements core.Driver. The handle is the element state itself.
func (d *Driver) Element(_ context.Context, sel selector.Selector) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Element"); err != nil {
		return nil, err
	}
	st := d.state(sel)
	if st == nil || !st.Exists {
		return nil, nil
	}
	return st, nil
}

// Framework implements core.Driver.
func (d *Driver) Framework() core.Framework {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.framework
}

// Bounds implements core.BoundsReader.
func (d *Driver) Bounds(_ context.Context, sel selector.Selector) (core.Bounds, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Bounds"); err != nil {
		return core.Bounds{}, err
	}
	st := d.state(sel)
	if st == nil || !st.Exists || !st.HasBounds {
		return core.Bounds{}, fmt.Errorf("no frame data for %s", sel.Describe())
	}
	return st.Bounds, nil
}

// Viewport implements core.ViewportProvider.
func (d *Driver) Viewport(_ context.Context) (core.Viewport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("Viewport"); err != nil {
		return core.Viewport{}, err
	}
	return d.viewport, nil
}

// Scroll implements core.Scrollable.
func (d *Driver) Scroll(_ context.Context, _ core.Direction, _ float64, _ *selector.Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["Scroll"]++
	if d.scrollErr != nil {
		return d.scrollErr
	}
	if d.boundaryAfter > 0 && d.scrollCount >= d.boundaryAfter {
		return core.ErrScrollBoundary
	}
	d.scrollCount++
	return nil
}

// CenterInViewport implements core.Centerer.
func (d *Driver) CenterInViewport(_ context.Context, sel selector.Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["CenterInViewport"]++
	d.centered = append(d.centered, key(sel))
	return nil
}

// Tap implements core.Interactable.
func (d *Driver) Tap(_ context.Context, sel selector.Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["Tap"]++
	st := d.state(sel)
	if st == nil || !st.Exists {
		return fmt.Errorf("cannot tap %s: element not found", sel.Describe())
	}
	return nil
}

// TypeText implements core.Interactable.
func (d *Driver) TypeText(_ context.Context, sel selector.Selector, text string, dismissKeyboard bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["TypeText"]++
	st := d.state(sel)
	if st == nil || !st.Exists {
		return fmt.Errorf("cannot type into %s: element not found", sel.Describe())
	}
	d.typed[key(sel)] += text
	if dismissKeyboard {
		d.calls["DismissKeyboard"]++
	}
	return nil
}

// ClearText implements core.Interactable.
func (d *Driver) ClearText(_ context.Context, sel selector.Selector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["ClearText"]++
	d.typed[key(sel)] = ""
	return nil
}

// DismissKeyboard implements core.Interactable.
func (d *Driver) DismissKeyboard(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DismissKeyboard"]++
	return nil
}

// Bare wraps a Driver so that only the required core.Driver surface is
// exposed. Tests use it to verify behavior when optional capabilities are
// absent.
type Bare struct {
	inner *Driver
}

// NewBare returns a capability-less view over d.
func NewBare(d *Driver) *Bare { return &Bare{inner: d} }

// IsVisible implements core.Driver.
func (b *Bare) IsVisible(ctx context.Context, sel selector.Selector) (bool, error) {
	return b.inner.IsVisible(ctx, sel)
}

// IsEnabled implements core.Driver.
func (b *Bare) IsEnabled(ctx context.Context, sel selector.Selector) (bool, error) {
	return b.inner.IsEnabled(ctx, sel)
}

// Exists implements core.Driver.
func (b *Bare) Exists(ctx context.Context, sel selector.Selector) (bool, error) {
	return b.inner.Exists(ctx, sel)
}

// Attribute implements core.Driver.
func (b *Bare) Attribute(ctx context.Context, sel selector.Selector, name string) (*string, error) {
	return b.inner.Attribute(ctx, sel, name)
}

// Property implements core.Driver.
func (b *Bare) Property(ctx context.Context, sel selector.Selector, name string) (any, error) {
	return b.inner.Property(ctx, sel, name)
}

// Text implements core.Driver.
func (b *Bare) Text(ctx context.Context, sel selector.Selector) (string, error) {
	return b.inner.Text(ctx, sel)
}

// Element implements core.Driver.
func (b *Bare) Element(ctx context.Context, sel selector.Selector) (any, error) {
	return b.inner.Element(ctx, sel)
}

// Framework implements core.Driver.
func (b *Bare) Framework() core.Framework {
	return b.inner.Framework()
}
