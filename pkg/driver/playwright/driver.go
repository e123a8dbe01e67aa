// Package playwright implements the driver contract on top of a playwright-go
// page. Probes are bounded with short client-side timeouts so the polling
// loops stay in charge of waiting.
package playwright

import (
	"context"
	"fmt"

	pw "github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// probeTimeoutMs caps the library's built-in auto-waiting on accessor calls.
const probeTimeoutMs = 1000.0

// Driver drives a single page. It implements the interaction, scroll,
// centering, bounds and viewport capabilities.
type Driver struct {
	page   pw.Page
	logger *zap.Logger
}

// New creates a driver bound to an open page.
func New(page pw.Page, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{page: page, logger: logger}
}

// Framework identifies the backend.
func (d *Driver) Framework() core.Framework { return core.FrameworkPlaywright }

// query maps a selector to a playwright selector string.
func query(sel selector.Selector) (string, error) {
	switch {
	case sel.TestID != "":
		return fmt.Sprintf(`[data-testid=%q]`, sel.TestID), nil
	case sel.ID != "":
		return "#" + sel.ID, nil
	case sel.Custom["css"] != "":
		return sel.Custom["css"], nil
	case sel.XPath != "":
		return "xpath=" + sel.XPath, nil
	case sel.ClassName != "":
		return "." + sel.ClassName, nil
	case sel.Accessibility != "":
		return fmt.Sprintf(`[aria-label=%q]`, sel.Accessibility), nil
	case sel.Text != "":
		return fmt.Sprintf(`text=%q`, sel.Text), nil
	default:
		return "", core.ErrInvalidConfig.WithMessagef("selector %s has no hint usable with playwright", sel.Describe())
	}
}

func (d *Driver) locate(ctx context.Context, sel selector.Selector) (pw.Locator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := query(sel)
	if err != nil {
		return nil, err
	}
	return d.page.Locator(q).First(), nil
}

// IsVisible reports whether the element is rendered. A missing element is
// not an error.
func (d *Driver) IsVisible(ctx context.Context, sel selector.Selector) (bool, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return false, err
	}
	return loc.IsVisible()
}

// IsEnabled reports whether the element is present and enabled.
func (d *Driver) IsEnabled(ctx context.Context, sel selector.Selector) (bool, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return false, err
	}
	count, err := loc.Count()
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	return loc.IsEnabled()
}

// Exists reports presence in the DOM.
func (d *Driver) Exists(ctx context.Context, sel selector.Selector) (bool, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return false, err
	}
	count, err := loc.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Attribute returns the named attribute, nil when unset.
func (d *Driver) Attribute(ctx context.Context, sel selector.Selector, name string) (*string, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return nil, err
	}
	value, err := loc.Evaluate("(el, name) => el.getAttribute(name)", name,
		pw.LocatorEvaluateOptions{Timeout: pw.Float(probeTimeoutMs)})
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	s := fmt.Sprint(value)
	return &s, nil
}

// Property returns the named DOM property.
func (d *Driver) Property(ctx context.Context, sel selector.Selector, name string) (any, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return nil, err
	}
	return loc.Evaluate("(el, name) => el[name]", name,
		pw.LocatorEvaluateOptions{Timeout: pw.Float(probeTimeoutMs)})
}

// Text returns the element's rendered text.
func (d *Driver) Text(ctx context.Context, sel selector.Selector) (string, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return "", err
	}
	return loc.InnerText(pw.LocatorInnerTextOptions{Timeout: pw.Float(probeTimeoutMs)})
}

// Element returns the locator as the backend handle, nil when the element
// does not exist.
func (d *Driver) Element(ctx context.Context, sel selector.Selector) (any, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return nil, err
	}
	count, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return loc, nil
}

// Interaction capability

// Tap taps the element.
func (d *Driver) Tap(ctx context.Context, sel selector.Selector) error {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return err
	}
	return loc.Tap(pw.LocatorTapOptions{Timeout: pw.Float(probeTimeoutMs)})
}

// TypeText types into the element. Browsers have no on-screen keyboard, so
// dismissKeyboard only blurs the element.
func (d *Driver) TypeText(ctx context.Context, sel selector.Selector, text string, dismissKeyboard bool) error {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return err
	}
	if err := loc.PressSequentially(text, pw.LocatorPressSequentiallyOptions{Timeout: pw.Float(probeTimeoutMs)}); err != nil {
		return err
	}
	if dismissKeyboard {
		return loc.Blur()
	}
	return nil
}

// ClearText clears the element's text.
func (d *Driver) ClearText(ctx context.Context, sel selector.Selector) error {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return err
	}
	return loc.Clear(pw.LocatorClearOptions{Timeout: pw.Float(probeTimeoutMs)})
}

// DismissKeyboard blurs the focused element.
func (d *Driver) DismissKeyboard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Evaluate(`() => { if (document.activeElement) document.activeElement.blur(); }`)
	return err
}

// Scroll capability

// Scroll moves the container (the document when container is nil) by amount
// of the viewport extent. No movement means the edge was reached.
func (d *Driver) Scroll(ctx context.Context, direction core.Direction, amount float64, container *selector.Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var dx, dy string
	switch direction {
	case core.DirectionDown:
		dy = fmt.Sprintf("t.clientHeight * %v", amount)
	case core.DirectionUp:
		dy = fmt.Sprintf("-t.clientHeight * %v", amount)
	case core.DirectionRight:
		dx = fmt.Sprintf("t.clientWidth * %v", amount)
	case core.DirectionLeft:
		dx = fmt.Sprintf("-t.clientWidth * %v", amount)
	default:
		return core.ErrInvalidConfig.WithMessagef("unknown scroll direction %q", direction)
	}
	if dx == "" {
		dx = "0"
	}
	if dy == "" {
		dy = "0"
	}

	script := fmt.Sprintf(`t => {
		const before = [t.scrollLeft, t.scrollTop];
		t.scrollBy({left: %s, top: %s, behavior: 'instant'});
		return t.scrollLeft !== before[0] || t.scrollTop !== before[1];
	}`, dx, dy)

	var moved any
	var err error
	if container != nil {
		loc, lerr := d.locate(ctx, *container)
		if lerr != nil {
			return lerr
		}
		moved, err = loc.Evaluate(script, nil, pw.LocatorEvaluateOptions{Timeout: pw.Float(probeTimeoutMs)})
	} else {
		moved, err = d.page.Evaluate(fmt.Sprintf(`() => { const t = document.scrollingElement; return (%s)(t); }`, script))
	}
	if err != nil {
		return err
	}
	if did, ok := moved.(bool); ok && !did {
		return core.ErrScrollBoundary.WithMessagef("unable to scroll %s any further", direction)
	}
	return nil
}

// Centering capability

// CenterInViewport scrolls the element to the middle of the window.
func (d *Driver) CenterInViewport(ctx context.Context, sel selector.Selector) error {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return err
	}
	_, err = loc.Evaluate(`el => el.scrollIntoView({block: 'center', inline: 'center', behavior: 'instant'})`, nil,
		pw.LocatorEvaluateOptions{Timeout: pw.Float(probeTimeoutMs)})
	return err
}

// Bounds capability

// Bounds returns the element's frame in viewport coordinates.
func (d *Driver) Bounds(ctx context.Context, sel selector.Selector) (core.Bounds, error) {
	loc, err := d.locate(ctx, sel)
	if err != nil {
		return core.Bounds{}, err
	}
	box, err := loc.BoundingBox()
	if err != nil {
		return core.Bounds{}, err
	}
	if box == nil {
		return core.Bounds{}, nil
	}
	return core.Bounds{
		X:      int(box.X),
		Y:      int(box.Y),
		Width:  int(box.Width),
		Height: int(box.Height),
	}, nil
}

// Viewport capability

// Viewport reports the window's inner size with zero insets.
func (d *Driver) Viewport(ctx context.Context) (core.Viewport, error) {
	if err := ctx.Err(); err != nil {
		return core.Viewport{}, err
	}
	value, err := d.page.Evaluate(`() => ({width: window.innerWidth, height: window.innerHeight})`)
	if err != nil {
		return core.Viewport{}, err
	}
	dims, ok := value.(map[string]any)
	if !ok {
		return core.DefaultViewport(), nil
	}
	vp := core.Viewport{}
	if w, ok := dims["width"].(float64); ok {
		vp.Width = int(w)
	}
	if h, ok := dims["height"].(float64); ok {
		vp.Height = int(h)
	}
	if vp.Width == 0 || vp.Height == 0 {
		return core.DefaultViewport(), nil
	}
	return vp, nil
}
