// Package browser implements the driver contract against a Chrome DevTools
// session. All element probes are single Runtime.evaluate round-trips so a
// polling loop never blocks on a built-in wait.
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// Driver drives a page through an established chromedp context. It implements
// the interaction, scroll, fractional-visibility, centering, bounds and
// viewport capabilities.
type Driver struct {
	ctx    context.Context
	logger *zap.Logger
}

// New creates a driver bound to a chromedp context (as returned by
// chromedp.NewContext) with a page already navigated.
func New(ctx context.Context, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{ctx: ctx, logger: logger}
}

// Framework identifies the backend. Browser sessions stand in for Cypress
// style web suites.
func (d *Driver) Framework() core.Framework { return core.FrameworkCypress }

// run executes actions on the chromedp session, honoring the caller's
// cancellation.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := d.ctx
	if ctx != nil {
		done := make(chan error, 1)
		go func() { done <- chromedp.Run(d.ctx, actions...) }()
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return chromedp.Run(runCtx, actions...)
}

// locatorJS returns a JavaScript expression that resolves the selector to an
// element or null.
func locatorJS(sel selector.Selector) (string, error) {
	switch {
	case sel.TestID != "":
		return fmt.Sprintf(`document.querySelector('[data-testid=%s]')`, jsString(sel.TestID)), nil
	case sel.ID != "":
		return fmt.Sprintf(`document.getElementById(%s)`, jsString(sel.ID)), nil
	case sel.Custom["css"] != "":
		return fmt.Sprintf(`document.querySelector(%s)`, jsString(sel.Custom["css"])), nil
	case sel.XPath != "":
		return fmt.Sprintf(
			`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			jsString(sel.XPath)), nil
	case sel.ClassName != "":
		return fmt.Sprintf(`document.getElementsByClassName(%s)[0] || null`, jsString(sel.ClassName)), nil
	case sel.Accessibility != "":
		return fmt.Sprintf(`document.querySelector('[aria-label=%s]')`, jsString(sel.Accessibility)), nil
	case sel.Text != "":
		return fmt.Sprintf(
			`document.evaluate('//*[normalize-space(text())=%s]', document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			jsString(sel.Text)), nil
	default:
		return "", core.ErrInvalidConfig.WithMessagef("selector %s has no hint usable in a browser", sel.Describe())
	}
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// eval runs a self-contained expression built around the selector and decodes
// the JSON result into out.
func (d *Driver) eval(ctx context.Context, sel selector.Selector, body string, out any) error {
	loc, err := locatorJS(sel)
	if err != nil {
		return err
	}
	expr := fmt.Sprintf(`(() => { const el = %s; %s })()`, loc, body)
	return d.run(ctx, chromedp.Evaluate(expr, out))
}

// IsVisible reports whether the element renders with a non-empty box and is
// not hidden by CSS.
func (d *Driver) IsVisible(ctx context.Context, sel selector.Selector) (bool, error) {
	var visible bool
	err := d.eval(ctx, sel, `
		if (!el) return false;
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;`, &visible)
	return visible, err
}

// IsEnabled reports whether the element is present and not disabled.
func (d *Driver) IsEnabled(ctx context.Context, sel selector.Selector) (bool, error) {
	var enabled bool
	err := d.eval(ctx, sel, `return !!el && !el.disabled;`, &enabled)
	return enabled, err
}

// Exists reports presence in the DOM.
func (d *Driver) Exists(ctx context.Context, sel selector.Selector) (bool, error) {
	var exists bool
	err := d.eval(ctx, sel, `return el !== null && el !== undefined;`, &exists)
	return exists, err
}

// Attribute returns the named attribute, nil when unset.
func (d *Driver) Attribute(ctx context.Context, sel selector.Selector, name string) (*string, error) {
	var raw json.RawMessage
	err := d.eval(ctx, sel, fmt.Sprintf(`return el ? el.getAttribute(%s) : null;`, jsString(name)), &raw)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

// Property returns the named DOM property.
func (d *Driver) Property(ctx context.Context, sel selector.Selector, name string) (any, error) {
	var value any
	err := d.eval(ctx, sel, fmt.Sprintf(`return el ? el[%s] : null;`, jsString(name)), &value)
	return value, err
}

// Text returns the element's rendered text.
func (d *Driver) Text(ctx context.Context, sel selector.Selector) (string, error) {
	var text string
	err := d.eval(ctx, sel, `return el ? el.innerText : '';`, &text)
	return text, err
}

// Element returns the element's outer HTML as the backend handle, nil when
// the element does not exist.
func (d *Driver) Element(ctx context.Context, sel selector.Selector) (any, error) {
	var raw json.RawMessage
	if err := d.eval(ctx, sel, `return el ? el.outerHTML : null;`, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var html string
	if err := json.Unmarshal(raw, &html); err != nil {
		return nil, err
	}
	return html, nil
}

// Interaction capability

// Tap clicks the element.
func (d *Driver) Tap(ctx context.Context, sel selector.Selector) error {
	var clicked bool
	if err := d.eval(ctx, sel, `if (!el) return false; el.click(); return true;`, &clicked); err != nil {
		return err
	}
	if !clicked {
		return core.ErrConditionNotMet.WithMessagef("tap %s: element not found", sel.Describe())
	}
	return nil
}

// TypeText appends text to the element's value. Browsers have no on-screen
// keyboard, so dismissKeyboard only blurs the element.
func (d *Driver) TypeText(ctx context.Context, sel selector.Selector, text string, dismissKeyboard bool) error {
	body := fmt.Sprintf(`
		if (!el) return false;
		el.focus();
		el.value = (el.value || '') + %s;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		%s
		return true;`, jsString(text), blurStmt(dismissKeyboard))
	var typed bool
	if err := d.eval(ctx, sel, body, &typed); err != nil {
		return err
	}
	if !typed {
		return core.ErrConditionNotMet.WithMessagef("type into %s: element not found", sel.Describe())
	}
	return nil
}

func blurStmt(dismiss bool) string {
	if dismiss {
		return "el.blur();"
	}
	return ""
}

// ClearText clears the element's value.
func (d *Driver) ClearText(ctx context.Context, sel selector.Selector) error {
	var cleared bool
	err := d.eval(ctx, sel, `
		if (!el) return false;
		el.value = '';
		el.dispatchEvent(new Event('input', {bubbles: true}));
		return true;`, &cleared)
	if err != nil {
		return err
	}
	if !cleared {
		return core.ErrConditionNotMet.WithMessagef("clear %s: element not found", sel.Describe())
	}
	return nil
}

// DismissKeyboard blurs the focused element.
func (d *Driver) DismissKeyboard(ctx context.Context) error {
	var ignored bool
	return d.run(ctx, chromedp.Evaluate(
		`(() => { if (document.activeElement) document.activeElement.blur(); return true; })()`, &ignored))
}

// Scroll capability

// Scroll moves the container (the document when container is nil) by amount
// of the viewport extent. No movement means the edge was reached.
func (d *Driver) Scroll(ctx context.Context, direction core.Direction, amount float64, container *selector.Selector) error {
	target := "document.scrollingElement"
	if container != nil {
		loc, err := locatorJS(*container)
		if err != nil {
			return err
		}
		target = loc
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

	expr := fmt.Sprintf(`(() => {
		const t = %s;
		if (!t) return 'missing';
		const before = [t.scrollLeft, t.scrollTop];
		t.scrollBy({left: %s, top: %s, behavior: 'instant'});
		return (t.scrollLeft !== before[0] || t.scrollTop !== before[1]) ? 'moved' : 'stuck';
	})()`, target, dx, dy)

	var outcome string
	if err := d.run(ctx, chromedp.Evaluate(expr, &outcome)); err != nil {
		return err
	}
	switch outcome {
	case "moved":
		return nil
	case "stuck":
		return core.ErrScrollBoundary.WithMessagef("unable to scroll %s any further", direction)
	default:
		return core.ErrConditionNotMet.WithMessage("scroll container not found")
	}
}

// Fractional-visibility capability

// IsSubstantiallyVisible computes the fraction of the element inside the
// window viewport directly in the page.
func (d *Driver) IsSubstantiallyVisible(ctx context.Context, sel selector.Selector, threshold float64) (bool, error) {
	var ok bool
	body := fmt.Sprintf(`
		if (!el) return false;
		const rect = el.getBoundingClientRect();
		const area = rect.width * rect.height;
		if (area <= 0) return false;
		const left = Math.max(rect.left, 0);
		const top = Math.max(rect.top, 0);
		const right = Math.min(rect.right, window.innerWidth);
		const bottom = Math.min(rect.bottom, window.innerHeight);
		const visible = Math.max(right - left, 0) * Math.max(bottom - top, 0);
		return visible / area >= %v;`, threshold)
	err := d.eval(ctx, sel, body, &ok)
	return ok, err
}

// Centering capability

// CenterInViewport scrolls the element to the middle of the window.
func (d *Driver) CenterInViewport(ctx context.Context, sel selector.Selector) error {
	var centered bool
	err := d.eval(ctx, sel, `
		if (!el) return false;
		el.scrollIntoView({block: 'center', inline: 'center', behavior: 'instant'});
		return true;`, &centered)
	if err != nil {
		return err
	}
	if !centered {
		return core.ErrConditionNotMet.WithMessagef("center %s: element not found", sel.Describe())
	}
	return nil
}

// Bounds capability

type domRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the element's frame in viewport coordinates.
func (d *Driver) Bounds(ctx context.Context, sel selector.Selector) (core.Bounds, error) {
	var rect domRect
	err := d.eval(ctx, sel, `
		if (!el) return {x: 0, y: 0, width: 0, height: 0};
		const r = el.getBoundingClientRect();
		return {x: r.x, y: r.y, width: r.width, height: r.height};`, &rect)
	if err != nil {
		return core.Bounds{}, err
	}
	return core.Bounds{X: int(rect.X), Y: int(rect.Y), Width: int(rect.Width), Height: int(rect.Height)}, nil
}

// Viewport capability

// Viewport reports the CSS layout viewport. Browsers have no status bar or
// home indicator, so the insets are zero.
func (d *Driver) Viewport(ctx context.Context) (core.Viewport, error) {
	var vp core.Viewport
	err := d.run(ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		_, _, _, cssVP, _, _, err := page.GetLayoutMetrics().Do(cctx)
		if err != nil {
			return err
		}
		if cssVP != nil {
			vp.Width = int(cssVP.ClientWidth)
			vp.Height = int(cssVP.ClientHeight)
		}
		return nil
	}))
	if err != nil {
		return core.Viewport{}, err
	}
	if vp.Width == 0 || vp.Height == 0 {
		return core.DefaultViewport(), nil
	}
	return vp, nil
}
