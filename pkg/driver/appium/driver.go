package appium

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// Default status-bar and home-indicator heights used to derive the safe area
// when the backend does not report insets.
const (
	iosTopInset     = 47
	iosBottomInset  = 34
	androidTopInset = 24
)

// Driver adapts the W3C client to the driver contract. It implements the
// interaction, scroll, bounds and viewport capabilities.
type Driver struct {
	client *Client
	logger *zap.Logger
}

// New creates a driver backed by the Appium server at serverURL.
func New(serverURL string, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{client: NewClient(serverURL), logger: logger}
}

// Connect opens a session with the given capabilities.
func (d *Driver) Connect(ctx context.Context, capabilities map[string]any) error {
	if err := d.client.Connect(ctx, capabilities); err != nil {
		return core.ErrServerUnreachable.WithMessagef("appium session: %v", err).WithCause(err)
	}
	d.logger.Info("appium session established",
		zap.String("platform", d.client.Platform()))
	return nil
}

// Disconnect closes the session.
func (d *Driver) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Framework identifies the backend.
func (d *Driver) Framework() core.Framework { return core.FrameworkAppium }

// locator maps a selector to a WebDriver strategy/value pair. Priority
// follows the selector's hint precedence.
func (d *Driver) locator(sel selector.Selector) (strategy, value string, err error) {
	switch {
	case sel.TestID != "":
		return "accessibility id", sel.TestID, nil
	case sel.Accessibility != "":
		return "accessibility id", sel.Accessibility, nil
	case sel.ID != "":
		return "id", sel.ID, nil
	case sel.XPath != "":
		return "xpath", sel.XPath, nil
	case sel.ClassName != "":
		return "class name", sel.ClassName, nil
	case sel.Text != "":
		escaped := strings.ReplaceAll(sel.Text, `"`, `&quot;`)
		return "xpath", fmt.Sprintf(`//*[@text="%[1]s" or @label="%[1]s" or @value="%[1]s"]`, escaped), nil
	default:
		return "", "", core.ErrInvalidConfig.WithMessagef("selector %s has no hint usable with appium", sel.Describe())
	}
}

func (d *Driver) find(ctx context.Context, sel selector.Selector) (string, error) {
	strategy, value, err := d.locator(sel)
	if err != nil {
		return "", err
	}
	return d.client.FindElement(ctx, strategy, value)
}

// IsVisible reports whether the element is displayed. A missing element is
// not an error.
func (d *Driver) IsVisible(ctx context.Context, sel selector.Selector) (bool, error) {
	id, err := d.find(ctx, sel)
	if errors.Is(err, errNoSuchElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return d.client.IsElementDisplayed(ctx, id)
}

// IsEnabled reports whether the element is enabled.
func (d *Driver) IsEnabled(ctx context.Context, sel selector.Selector) (bool, error) {
	id, err := d.find(ctx, sel)
	if errors.Is(err, errNoSuchElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return d.client.IsElementEnabled(ctx, id)
}

// Exists reports presence in the hierarchy.
func (d *Driver) Exists(ctx context.Context, sel selector.Selector) (bool, error) {
	_, err := d.find(ctx, sel)
	if errors.Is(err, errNoSuchElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Attribute returns the named attribute, nil when unset.
func (d *Driver) Attribute(ctx context.Context, sel selector.Selector, name string) (*string, error) {
	id, err := d.find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return d.client.GetElementAttribute(ctx, id, name)
}

// Property returns the named property.
func (d *Driver) Property(ctx context.Context, sel selector.Selector, name string) (any, error) {
	id, err := d.find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return d.client.GetElementProperty(ctx, id, name)
}

// Text returns the element's text.
func (d *Driver) Text(ctx context.Context, sel selector.Selector) (string, error) {
	id, err := d.find(ctx, sel)
	if err != nil {
		return "", err
	}
	return d.client.GetElementText(ctx, id)
}

// Element returns the WebDriver element ID as the backend handle, nil when
// the element does not exist.
func (d *Driver) Element(ctx context.Context, sel selector.Selector) (any, error) {
	id, err := d.find(ctx, sel)
	if errors.Is(err, errNoSuchElement) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return id, nil
}

// Interaction capability

// Tap clicks the element.
func (d *Driver) Tap(ctx context.Context, sel selector.Selector) error {
	id, err := d.find(ctx, sel)
	if err != nil {
		return err
	}
	return d.client.ClickElement(ctx, id)
}

// TypeText types into the element, dismissing the keyboard afterwards unless
// told otherwise.
func (d *Driver) TypeText(ctx context.Context, sel selector.Selector, text string, dismissKeyboard bool) error {
	id, err := d.find(ctx, sel)
	if err != nil {
		return err
	}
	if err := d.client.SendKeysToElement(ctx, id, text); err != nil {
		return err
	}
	if dismissKeyboard {
		if err := d.DismissKeyboard(ctx); err != nil {
			d.logger.Warn("hide keyboard failed", zap.Error(err))
		}
	}
	return nil
}

// ClearText clears the element's text.
func (d *Driver) ClearText(ctx context.Context, sel selector.Selector) error {
	id, err := d.find(ctx, sel)
	if err != nil {
		return err
	}
	return d.client.ClearElement(ctx, id)
}

// DismissKeyboard hides the on-screen keyboard.
func (d *Driver) DismissKeyboard(ctx context.Context) error {
	return d.client.HideKeyboard(ctx)
}

// Scroll capability

// Scroll moves the container (the whole screen when container is nil) by
// amount of its extent. A backend report of "cannot scroll further" is
// translated to the boundary sentinel.
func (d *Driver) Scroll(ctx context.Context, direction core.Direction, amount float64, container *selector.Selector) error {
	args := map[string]any{
		"direction": string(direction),
		"percent":   amount,
	}
	if container != nil {
		id, err := d.find(ctx, *container)
		if err != nil {
			return err
		}
		args["elementId"] = id
	} else {
		w, h := d.client.ScreenSize()
		if w > 0 && h > 0 {
			// Inset the gesture area so it stays clear of system bars.
			args["left"] = w / 10
			args["top"] = h / 10
			args["width"] = w * 8 / 10
			args["height"] = h * 8 / 10
		}
	}

	if d.client.Platform() == "ios" {
		_, err := d.client.ExecuteMobile(ctx, "scroll", args)
		if err != nil && strings.Contains(strings.ToLower(err.Error()), "unable to scroll") {
			return core.ErrScrollBoundary.WithCause(err)
		}
		return err
	}

	moved, err := d.client.ExecuteMobile(ctx, "scrollGesture", args)
	if err != nil {
		return err
	}
	if did, ok := moved.(bool); ok && !did {
		return core.ErrScrollBoundary.WithMessagef("unable to scroll %s any further", direction)
	}
	return nil
}

// Bounds capability

// Bounds returns the element's on-screen frame.
func (d *Driver) Bounds(ctx context.Context, sel selector.Selector) (core.Bounds, error) {
	id, err := d.find(ctx, sel)
	if err != nil {
		return core.Bounds{}, err
	}
	x, y, w, h, err := d.client.GetElementRect(ctx, id)
	if err != nil {
		return core.Bounds{}, err
	}
	return core.Bounds{X: x, Y: y, Width: w, Height: h}, nil
}

// Viewport capability

// Viewport reports the screen size with platform-default insets.
func (d *Driver) Viewport(ctx context.Context) (core.Viewport, error) {
	w, h := d.client.ScreenSize()
	if w == 0 || h == 0 {
		return core.DefaultViewport(), nil
	}
	vp := core.Viewport{Width: w, Height: h}
	if d.client.Platform() == "ios" {
		vp.TopInset = iosTopInset
		vp.BottomInset = iosBottomInset
	} else {
		vp.TopInset = androidTopInset
	}
	return vp, nil
}
