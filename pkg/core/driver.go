// Package core defines the driver contract that every backend adapter must
// satisfy, plus the shared geometry and error types.
//
// The required Driver interface covers state probes and accessors only.
// Interaction, scrolling, frame reading and viewport metrics are optional
// capabilities expressed as narrow sub-interfaces; callers check for them
// with a type assertion instead of probing for methods at runtime.
package core

import (
	"context"

	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// Framework identifies the automation backend behind a driver.
type Framework string

// Known frameworks.
const (
	FrameworkDetox      Framework = "detox"
	FrameworkAppium     Framework = "appium"
	FrameworkPlaywright Framework = "playwright"
	FrameworkCypress    Framework = "cypress"
	FrameworkCustom     Framework = "custom"
)

// Direction of a scroll gesture.
type Direction string

// Scroll directions.
const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Driver is the required capability surface of a backend adapter.
//
// The boolean probes must tolerate "element not found" by returning false
// with a nil error; a non-nil error is reserved for transport failures and
// programmer errors such as a malformed selector. Attribute returns nil when
// the attribute is absent, so an empty string remains distinguishable from
// "not set". Element returns an opaque backend handle (nil when the element
// does not exist) for use by custom predicates.
type Driver interface {
	IsVisible(ctx context.Context, sel selector.Selector) (bool, error)
	IsEnabled(ctx context.Context, sel selector.Selector) (bool, error)
	Exists(ctx context.Context, sel selector.Selector) (bool, error)

	Attribute(ctx context.Context, sel selector.Selector, name string) (*string, error)
	Property(ctx context.Context, sel selector.Selector, name string) (any, error)
	Text(ctx context.Context, sel selector.Selector) (string, error)
	Element(ctx context.Context, sel selector.Selector) (any, error)

	Framework() Framework
}

// Interactable is the optional interaction capability. Drivers that cannot
// synthesize input simply do not implement it; the element wrapper turns the
// missing capability into a descriptive error instead of a crash.
type Interactable interface {
	Tap(ctx context.Context, sel selector.Selector) error
	// TypeText types into the element and dismisses the on-screen keyboard
	// afterwards unless dismissKeyboard is false.
	TypeText(ctx context.Context, sel selector.Selector, text string, dismissKeyboard bool) error
	ClearText(ctx context.Context, sel selector.Selector) error
	DismissKeyboard(ctx context.Context) error
}

// Scrollable is the optional scroll capability. Scroll moves the container
// (or the default scrollable surface when container is nil) by amount,
// expressed as a fraction of the container extent in the given direction.
// When no further scrolling is possible it must return an error matching
// IsScrollBoundary.
type Scrollable interface {
	Scroll(ctx context.Context, direction Direction, amount float64, container *selector.Selector) error
}

// FractionProber is an optional backend-optimized fractional visibility
// check. When absent the generic estimator in pkg/visibility is used.
type FractionProber interface {
	IsSubstantiallyVisible(ctx context.Context, sel selector.Selector, threshold float64) (bool, error)
}

// Centerer is the optional capability to bring an element to the middle of
// the viewport after a scroll-search finds it.
type Centerer interface {
	CenterInViewport(ctx context.Context, sel selector.Selector) error
}

// BoundsReader exposes an element's on-screen frame. The visibility-fraction
// estimator degrades to the basic visibility answer when this capability is
// missing or the read fails.
type BoundsReader interface {
	Bounds(ctx context.Context, sel selector.Selector) (Bounds, error)
}

// ViewportProvider supplies live viewport and safe-area metrics. Without it
// the estimator falls back to fixed device-class constants.
type ViewportProvider interface {
	Viewport(ctx context.Context) (Viewport, error)
}
