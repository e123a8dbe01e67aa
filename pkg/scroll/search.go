// Package scroll implements the scroll-search loop: repeatedly check
// visibility, scroll the container a step when the element is not there yet,
// and fall back to weaker acceptance near the end of the budget.
package scroll

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
	"github.com/devicelab-dev/uiwait/pkg/visibility"
)

// Defaults for the scroll-search.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultInterval   = 500 * time.Millisecond
	DefaultAmount     = 0.3
	DefaultEdgeMargin = 50
)

// Spec configures one scroll-search.
type Spec struct {
	// Direction of the scroll gesture.
	Direction core.Direction
	// Timeout is the total search budget (default 10s).
	Timeout time.Duration
	// Interval is the pause between scroll attempts (default 500ms).
	Interval time.Duration
	// Amount is the scroll step as a fraction of the container extent
	// (default 0.3).
	Amount float64
	// Container restricts scrolling to one scrollable; nil means the
	// primary scrollable surface.
	Container *selector.Selector
	// VisibilityThreshold is the required on-screen fraction. Zero means
	// basic visibility suffices.
	VisibilityThreshold float64
	// CenterInViewport centers the element after it is found, best effort.
	CenterInViewport bool
	// EdgeMargin is the pixel margin backends keep from container edges
	// when scrolling or centering (default 50).
	EdgeMargin int
	// UseBasicVisibility forces the plain visible flag even when a
	// threshold is set.
	UseBasicVisibility bool
}

// DefaultSpec returns the standard search configuration for a direction.
func DefaultSpec(direction core.Direction) Spec {
	return Spec{
		Direction:  direction,
		Timeout:    DefaultTimeout,
		Interval:   DefaultInterval,
		Amount:     DefaultAmount,
		EdgeMargin: DefaultEdgeMargin,
	}
}

func (s Spec) normalized() Spec {
	if s.Direction == "" {
		s.Direction = core.DirectionDown
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.Interval <= 0 {
		s.Interval = DefaultInterval
	}
	if s.Amount <= 0 {
		s.Amount = DefaultAmount
	}
	if s.EdgeMargin <= 0 {
		s.EdgeMargin = DefaultEdgeMargin
	}
	return s
}

// NativeSearcher is the optional capability of backends that implement the
// whole scroll-until-visible loop natively. When present the engine
// delegates to it instead of driving generic scroll steps.
type NativeSearcher interface {
	ScrollUntilVisible(ctx context.Context, sel selector.Selector, spec Spec) (bool, error)
}

// Search drives a scrollable container toward an off-screen element.
type Search struct {
	driver    core.Driver
	estimator *visibility.Estimator
	logger    *zap.Logger
}

// NewSearch returns a search engine over d. A nil logger is replaced by a
// no-op one.
func NewSearch(d core.Driver, logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Search{
		driver:    d,
		estimator: visibility.NewEstimator(d, logger),
		logger:    logger,
	}
}

// Execute runs the search until the element is (substantially) visible or
// the budget is exhausted. A nil return means found; every failure is an
// error carrying the direction and step used, for triage without source
// access.
func (s *Search) Execute(ctx context.Context, sel selector.Selector, spec Spec) error {
	spec = spec.normalized()

	if native, ok := s.driver.(NativeSearcher); ok {
		return s.executeNative(ctx, native, sel, spec)
	}

	scroller, ok := s.driver.(core.Scrollable)
	if !ok {
		return core.ErrNotScrollable.WithMessagef(
			"cannot scroll to %s: driver %q does not support scrolling", sel.Describe(), s.driver.Framework())
	}

	useFraction := !spec.UseBasicVisibility && spec.VisibilityThreshold > 0
	start := time.Now()

	for time.Since(start) < spec.Timeout {
		found := s.check(ctx, sel, spec, useFraction, spec.VisibilityThreshold)

		// Scrolling is imprecise; a strict threshold that keeps barely
		// missing right before timeout is relaxed once, bounded below
		// by 0.5 and by 70% of the requested value.
		if !found && useFraction && time.Since(start) > spec.Timeout/2 {
			relaxed := math.Max(0.5, spec.VisibilityThreshold*0.7)
			if s.check(ctx, sel, spec, true, relaxed) {
				s.logger.Info("accepting element with relaxed visibility threshold",
					zap.String("selector", sel.Describe()),
					zap.Float64("requested", spec.VisibilityThreshold),
					zap.Float64("relaxed", relaxed))
				found = true
			}
		}

		if found {
			s.center(ctx, sel, spec)
			return nil
		}

		if err := scroller.Scroll(ctx, spec.Direction, spec.Amount, spec.Container); err != nil {
			if core.IsScrollBoundary(err) {
				// End of content: the element may still be basically
				// visible at the final position.
				if visible, verr := s.driver.IsVisible(ctx, sel); verr == nil && visible {
					s.center(ctx, sel, spec)
					return nil
				}
				return core.ErrScrollExhausted.WithMessagef(
					"reached end of scrollable content without finding %s (direction %s, step %.0f%%)",
					sel.Describe(), spec.Direction, spec.Amount*100).WithCause(err)
			}
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(spec.Interval):
		}
	}

	return core.ErrScrollTimeout.WithMessagef(
		"element %s not found after scrolling %s for %s (step %.0f%% per scroll)",
		sel.Describe(), spec.Direction, spec.Timeout, spec.Amount*100)
}

// check runs one visibility decision for this tick.
func (s *Search) check(ctx context.Context, sel selector.Selector, spec Spec, useFraction bool, threshold float64) bool {
	if !useFraction {
		visible, err := s.driver.IsVisible(ctx, sel)
		if err != nil {
			s.logger.Warn("visibility probe failed during scroll-search",
				zap.String("selector", sel.Describe()), zap.Error(err))
			return false
		}
		return visible
	}

	// Prefer the backend's own fractional check when it has one.
	if prober, ok := s.driver.(core.FractionProber); ok {
		visible, err := prober.IsSubstantiallyVisible(ctx, sel, threshold)
		if err != nil {
			s.logger.Warn("fractional visibility probe failed",
				zap.String("selector", sel.Describe()), zap.Error(err))
			return false
		}
		return visible
	}
	return s.estimator.SufficientlyVisible(ctx, sel, threshold)
}

// center brings the found element to the middle of the viewport when asked
// to and when the driver can. Failures are logged, never fatal: the search
// already succeeded.
func (s *Search) center(ctx context.Context, sel selector.Selector, spec Spec) {
	if !spec.CenterInViewport {
		return
	}
	centerer, ok := s.driver.(core.Centerer)
	if !ok {
		return
	}
	if err := centerer.CenterInViewport(ctx, sel); err != nil {
		s.logger.Warn("failed to center element in viewport",
			zap.String("selector", sel.Describe()), zap.Error(err))
	}
}

// executeNative delegates to the backend's scroll-until-visible.
func (s *Search) executeNative(ctx context.Context, native NativeSearcher, sel selector.Selector, spec Spec) error {
	found, err := native.ScrollUntilVisible(ctx, sel, spec)
	if err != nil {
		if core.IsScrollBoundary(err) {
			if visible, verr := s.driver.IsVisible(ctx, sel); verr == nil && visible {
				s.center(ctx, sel, spec)
				return nil
			}
			return core.ErrScrollExhausted.WithMessagef(
				"reached end of scrollable content without finding %s (direction %s, step %.0f%%)",
				sel.Describe(), spec.Direction, spec.Amount*100).WithCause(err)
		}
		return err
	}
	if !found {
		return core.ErrScrollTimeout.WithMessagef(
			"element %s not found after scrolling %s for %s (step %.0f%% per scroll)",
			sel.Describe(), spec.Direction, spec.Timeout, spec.Amount*100)
	}
	s.center(ctx, sel, spec)
	return nil
}
