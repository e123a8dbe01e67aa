// Package visibility estimates what fraction of an element's bounding box
// lies inside the safe viewport, refining the backend's binary visible flag
// into "substantially visible".
package visibility

import (
	"context"

	"go.uber.org/zap"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// Estimator computes fractional visibility against a driver. The fractional
// check is a refinement of basic visibility, never a replacement: whenever
// frame or viewport data is unavailable the estimator answers with the basic
// visibility result instead of failing.
type Estimator struct {
	driver core.Driver
	logger *zap.Logger
}

// NewEstimator returns an estimator over d. A nil logger is replaced by a
// no-op one.
func NewEstimator(d core.Driver, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{driver: d, logger: logger}
}

// SufficientlyVisible reports whether the fraction of the element inside the
// safe viewport is at least threshold. Basic visibility gates the whole
// check: an element the backend does not consider visible is never
// substantially visible.
func (e *Estimator) SufficientlyVisible(ctx context.Context, sel selector.Selector, threshold float64) bool {
	visible, err := e.driver.IsVisible(ctx, sel)
	if err != nil {
		e.logger.Warn("basic visibility probe failed",
			zap.String("selector", sel.Describe()), zap.Error(err))
		return false
	}
	if !visible {
		return false
	}
	if threshold <= 0 {
		return true
	}

	reader, ok := e.driver.(core.BoundsReader)
	if !ok {
		// No frame source at all: basic visibility is the best answer.
		return true
	}
	frame, err := reader.Bounds(ctx, sel)
	if err != nil {
		e.logger.Debug("frame unavailable, falling back to basic visibility",
			zap.String("selector", sel.Describe()), zap.Error(err))
		return true
	}

	return Fraction(frame, e.safeArea(ctx)) >= threshold
}

// safeArea resolves the safe viewport rectangle, preferring live metrics
// from the driver over the fixed device-class constants.
func (e *Estimator) safeArea(ctx context.Context) core.Bounds {
	if provider, ok := e.driver.(core.ViewportProvider); ok {
		vp, err := provider.Viewport(ctx)
		if err == nil && vp.Width > 0 && vp.Height > 0 {
			return vp.SafeArea()
		}
		if err != nil {
			e.logger.Debug("viewport metrics unavailable, using defaults", zap.Error(err))
		}
	}
	return core.DefaultViewport().SafeArea()
}

// Fraction returns intersectionArea(frame, safe) / area(frame): how much of
// the element is inside the safe area, not how much of the screen it covers.
// Pure geometry, no driver involved.
func Fraction(frame, safe core.Bounds) float64 {
	area := frame.Area()
	if area == 0 {
		return 0
	}

	// Entirely above or entirely below the safe area: no overlap possible.
	if frame.Y+frame.Height <= safe.Y || frame.Y >= safe.Y+safe.Height {
		return 0
	}

	inter := frame.Intersect(safe)
	if inter.Width <= 0 || inter.Height <= 0 {
		return 0
	}
	return float64(inter.Area()) / float64(area)
}
