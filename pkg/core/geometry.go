package core

// Bounds represents element position and size in screen pixels.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Area returns the surface of the bounds in square pixels. Degenerate
// rectangles have zero area.
func (b Bounds) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Intersect returns the overlapping rectangle of b and other. The result has
// non-positive width or height when the rectangles do not overlap.
func (b Bounds) Intersect(other Bounds) Bounds {
	x1 := max(b.X, other.X)
	y1 := max(b.Y, other.Y)
	x2 := min(b.X+b.Width, other.X+other.Width)
	y2 := min(b.Y+b.Height, other.Y+other.Height)
	return Bounds{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Viewport describes the screen and the system chrome insets that carve the
// safe area out of it. TopInset covers the status bar, BottomInset the home
// indicator.
type Viewport struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	TopInset    int `json:"topInset"`
	BottomInset int `json:"bottomInset"`
}

// Fixed device-class constants used when the driver cannot report live
// viewport metrics. They approximate a current-generation phone in portrait.
const (
	DefaultScreenWidth  = 390
	DefaultScreenHeight = 844
	DefaultTopInset     = 47
	DefaultBottomInset  = 34
)

// DefaultViewport returns the fixed device-class viewport.
func DefaultViewport() Viewport {
	return Viewport{
		Width:       DefaultScreenWidth,
		Height:      DefaultScreenHeight,
		TopInset:    DefaultTopInset,
		BottomInset: DefaultBottomInset,
	}
}

// SafeArea returns the screen rectangle minus the top and bottom insets.
func (v Viewport) SafeArea() Bounds {
	return Bounds{
		X:      0,
		Y:      v.TopInset,
		Width:  v.Width,
		Height: v.Height - v.TopInset - v.BottomInset,
	}
}
