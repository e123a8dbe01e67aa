package core

import "testing"

func TestBounds_Center(t *testing.T) {
	tests := []struct {
		bounds    Bounds
		expectedX int
		expectedY int
	}{
		{Bounds{X: 0, Y: 0, Width: 100, Height: 100}, 50, 50},
		{Bounds{X: 10, Y: 20, Width: 100, Height: 200}, 60, 120},
		{Bounds{X: 0, Y: 0, Width: 0, Height: 0}, 0, 0},
	}

	for _, tt := range tests {
		x, y := tt.bounds.Center()
		if x != tt.expectedX || y != tt.expectedY {
			t.Errorf("Bounds%+v.Center() = (%d, %d), want (%d, %d)",
				tt.bounds, x, y, tt.expectedX, tt.expectedY)
		}
	}
}

func TestBounds_Contains(t *testing.T) {
	bounds := Bounds{X: 10, Y: 10, Width: 100, Height: 100}

	tests := []struct {
		x, y     int
		expected bool
	}{
		{10, 10, true},
		{60, 60, true},
		{109, 109, true},
		{110, 110, false},
		{9, 50, false},
		{50, 9, false},
	}

	for _, tt := range tests {
		if got := bounds.Contains(tt.x, tt.y); got != tt.expected {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestBounds_Area(t *testing.T) {
	tests := []struct {
		bounds Bounds
		want   int
	}{
		{Bounds{Width: 100, Height: 50}, 5000},
		{Bounds{Width: 0, Height: 50}, 0},
		{Bounds{Width: -10, Height: 50}, 0},
	}

	for _, tt := range tests {
		if got := tt.bounds.Area(); got != tt.want {
			t.Errorf("Bounds%+v.Area() = %d, want %d", tt.bounds, got, tt.want)
		}
	}
}

func TestBounds_Intersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Bounds
		want Bounds
	}{
		{
			"partial overlap",
			Bounds{X: 0, Y: 0, Width: 100, Height: 100},
			Bounds{X: 50, Y: 50, Width: 100, Height: 100},
			Bounds{X: 50, Y: 50, Width: 50, Height: 50},
		},
		{
			"contained",
			Bounds{X: 0, Y: 0, Width: 100, Height: 100},
			Bounds{X: 20, Y: 20, Width: 10, Height: 10},
			Bounds{X: 20, Y: 20, Width: 10, Height: 10},
		},
		{
			"disjoint yields non-positive extent",
			Bounds{X: 0, Y: 0, Width: 10, Height: 10},
			Bounds{X: 50, Y: 50, Width: 10, Height: 10},
			Bounds{X: 50, Y: 50, Width: -40, Height: -40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
			if tt.name == "disjoint yields non-positive extent" && got.Area() != 0 {
				t.Errorf("disjoint intersection area = %d", got.Area())
			}
		})
	}
}

func TestViewport_SafeArea(t *testing.T) {
	v := Viewport{Width: 390, Height: 844, TopInset: 47, BottomInset: 34}
	got := v.SafeArea()
	want := Bounds{X: 0, Y: 47, Width: 390, Height: 763}
	if got != want {
		t.Errorf("SafeArea() = %+v, want %+v", got, want)
	}
}

func TestDefaultViewport(t *testing.T) {
	v := DefaultViewport()
	if v.Width != 390 || v.Height != 844 || v.TopInset != 47 || v.BottomInset != 34 {
		t.Errorf("DefaultViewport() = %+v", v)
	}
}
