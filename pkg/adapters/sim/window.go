package sim

import "github.com/aretw0/wayfinder/pkg/domain"

// Window is a resizable ports.GeometrySource.
type Window struct {
	g         domain.Geometry
	listeners []func(domain.Geometry)
}

// NewWindow creates a window with the given geometry.
func NewWindow(g domain.Geometry) *Window {
	return &Window{g: g}
}

// Current returns the geometry.
func (w *Window) Current() domain.Geometry {
	return w.g
}

// OnChange registers a change listener.
func (w *Window) OnChange(fn func(domain.Geometry)) {
	w.listeners = append(w.listeners, fn)
}

// Resize updates the geometry and notifies listeners.
func (w *Window) Resize(g domain.Geometry) {
	w.g = g
	for _, fn := range w.listeners {
		fn(g)
	}
}

// Portrait returns a portrait fullscreen geometry.
func Portrait(width, height float64) domain.Geometry {
	return domain.Geometry{Width: width, Height: height, Orientation: domain.OrientationPortrait}
}

// Landscape returns a landscape fullscreen geometry.
func Landscape(width, height float64) domain.Geometry {
	return domain.Geometry{Width: width, Height: height, Orientation: domain.OrientationLandscape}
}

// SystemBar records style changes.
type SystemBar struct {
	Calls []string
	style string
}

// SetStyle applies style.
func (s *SystemBar) SetStyle(style string) {
	s.style = style
	s.Calls = append(s.Calls, "set:"+style)
}

// RestoreStyle returns to the default style.
func (s *SystemBar) RestoreStyle() {
	s.style = ""
	s.Calls = append(s.Calls, "restore")
}

// Style returns the current style, empty for the default.
func (s *SystemBar) Style() string {
	return s.style
}
