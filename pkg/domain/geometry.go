package domain

// Orientation of the device.
type Orientation int

const (
	OrientationUnknown Orientation = iota
	OrientationPortrait
	OrientationLandscape
)

// WindowMode of the hosting window.
type WindowMode int

const (
	WindowFullscreen WindowMode = iota
	// WindowSplitScreen means the OS itself split the screen between apps.
	WindowSplitScreen
	WindowFloating
)

// Geometry is a snapshot of the container's hosting window.
type Geometry struct {
	Width       float64     `json:"width" yaml:"width"`
	Height      float64     `json:"height" yaml:"height"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	WindowMode  WindowMode  `json:"window_mode" yaml:"window_mode"`
}

// IsLandscape falls back to the aspect ratio when the orientation is unknown.
func (g Geometry) IsLandscape() bool {
	if g.Orientation == OrientationUnknown {
		return g.Width > g.Height
	}
	return g.Orientation == OrientationLandscape
}

// Surface describes where a navigation container is hosted.
type Surface struct {
	MainWindow  bool `json:"main_window" yaml:"main_window"`
	PrimaryPage bool `json:"primary_page" yaml:"primary_page"`
}
