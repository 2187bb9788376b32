package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Text forms accepted by configuration and scenario files. Numeric values are
// accepted as well.

var modeNames = map[string]Mode{
	"standard": ModeStandard,
	"dialog":   ModeDialog,
}

var launchModeNames = map[string]LaunchMode{
	"standard":              LaunchStandard,
	"move_to_top_singleton": LaunchMoveToTopSingleton,
	"pop_to_singleton":      LaunchPopToSingleton,
	"new_instance":          LaunchNewInstance,
}

var orientationNames = map[string]Orientation{
	"unknown":   OrientationUnknown,
	"portrait":  OrientationPortrait,
	"landscape": OrientationLandscape,
}

var windowModeNames = map[string]WindowMode{
	"fullscreen":   WindowFullscreen,
	"split_screen": WindowSplitScreen,
	"floating":     WindowFloating,
}

func parseEnum[T ~int](kind, text string, names map[string]T) (T, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if v, ok := names[key]; ok {
		return v, nil
	}
	if n, err := strconv.Atoi(key); err == nil {
		for _, v := range names {
			if int(v) == n {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, text)
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := parseEnum("mode", string(text), modeNames)
	*m = v
	return err
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(m.String())), nil
}

func (l *LaunchMode) UnmarshalText(text []byte) error {
	v, err := parseEnum("launch mode", string(text), launchModeNames)
	*l = v
	return err
}

func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := parseEnum("orientation", string(text), orientationNames)
	*o = v
	return err
}

func (w *WindowMode) UnmarshalText(text []byte) error {
	v, err := parseEnum("window mode", string(text), windowModeNames)
	*w = v
	return err
}
