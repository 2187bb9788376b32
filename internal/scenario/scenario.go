// Package scenario runs scripted navigation sessions against a simulated
// platform and records what the engine did.
package scenario

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpPush      = "push"
	OpPop       = "pop"
	OpPopTo     = "pop_to"
	OpReplace   = "replace"
	OpSet       = "set"
	OpMoveToTop = "move_to_top"
	OpRemove    = "remove"
	OpClear     = "clear"
	OpNest      = "nest"
	OpResize    = "resize"
	OpAppState  = "app_state"
	OpAdvance   = "advance"
	OpDrain     = "drain"
	OpPersist   = "persist"
	OpRestore   = "restore"
	OpExpect    = "expect"
)

// Scenario is a scripted session.
type Scenario struct {
	Name        string               `mapstructure:"name"`
	Description string               `mapstructure:"description"`
	Container   string               `mapstructure:"container"`
	Routes      map[string]sim.Route `mapstructure:"routes"`
	Window      Window               `mapstructure:"window"`
	Steps       []Step               `mapstructure:"steps"`
}

// Window is the initial geometry, also used by resize steps.
type Window struct {
	Width       float64            `mapstructure:"width"`
	Height      float64            `mapstructure:"height"`
	Orientation domain.Orientation `mapstructure:"orientation"`
	Mode        domain.WindowMode  `mapstructure:"mode"`
}

// Geometry converts the window description.
func (w Window) Geometry() domain.Geometry {
	return domain.Geometry{Width: w.Width, Height: w.Height, Orientation: w.Orientation, WindowMode: w.Mode}
}

// Step is one scripted action. Fields are interpreted according to Op.
type Step struct {
	Op         string            `mapstructure:"op"`
	Container  string            `mapstructure:"container"`
	Name       string            `mapstructure:"name"`
	Param      string            `mapstructure:"param"`
	Names      []string          `mapstructure:"names"`
	Launch     domain.LaunchMode `mapstructure:"launch"`
	Animated   *bool             `mapstructure:"animated"`
	Parent     string            `mapstructure:"parent"`
	Window     Window            `mapstructure:",squash"`
	Duration   time.Duration     `mapstructure:"duration"`
	Foreground bool              `mapstructure:"foreground"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a YAML scenario. The document is read into generic maps first
// and then decoded, so durations and enum names can be written as text.
func Parse(data []byte) (*Scenario, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	sc := &Scenario{Container: "main"}
	if err := decode(raw, sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// DecodeStep decodes one step from generic key/value input, such as a JSON
// request body, and validates it.
func DecodeStep(raw map[string]any) (Step, error) {
	var st Step
	if err := decode(raw, &st); err != nil {
		return st, fmt.Errorf("invalid step: %w", err)
	}
	if err := (&Scenario{Steps: []Step{st}}).Validate(); err != nil {
		return st, err
	}
	return st, nil
}

func decode(raw map[string]any, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			textEnumHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var enumTypes = map[reflect.Type]bool{
	reflect.TypeOf(domain.Mode(0)):        true,
	reflect.TypeOf(domain.LaunchMode(0)):  true,
	reflect.TypeOf(domain.Orientation(0)): true,
	reflect.TypeOf(domain.WindowMode(0)):  true,
}

// textEnumHook decodes enum names through their UnmarshalText methods.
func textEnumHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if !enumTypes[to] {
		return data, nil
	}
	var text string
	switch v := data.(type) {
	case string:
		text = v
	case int:
		text = fmt.Sprint(v)
	default:
		return data, nil
	}
	ptr := reflect.New(to)
	u := ptr.Interface().(interface{ UnmarshalText([]byte) error })
	if err := u.UnmarshalText([]byte(text)); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// Validate checks that every step names a known operation with its required fields.
func (s *Scenario) Validate() error {
	for i, st := range s.Steps {
		var missing string
		switch st.Op {
		case OpPush, OpPopTo, OpReplace, OpMoveToTop, OpRemove:
			if st.Name == "" {
				missing = "name"
			}
		case OpNest:
			if st.Container == "" || st.Parent == "" || st.Name == "" {
				missing = "container, parent and name"
			}
		case OpResize:
			if st.Window.Width <= 0 || st.Window.Height <= 0 {
				missing = "width and height"
			}
		case OpAdvance:
			if st.Duration <= 0 {
				missing = "duration"
			}
		case OpPop, OpSet, OpClear, OpAppState, OpDrain, OpPersist, OpRestore, OpExpect:
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
		if missing != "" {
			return fmt.Errorf("step %d (%s): %s required", i+1, st.Op, missing)
		}
	}
	return nil
}
