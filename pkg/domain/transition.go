package domain

import "time"

// Operation is the classification of a top-of-stack change.
type Operation string

const (
	OpNone    Operation = "NONE"
	OpPush    Operation = "PUSH"
	OpPop     Operation = "POP"
	OpReplace Operation = "REPLACE"
)

// Strategy is the animation strategy selected for a transition.
type Strategy string

const (
	StrategyNone    Strategy = "none"
	StrategyDefault Strategy = "default"
	StrategyDialog  Strategy = "dialog"
	StrategyCustom  Strategy = "custom"
)

// TransitionState is the state of one top change in the orchestrator state machine.
type TransitionState string

const (
	StateIdle       TransitionState = "IDLE"
	StateClassified TransitionState = "OPERATION_CLASSIFIED"
	StateAnimating  TransitionState = "ANIMATING"
	StateFinished   TransitionState = "FINISHED"
	StateAborted    TransitionState = "ABORTED"
	StateCanceled   TransitionState = "CANCELED"
)

// NavContext is what a custom transition callback sees of one endpoint.
type NavContext struct {
	Node  NodeRef
	Name  string
	Param string
	Mode  Mode
}

// AnimationOptions parameterise one driver animation.
type AnimationOptions struct {
	Name     string
	Duration time.Duration
	Curve    string
	Delay    time.Duration
}
