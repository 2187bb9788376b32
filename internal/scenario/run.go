package scenario

import (
	"context"
	"fmt"

	"github.com/aretw0/wayfinder"
)

// Report summarises a scenario run.
type Report struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Steps       []StepResult        `json:"steps"`
	Final       map[string][]string `json:"final"`
	Failures    []string            `json:"failures,omitempty"`
	Builds      int                 `json:"builds"`
	Released    int                 `json:"released"`
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes sc on a fresh World and drains the loop at the end.
func Run(ctx context.Context, sc *Scenario, opts ...wayfinder.Option) (*Report, error) {
	w, err := NewWorld(ctx, sc.Container, sc.Routes, sc.Window, opts...)
	if err != nil {
		return nil, err
	}
	defer w.Nav.Close(ctx)
	return w.Run(ctx, sc, nil)
}

// Run applies the steps of sc in order and drains the loop at the end.
// onStep, when set, sees every result as it is produced.
func (w *World) Run(ctx context.Context, sc *Scenario, onStep func(StepResult)) (*Report, error) {
	report := &Report{Name: sc.Name, Description: sc.Description}
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := w.Apply(ctx, st)
		res.Index = i + 1
		if err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		if res.Failure != "" {
			report.Failures = append(report.Failures, fmt.Sprintf("step %d: %s", i+1, res.Failure))
		}
		if onStep != nil {
			onStep(res)
		}
		report.Steps = append(report.Steps, res)
	}
	w.Loop.Drain()

	report.Final = w.Stacks()
	report.Builds = w.Routes.TotalBuilds()
	report.Released = len(w.Routes.Released())
	return report, nil
}
