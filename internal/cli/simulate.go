package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/internal/scenario"
)

// ErrScenarioFailed is returned when a scenario ran but an expectation did not hold.
var ErrScenarioFailed = errors.New("scenario expectations failed")

// SimulateOptions contains the configuration for the simulate command.
type SimulateOptions struct {
	ScenarioPath string
	ConfigPath   string
	Debug        bool
	// Report renders a markdown summary instead of the step trace.
	Report bool
	// Mermaid appends a mermaid diagram of the final containers.
	Mermaid bool
	// JSON writes the report as JSON.
	JSON  bool
	Quiet bool
}

// RunSimulate runs a scenario file and writes its trace to out.
func RunSimulate(ctx context.Context, opts SimulateOptions, out io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.Log, opts.Debug)

	sc, err := scenario.Load(opts.ScenarioPath)
	if err != nil {
		return err
	}

	// 1. Persistence
	backend, err := OpenStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	// 2. World
	world, err := scenario.NewWorld(ctx, sc.Container, sc.Routes, sc.Window, navigatorOptions(cfg, logger, opts.Debug, backend)...)
	if err != nil {
		return fmt.Errorf("error initializing navigator: %w", err)
	}
	defer world.Nav.Close(ctx)

	// 3. Execute
	var onStep func(scenario.StepResult)
	if !opts.Report && !opts.JSON && !opts.Quiet {
		printSystemMessage(out, "Running '%s' (%d steps)", sc.Name, len(sc.Steps))
		onStep = tui.NewTracePrinter(out).Step
	}
	report, err := world.Run(ctx, sc, onStep)
	if err != nil {
		return handleExecutionError(err)
	}
	logger.Info("Scenario finished", "name", sc.Name, "steps", len(report.Steps), "failures", len(report.Failures))

	// 4. Output
	switch {
	case opts.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	case opts.Report:
		if err := tui.PrintReport(out, report); err != nil {
			return err
		}
	case !opts.Quiet:
		for _, id := range world.Nav.ContainerIDs() {
			printSystemMessage(out, "%s: %v", id, report.Final[id])
		}
		for _, f := range report.Failures {
			printSystemMessage(out, "FAIL %s", f)
		}
	}
	if opts.Mermaid {
		fmt.Fprintln(out)
		io.WriteString(out, graph.GenerateMermaid(graph.DescribeAll(world.Nav)))
	}

	if !report.Passed() {
		return fmt.Errorf("%w: %d failure(s)", ErrScenarioFailed, len(report.Failures))
	}
	return nil
}
