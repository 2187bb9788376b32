package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/wayfinder"
	inspector "github.com/aretw0/wayfinder/internal/adapters/http"
	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
)

// defaultRoutes are served when no scenario file is given.
var defaultRoutes = map[string]sim.Route{
	"Home":     {},
	"Detail":   {},
	"Settings": {Reusable: true},
	"Dialog":   {Mode: domain.ModeDialog},
}

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	ConfigPath string
	// ScenarioPath supplies routes, window and warm-up steps. Optional.
	ScenarioPath string
	Addr         string
	Debug        bool
	// Tick advances virtual time in real time. Zero leaves time to /advance.
	Tick  time.Duration
	Quiet bool
}

// RunServe runs the inspector until ctx is cancelled.
func RunServe(ctx context.Context, opts ServeOptions, out io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.Log, opts.Debug)
	if opts.Addr == "" {
		opts.Addr = cfg.Server.Addr
	}

	sc := &scenario.Scenario{Name: "inspector", Container: "main", Routes: defaultRoutes}
	if opts.ScenarioPath != "" {
		if sc, err = scenario.Load(opts.ScenarioPath); err != nil {
			return err
		}
	}

	// 1. Persistence & Metrics
	backend, err := OpenStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	streams := inspector.NewStreamManager(logger)

	navOpts := navigatorOptions(cfg, logger, opts.Debug, backend)
	navOpts = append(navOpts,
		wayfinder.WithMetrics(observability.NewMetrics(reg, nil)),
		wayfinder.WithLifecycleHooks(streams.Hooks()),
	)

	// 2. World
	world, err := scenario.NewWorld(ctx, sc.Container, sc.Routes, sc.Window, navOpts...)
	if err != nil {
		return fmt.Errorf("error initializing navigator: %w", err)
	}
	defer world.Nav.Close(context.Background())
	if _, err := world.Run(ctx, sc, nil); err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}

	// 3. Server
	srv := inspector.NewServer(world,
		inspector.WithStreams(streams),
		inspector.WithGatherer(reg),
		inspector.WithLogger(logger),
	)
	if opts.Tick > 0 {
		go srv.Tick(ctx, opts.Tick)
	}
	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !opts.Quiet {
		tui.PrintBanner(out)
		printSystemMessage(out, "Inspector listening on %s (containers: %v)", opts.Addr, world.Nav.ContainerIDs())
	}
	logger.Info("Inspector started", "addr", opts.Addr, "tick", opts.Tick)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Inspector stopped")
	return nil
}
