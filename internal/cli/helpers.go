package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on Stderr, keeping Stdout
// for trace output. Debug mode overrides the configured level.
func createLogger(cfg config.LogConfig, debug bool) *slog.Logger {
	return createLoggerTo(os.Stderr, cfg, debug)
}

func createLoggerTo(w io.Writer, cfg config.LogConfig, debug bool) *slog.Logger {
	if debug {
		return logging.NewWithWriter(w, slog.LevelDebug, cfg.Format)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithWriter(w, level, cfg.Format)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLifecycle: func(ctx context.Context, e *domain.LifecycleEvent) {
			logger.Debug("Lifecycle", "container_id", e.ContainerID, "name", e.Name, "phase", e.Phase, "reason", e.Reason)
		},
		OnTransitionStart: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Transition Start", "container_id", e.ContainerID, "operation", e.Operation, "strategy", e.Strategy)
		},
		OnTransitionFinish: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Transition Finish", "container_id", e.ContainerID, "operation", e.Operation, "state", e.State)
		},
		OnReconcile: func(ctx context.Context, e *domain.ReconcileEvent) {
			logger.Debug("Reconcile", "container_id", e.ContainerID, "stack_size", e.StackSize,
				"instantiated", e.Instantiated, "dropped", e.Dropped, "force_set", e.ForceSet)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
