package cli

import (
	"log/slog"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/config"
)

// navigatorOptions maps the configuration onto navigator options. The
// simulated collaborators are supplied by the scenario world.
func navigatorOptions(cfg config.Config, logger *slog.Logger, debug bool, backend *Backend) []wayfinder.Option {
	// 1. Logger & Hooks
	opts := []wayfinder.Option{wayfinder.WithLogger(logger)}
	if debug {
		opts = append(opts, wayfinder.WithLifecycleHooks(createDebugHooks(logger)))
	}

	// 2. Engine tuning
	tc := wayfinder.DefaultTransitionConfig()
	tc.Duration = cfg.Transition.Duration
	tc.Timeout = cfg.Transition.Timeout
	tc.DialogCrossfade = cfg.Transition.DialogCrossfade
	opts = append(opts,
		wayfinder.WithTransitionConfig(tc),
		wayfinder.WithCacheCapacity(cfg.Cache.Capacity),
		wayfinder.WithSplit(cfg.Split.Threshold, cfg.Split.Home),
	)

	// 3. Persistence
	if backend != nil {
		opts = append(opts, wayfinder.WithStore(backend.Store, backend.SessionOpts...))
	}
	return opts
}
