package pushkin

import (
	"context"
	"fmt"
	"sort"

	"github.com/asydorov/sygnal/internal/infrastructure/config"
	"github.com/asydorov/sygnal/internal/infrastructure/logging"
)

// Registry holds the app_id to backend mapping for the gateway.
//
// It is built once at startup and read-only afterwards, so Lookup needs
// no locking on the request path.
type Registry struct {
	backends map[string]Pushkin
	logger   *logging.Logger
}

// Build constructs and sets up one backend per configured application.
//
// The build is two-phase: every backend is constructed before any Setup
// runs, so a configuration error in one app is discovered before another
// app's backend has opened connections or taken other Setup side effects.
// Apps are processed in sorted app_id order so failures are deterministic.
// A Setup failure is fatal: backends that were already set up are shut
// down best-effort and the error is returned. A config with zero apps
// fails with ErrNoPushkins.
//
// Parameters:
//   - ctx: Context bounding backend Setup calls
//   - cfg: Full gateway configuration (the apps section drives the build)
//   - kinds: Backend kind name to factory mapping, assembled in main
//   - env: Shared resources handed to every backend's Setup
//   - logger: Base logger; each backend gets an app_id-scoped child
//
// Returns:
//   - *Registry: Immutable registry ready for request-path lookups
//   - error: If any backend fails to construct or set up
func Build(ctx context.Context, cfg *config.Config, kinds Kinds, env Env, logger *logging.Logger) (*Registry, error) {
	appIDs := make([]string, 0, len(cfg.Apps))
	for appID := range cfg.Apps {
		appIDs = append(appIDs, appID)
	}
	sort.Strings(appIDs)

	type constructed struct {
		appID   string
		kind    string
		backend Pushkin
	}

	// Phase one: construct every backend. Factories perform no I/O, so
	// failing here leaves nothing to unwind.
	pending := make([]constructed, 0, len(appIDs))
	for _, appID := range appIDs {
		app := cfg.Apps[appID]
		kind := app["type"]

		factory, ok := kinds[kind]
		if !ok {
			return nil, fmt.Errorf("%w: %q for app %s", ErrUnknownKind, kind, appID)
		}

		backend, err := factory(appID, ConfigView(app))
		if err != nil {
			return nil, fmt.Errorf("constructing backend for app %s: %w", appID, err)
		}
		pending = append(pending, constructed{appID: appID, kind: kind, backend: backend})
	}

	if len(pending) == 0 {
		return nil, ErrNoPushkins
	}

	r := &Registry{
		backends: make(map[string]Pushkin, len(pending)),
		logger:   logger,
	}

	// Phase two: set up each backend exactly once.
	for _, c := range pending {
		backendEnv := env
		backendEnv.Logger = logger.With("app_id", c.appID)

		if err := c.backend.Setup(ctx, backendEnv); err != nil {
			r.shutdownAll(ctx)
			return nil, fmt.Errorf("setting up backend for app %s: %w", c.appID, err)
		}

		r.backends[c.appID] = c.backend
		logger.Info("configured backend", "app_id", c.appID, "kind", c.kind)
	}

	return r, nil
}

// Lookup returns the backend serving appID, if one is configured.
//
// Safe for concurrent use; the registry never changes after Build.
func (r *Registry) Lookup(appID string) (Pushkin, bool) {
	backend, ok := r.backends[appID]
	return backend, ok
}

// AppIDs returns the configured application identifiers in sorted order.
func (r *Registry) AppIDs() []string {
	ids := make([]string, 0, len(r.backends))
	for appID := range r.backends {
		ids = append(ids, appID)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of configured backends.
func (r *Registry) Len() int {
	return len(r.backends)
}

// Shutdown shuts down all backends, logging failures and continuing.
// Called once during gateway shutdown.
func (r *Registry) Shutdown(ctx context.Context) {
	i := 0
	for appID, backend := range r.backends {
		i++
		r.logger.Info("shutting down backend",
			"app_id", appID,
			"progress", fmt.Sprintf("%d/%d", i, len(r.backends)),
		)
		if err := backend.Shutdown(ctx); err != nil {
			r.logger.Error("backend shutdown failed", "app_id", appID, "error", err)
		}
	}
}

// shutdownAll is the error-path variant of Shutdown used while Build is
// unwinding a partial registry.
func (r *Registry) shutdownAll(ctx context.Context) {
	for appID, backend := range r.backends {
		if err := backend.Shutdown(ctx); err != nil {
			r.logger.Error("backend shutdown failed during unwind", "app_id", appID, "error", err)
		}
	}
}
