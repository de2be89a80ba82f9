package pushkin

import (
	"context"

	"github.com/asydorov/sygnal/internal/infrastructure/database"
	"github.com/asydorov/sygnal/internal/infrastructure/logging"
	"github.com/asydorov/sygnal/internal/notification"
)

// Pushkin is a delivery backend bound to a single app_id.
//
// A backend's lifecycle is: construct via Factory, Setup once at startup,
// Dispatch any number of times concurrently, Shutdown once at exit.
// Implementations must make Dispatch safe for concurrent use; Setup and
// Shutdown are only ever called from the startup and shutdown paths.
type Pushkin interface {
	// Setup prepares the backend for dispatching. Called exactly once
	// before the gateway starts accepting requests. An error here is
	// fatal to startup.
	Setup(ctx context.Context, env Env) error

	// GetConfig returns the backend's app-scoped configuration value for
	// key. The boolean reports whether the key was present, so backends
	// can distinguish "absent" from "empty".
	GetConfig(key string) (string, bool)

	// Dispatch delivers the notification for this backend's devices.
	//
	// The full notification is passed; the backend selects the devices
	// whose app_id it serves. It returns the pushkeys the downstream
	// service permanently rejected. A non-nil error means delivery
	// failed and the gateway should consider the whole request failed.
	Dispatch(ctx context.Context, n *notification.Notification) (rejected []string, err error)

	// Shutdown releases the backend's resources. Errors are logged and
	// do not stop the shutdown of other backends.
	Shutdown(ctx context.Context) error
}

// Env carries the shared process resources handed to every backend at
// Setup time.
type Env struct {
	// DB is the shared SQLite handle, used by backends that persist
	// state such as the rejected pushkey log.
	DB *database.DB

	// Logger is pre-scoped with the backend's app_id.
	Logger *logging.Logger
}

// ConfigView is a backend's read-only view of its app configuration block.
// The reserved "type" field is visible but already consumed by the registry.
type ConfigView map[string]string

// Get returns the value for key and whether the key was present.
func (v ConfigView) Get(key string) (string, bool) {
	val, ok := v[key]
	return val, ok
}

// Factory constructs an unstarted backend for the given app_id.
//
// Factories must not perform I/O; connection setup belongs in Setup so
// that construction failures and connectivity failures stay distinct.
type Factory func(appID string, cfg ConfigView) (Pushkin, error)

// Kinds maps a backend kind name, as written in the app's "type" field,
// to its factory. The full map is assembled in main; there is no dynamic
// registration.
type Kinds map[string]Factory
