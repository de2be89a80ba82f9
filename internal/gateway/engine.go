package gateway

import (
	"context"
	"fmt"

	"github.com/asydorov/sygnal/internal/infrastructure/logging"
	"github.com/asydorov/sygnal/internal/metrics"
	"github.com/asydorov/sygnal/internal/notification"
	"github.com/asydorov/sygnal/internal/pushkin"
)

// Engine routes a validated notification to delivery backends and
// collects rejected pushkeys.
//
// One Engine serves the whole gateway. It holds no per-request state, so
// Dispatch is safe for concurrent use from every request goroutine.
type Engine struct {
	registry *pushkin.Registry
	sink     metrics.Sink
	logger   *logging.Logger

	// softBackendFailures turns a backend delivery error into per-device
	// rejections instead of failing the whole request. Off by default:
	// a failed delivery is normally retried by the homeserver, while a
	// rejection tells it to forget the pushkey.
	softBackendFailures bool
}

// NewEngine creates a dispatch engine over the given registry.
func NewEngine(registry *pushkin.Registry, sink metrics.Sink, logger *logging.Logger, softBackendFailures bool) *Engine {
	return &Engine{
		registry:            registry,
		sink:                sink,
		logger:              logger,
		softBackendFailures: softBackendFailures,
	}
}

// Dispatch delivers a notification and returns the rejected pushkeys.
//
// Devices are processed in request order. A device whose app_id has no
// configured backend is rejected and processing continues; this tells
// the homeserver to stop pushing to that target without disturbing the
// other devices. A backend delivery error fails the whole request, since
// the homeserver will retry the notification and the other devices may
// already have been pushed.
//
// The returned slice is never nil on success, so the response body always
// carries a JSON list.
func (e *Engine) Dispatch(ctx context.Context, n *notification.Notification) ([]string, error) {
	e.sink.NotificationReceived()

	rejected := []string{}

	for _, d := range n.Devices {
		e.sink.DevicePushAttempted()

		backend, ok := e.registry.Lookup(d.AppID)
		if !ok {
			e.logger.Warn("notification for unknown app ID", "app_id", d.AppID)
			rejected = append(rejected, d.Pushkey)
			continue
		}

		e.logger.Debug("dispatching to backend", "app_id", d.AppID)
		e.sink.BackendPush(d.AppID)

		backendRejected, err := backend.Dispatch(ctx, n)
		if err != nil {
			if e.softBackendFailures {
				e.logger.Error("backend dispatch failed, rejecting device",
					"app_id", d.AppID,
					"error", err,
				)
				rejected = append(rejected, d.Pushkey)
				continue
			}
			e.logger.Error("backend dispatch failed", "app_id", d.AppID, "error", err)
			return nil, fmt.Errorf("dispatching to backend for %s: %w", d.AppID, err)
		}

		rejected = append(rejected, backendRejected...)
	}

	return rejected, nil
}
