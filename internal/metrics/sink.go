// Package metrics defines the counter sink used by the dispatch path.
//
// The gateway counts three things: notifications accepted for dispatch,
// per-device push attempts, and pushes handed to each backend. The sink is
// an interface so the HTTP path works identically whether counters go to
// InfluxDB or nowhere.
package metrics

// Sink receives dispatch counters.
//
// Implementations must be safe for concurrent use; the dispatch engine
// calls these from every request goroutine.
type Sink interface {
	// NotificationReceived counts one validated notification.
	NotificationReceived()

	// DevicePushAttempted counts one device the gateway was asked to push.
	DevicePushAttempted()

	// BackendPush counts one push handed to the backend serving appID.
	BackendPush(appID string)
}

// Nop is a Sink that discards all counters. Used when metrics are not
// configured.
type Nop struct{}

func (Nop) NotificationReceived()    {}
func (Nop) DevicePushAttempted()     {}
func (Nop) BackendPush(appID string) {}
