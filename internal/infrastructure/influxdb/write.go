package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// NotificationReceived counts one validated notification accepted for
// dispatch. The write is non-blocking; points are batched and sent
// asynchronously.
func (c *Client) NotificationReceived() {
	c.writeCounter("notifications_received", nil)
}

// DevicePushAttempted counts one device the gateway was asked to push to.
// Counted per device, before the app_id is resolved to a backend.
func (c *Client) DevicePushAttempted() {
	c.writeCounter("device_pushes", nil)
}

// BackendPush counts one push handed to the backend serving appID.
//
// The app_id tag keeps cardinality bounded by the number of configured
// applications.
func (c *Client) BackendPush(appID string) {
	c.writeCounter("backend_pushes", map[string]string{
		"app_id": appID,
	})
}

// writeCounter writes a count=1 point for the given measurement.
func (c *Client) writeCounter(measurement string, tags map[string]string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		measurement,
		tags,
		map[string]interface{}{
			"count": int64(1),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the counter helpers.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
