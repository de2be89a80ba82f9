// Package influxdb implements the gateway's metrics sink on InfluxDB v2.
//
// Three counter measurements are written:
//
//   - notifications_received: validated notifications accepted for dispatch
//   - device_pushes: devices the gateway was asked to push to
//   - backend_pushes: pushes handed to a backend, tagged by app_id
//
// Writes are batched and asynchronous so the dispatch path never blocks on
// the metrics store. When InfluxDB is disabled or unreachable the gateway
// runs with a no-op sink instead; metrics are never load-bearing.
package influxdb
