// Package mqtt provides a publish-only MQTT broker connection for
// MQTT-backed applications.
//
// The wrapper around paho.mqtt.golang handles:
//   - Connection lifecycle with auto-reconnect and exponential backoff
//   - Publishing with QoS validation and payload size limits
//   - TLS and credential configuration per broker
//
// Each MQTT-backed app_id owns its own Client, so separate applications
// can target separate brokers with independent credentials.
package mqtt
