// Package mqttpush implements a delivery backend that publishes
// notifications to an MQTT broker.
//
// App configuration:
//
//	apps:
//	  com.example.iot:
//	    type: mqtt
//	    host: broker.example.com
//	    port: "8883"
//	    tls: "true"
//	    username: sygnal
//	    password: secret
//	    topic_prefix: push/example
//
// Each device's notification is published to
// <topic_prefix>/<app_id>/<pushkey>. Pushkeys containing MQTT topic
// metacharacters ('#', '+', '/') can never be delivered and are reported
// as rejected.
package mqttpush
