// Package notification defines the push notification model received from
// homeservers on the notify endpoint.
//
// The model is deliberately permissive: only the devices list, and the
// app_id and pushkey of each device, are required. Everything else is
// optional and preserved as raw JSON so backends can forward exactly what
// the homeserver sent, including explicit nulls.
//
// Validation failures surface as *ValidationError with a message suitable
// for the HTTP error response.
package notification
