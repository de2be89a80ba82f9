// Package gateway contains the dispatch engine, the core of the push
// gateway: given a validated notification, decide which backend serves
// each device, deliver, and collect rejected pushkeys for the response.
//
// The failure model is asymmetric on purpose. An unknown app_id rejects
// just that device, because the homeserver should drop the pusher. A
// backend delivery error fails the whole request, because the homeserver
// should retry the notification. The soft_backend_failures config flag
// softens the second case to a per-device rejection for deployments that
// prefer availability over retries.
package gateway
