// Package pushkin defines the delivery backend contract and the registry
// that binds app_ids to backends.
//
// A pushkin is one delivery backend instance serving one application
// identifier. The registry is built once at startup from the apps section
// of the config: each entry's reserved "type" field selects a factory
// from the Kinds map, the factory constructs the backend, and Setup is
// called with the shared environment (database handle, scoped logger).
// Any failure during this sequence aborts startup.
//
// After Build the registry is immutable, so request-path lookups take no
// locks.
//
// The package also provides RejectionLog, durable storage for pushkeys
// that downstream services have permanently refused.
package pushkin
