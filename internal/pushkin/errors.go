package pushkin

import "errors"

// Sentinel errors for registry construction.
var (
	// ErrNoPushkins indicates the apps section configured zero backends.
	// A gateway with nothing to dispatch to refuses to start.
	ErrNoPushkins = errors.New("pushkin: no app IDs are configured")

	// ErrUnknownKind indicates an app's "type" field names a backend kind
	// that is not in the Kinds map.
	ErrUnknownKind = errors.New("pushkin: unknown backend kind")
)
