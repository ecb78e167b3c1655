package core

import "context"

// Storage defines the interface for the remote snapshot store. Replication
// through it is best-effort: the local state store stays authoritative and
// fully functional when the remote side is unreachable.
type Storage interface {
	// Upload writes an object at key, replacing any previous content.
	Upload(ctx context.Context, key string, data []byte) error

	// Download reads the object at key.
	Download(ctx context.Context, key string) ([]byte, error)

	// Move relocates an object from one key to another (archive flow).
	Move(ctx context.Context, fromKey, toKey string) error

	// CheckBucket verifies the backing bucket exists, creating it when
	// missing.
	CheckBucket(ctx context.Context) error
}
