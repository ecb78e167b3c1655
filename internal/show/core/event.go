package core

import (
	"context"
	"time"
)

// ChangeEvent describes one persisted state store mutation. Subscribers
// receive it after the local snapshot is durably written.
type ChangeEvent struct {
	// Op names the mutation, e.g. "import", "assign", "classify".
	Op string `json:"op"`

	// Units is the collection size after the mutation.
	Units int `json:"units"`

	// Time is when the mutation was persisted.
	Time time.Time `json:"time"`

	// Snapshot is the serialized unit collection after the mutation.
	// It is not part of the published event payload.
	Snapshot []byte `json:"-"`

	// Roster is the serialized driver roster, set only when the
	// mutation touched the roster.
	Roster []byte `json:"-"`
}

// ChangeNotifier publishes change events to interested parties (the driver
// portal). Failures are logged by implementations and never propagate.
type ChangeNotifier interface {
	Notify(ctx context.Context, ev ChangeEvent) error
}
