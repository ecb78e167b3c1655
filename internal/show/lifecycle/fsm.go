package lifecycle

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

// Unit delivery lifecycle phases. The phase is derived from the unit's
// status fields, not stored separately.
const (
	PhasePending   = "pending"
	PhasePickedUp  = "picked-up"
	PhaseDelivered = "delivered"
)

const (
	// EventPickup records the unit leaving the lot with its driver.
	EventPickup = "event_pickup"
	// EventDeliver records the unit arriving at its location.
	EventDeliver = "event_deliver"
)

// Status text written into the snapshot. These exact strings are part of
// the wire format the driver portal reads.
const (
	StatusPickedUp  = "Picked Up"
	StatusDelivered = "Delivered"
)

// timestampLayout matches the portal's expected status date format.
const timestampLayout = "2006-01-02 15:04"

// FiniteStateMachine drives a unit's pickup/delivery status transitions:
// pending -> picked-up -> delivered, no skips, no regressions.
type FiniteStateMachine struct {
	*fsm.FSM
}

// NewFiniteStateMachine builds the lifecycle machine for a unit in the
// given phase.
func NewFiniteStateMachine(initial string) *FiniteStateMachine {
	f := &FiniteStateMachine{}

	events := fsm.Events{
		{Name: EventPickup, Src: []string{PhasePending}, Dst: PhasePickedUp},
		{Name: EventDeliver, Src: []string{PhasePickedUp}, Dst: PhaseDelivered},
	}

	callbacks := fsm.Callbacks{
		"enter_" + PhasePickedUp:  wrapEvent(f.actionEnterPickedUp),
		"enter_" + PhaseDelivered: wrapEvent(f.actionEnterDelivered),
	}

	f.FSM = fsm.NewFSM(initial, events, callbacks)
	return f
}

// Phase derives the lifecycle phase from a unit's status fields.
func Phase(u *model.Unit) string {
	switch {
	case u.Delivered():
		return PhaseDelivered
	case u.PickedUp():
		return PhasePickedUp
	default:
		return PhasePending
	}
}

// Pickup stamps the unit as picked up now. Returns an fsm transition error
// when the unit is not in the pending phase.
func Pickup(ctx context.Context, u *model.Unit, now time.Time) error {
	return NewFiniteStateMachine(Phase(u)).Event(ctx, EventPickup, u, now)
}

// Deliver stamps the unit as delivered now. Returns an fsm transition
// error when the unit has not been picked up yet.
func Deliver(ctx context.Context, u *model.Unit, now time.Time) error {
	return NewFiniteStateMachine(Phase(u)).Event(ctx, EventDeliver, u, now)
}

func (f *FiniteStateMachine) actionEnterPickedUp(ctx context.Context, e *fsm.Event) error {
	u := e.Args[0].(*model.Unit)
	now := e.Args[1].(time.Time)
	u.Status1 = StatusPickedUp
	u.Date1 = now.Format(timestampLayout)
	return nil
}

func (f *FiniteStateMachine) actionEnterDelivered(ctx context.Context, e *fsm.Event) error {
	u := e.Args[0].(*model.Unit)
	now := e.Args[1].(time.Time)
	u.Status2 = StatusDelivered
	u.Date2 = now.Format(timestampLayout)
	return nil
}

// wrapEvent adapts an error-returning callback to the fsm callback shape.
func wrapEvent(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Err = err
		}
	}
}
