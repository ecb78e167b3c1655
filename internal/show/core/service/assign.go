package service

import (
	"time"

	"github.com/Ronniet1977/CamperShowBackup/internal/pkg/metrics"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/replicator"
)

// maxRounds is the safety ceiling for the round loop.
const maxRounds = 1000

// typePriority is the fixed per-round processing order. Fifth-wheel units
// go first: fifth-wheel-capable drivers are the scarce resource and should
// be saturated while demand for them exists. Drive units are absent on
// purpose; the engine never auto-assigns them.
var typePriority = []model.UnitType{model.TypeFifthWheel, model.TypeBumperPull, model.TypePark}

// Result reports the outcome of an assignment engine run.
type Result struct {
	// AssignedCount is the number of units the run assigned.
	AssignedCount int `json:"assignedCount"`

	// Rounds is the number of rounds that produced at least one
	// assignment.
	Rounds int `json:"rounds"`

	// Unassigned is the number of eligible units left without a driver
	// when the run terminated.
	Unassigned int `json:"unassigned"`
}

// RunAssignment distributes eligible units to drivers round by round. A
// round is a time slice in which each driver carries at most one unit.
//
// Eligible units have no driver and no delivery status; delivered units
// are excluded permanently, even across re-runs, and Drive units never
// enter the working set at all. If any unit is still unclassified the run
// is refused without mutating state and the blocking units come back
// inside a *core.MissingTypeError.
//
// Round numbers on ALL units are reset before assigning, including
// delivered ones. That mirrors the established reporting semantics; do
// not narrow the reset.
func (s *Service) RunAssignment() (*Result, error) {
	roster := s.store.Roster()
	fwCapable, bpOnly := roster.Partition()
	anyDriver := append(append([]string{}, fwCapable...), bpOnly...)

	result := &Result{}

	err := s.store.Apply("assign", func(units []*model.Unit) error {
		var missing []*model.Unit
		for _, u := range units {
			if u.Type == model.TypeUnknown || u.Type == "" {
				missing = append(missing, u.Clone())
			}
		}
		if len(missing) > 0 {
			return &core.MissingTypeError{Units: missing}
		}

		for _, u := range units {
			u.RoundNumber = 0
		}

		var unassigned []*model.Unit
		for _, u := range units {
			if u.Type == model.TypeDrive {
				continue
			}
			if !u.Assigned() && !u.Delivered() {
				unassigned = append(unassigned, u)
			}
		}

		round := 1
		for len(unassigned) > 0 && round <= maxRounds {
			used := make(map[string]bool)
			progressed := false

			for _, unitType := range typePriority {
				pool := anyDriver
				if unitType == model.TypeFifthWheel {
					pool = fwCapable
				}

				i := 0
				for i < len(unassigned) {
					u := unassigned[i]
					if u.Type != unitType {
						i++
						continue
					}

					driver := firstAvailable(pool, used)
					if driver == "" {
						// No eligible driver left this round;
						// the unit gets another chance next round.
						i++
						continue
					}

					u.AssignedTo = driver
					u.RoundNumber = round
					used[driver] = true
					unassigned = append(unassigned[:i], unassigned[i+1:]...)
					progressed = true
					result.AssignedCount++
				}
			}

			if !progressed {
				break
			}
			round++
		}

		result.Rounds = round - 1
		result.Unassigned = len(unassigned)
		return nil
	})
	if err != nil {
		metrics.AssignmentRunsTotal.WithLabelValues("blocked").Inc()
		return nil, err
	}

	metrics.AssignmentRunsTotal.WithLabelValues("completed").Inc()
	metrics.AssignmentRounds.Observe(float64(result.Rounds))

	// The canonical snapshot replicated on every mutation; the run also
	// publishes a timestamped copy under the assignments area.
	if s.repl != nil {
		s.repl.Enqueue(replicator.AssignmentKey(time.Now()), s.store.Snapshot())
	}

	s.logger.Info("Assignment run completed",
		"assigned", result.AssignedCount,
		"rounds", result.Rounds,
		"unassigned", result.Unassigned)

	return result, nil
}

// firstAvailable returns the first driver in pool order not yet used this
// round. No load balancing beyond that: the per-round exclusion already
// spreads units approximately evenly across rounds.
func firstAvailable(pool []string, used map[string]bool) string {
	for _, d := range pool {
		if !used[d] {
			return d
		}
	}
	return ""
}

// UnassignUnpicked clears the driver from every unit that has not been
// picked up yet. Units with a recorded pickup are never silently
// unassigned.
func (s *Service) UnassignUnpicked() error {
	return s.store.Apply("unassign-unpicked", func(units []*model.Unit) error {
		for _, u := range units {
			if !u.PickedUp() {
				u.AssignedTo = ""
			}
		}
		return nil
	})
}

// AssignOne manually assigns a single unit to a driver. Manual assignment
// is outside the engine and therefore never sets a round number.
func (s *Service) AssignOne(unitID, driverName string) error {
	return s.store.Mutate("assign-one", unitID, func(u *model.Unit) error {
		u.AssignedTo = driverName
		return nil
	})
}
