package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/store"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	opts := options.NewStoreOptions()
	opts.DataDir = t.TempDir()
	st := store.New(opts)
	if err := st.Load(); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	return New(st, nil, nil)
}

func addUnits(t *testing.T, s *Service, units ...*model.Unit) {
	t.Helper()
	for _, u := range units {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if err := s.Store().Add("import", u); err != nil {
			t.Fatalf("Add() = %v", err)
		}
	}
}

func addDrivers(t *testing.T, s *Service, fwCapable, bpOnly []string) {
	t.Helper()
	for _, name := range fwCapable {
		if err := s.AddDriver(name, false); err != nil {
			t.Fatalf("AddDriver(%q) = %v", name, err)
		}
	}
	for _, name := range bpOnly {
		if err := s.AddDriver(name, true); err != nil {
			t.Fatalf("AddDriver(%q) = %v", name, err)
		}
	}
}

func unit(vin string, unitType model.UnitType) *model.Unit {
	return &model.Unit{
		Year: "2024", Make: "Jayco", Model: "Eagle", ModelName: "X",
		VIN: vin, Location: "Row A", Type: unitType,
	}
}

func TestRunAssignmentSingleRound(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al"}, []string{"Bob", "Cal"})
	addUnits(t, s,
		unit("100F", model.TypeFifthWheel),
		unit("200", model.TypeBumperPull),
		unit("300", model.TypePark),
	)

	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() = %v", err)
	}
	if result.AssignedCount != 3 || result.Rounds != 1 || result.Unassigned != 0 {
		t.Fatalf("result = %+v, want 3 assigned in 1 round", result)
	}

	byVIN := unitsByVIN(s)
	if byVIN["100F"].AssignedTo != "Al" {
		t.Errorf("fifth wheel went to %q, want the only capable driver", byVIN["100F"].AssignedTo)
	}
	for _, vin := range []string{"100F", "200", "300"} {
		if byVIN[vin].RoundNumber != 1 {
			t.Errorf("unit %s round = %d, want 1", vin, byVIN[vin].RoundNumber)
		}
	}
}

func TestRunAssignmentMultipleRounds(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al"}, nil)
	addUnits(t, s,
		unit("100F", model.TypeFifthWheel),
		unit("101F", model.TypeFifthWheel),
	)

	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() = %v", err)
	}
	if result.AssignedCount != 2 || result.Rounds != 2 {
		t.Fatalf("result = %+v, want 2 assigned over 2 rounds", result)
	}

	rounds := make(map[int]int)
	for _, u := range s.List() {
		rounds[u.RoundNumber]++
	}
	if rounds[1] != 1 || rounds[2] != 1 {
		t.Fatalf("round distribution = %v, want one unit per round", rounds)
	}
}

func TestRunAssignmentFifthWheelNeedsCapableDriver(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, nil, []string{"Bob"})
	addUnits(t, s,
		unit("100F", model.TypeFifthWheel),
		unit("200", model.TypeBumperPull),
	)

	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() = %v", err)
	}
	if result.AssignedCount != 1 || result.Unassigned != 1 {
		t.Fatalf("result = %+v, want the fifth wheel left behind", result)
	}

	byVIN := unitsByVIN(s)
	if byVIN["100F"].Assigned() {
		t.Errorf("fifth wheel assigned to %q with no capable driver", byVIN["100F"].AssignedTo)
	}
	if byVIN["200"].AssignedTo != "Bob" {
		t.Errorf("bumper pull went to %q, want Bob", byVIN["200"].AssignedTo)
	}
}

func TestRunAssignmentNeverAssignsDriveUnits(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al", "Bob"}, nil)
	addUnits(t, s,
		unit("100", model.TypeDrive),
		unit("200", model.TypeBumperPull),
	)

	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() = %v", err)
	}
	if result.AssignedCount != 1 {
		t.Fatalf("result = %+v, want only the bumper pull assigned", result)
	}
	if result.Unassigned != 0 {
		t.Fatalf("unassigned = %d; drive units are not assignable backlog", result.Unassigned)
	}

	byVIN := unitsByVIN(s)
	if byVIN["100"].Assigned() || byVIN["100"].RoundNumber != 0 {
		t.Fatalf("drive unit = %+v, must never be auto-assigned", byVIN["100"])
	}
}

func TestRunAssignmentBlockedByUnknownType(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al"}, nil)
	addUnits(t, s,
		unit("100F", model.TypeFifthWheel),
		unit("999", model.TypeUnknown),
	)

	_, err := s.RunAssignment()
	var blocked *core.MissingTypeError
	if !errors.As(err, &blocked) {
		t.Fatalf("RunAssignment() = %v, want MissingTypeError", err)
	}
	if len(blocked.Units) != 1 || blocked.Units[0].VIN != "999" {
		t.Fatalf("blocking units = %+v", blocked.Units)
	}

	// A refused run must not mutate anything.
	for _, u := range s.List() {
		if u.Assigned() || u.RoundNumber != 0 {
			t.Fatalf("unit %s mutated by refused run: %+v", u.VIN, u)
		}
	}

	// Classifying the unit unblocks the run.
	if err := s.ClassifyUnit(unitID(s, "999"), model.TypeBumperPull); err != nil {
		t.Fatalf("ClassifyUnit() = %v", err)
	}
	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() after classify = %v", err)
	}
	if result.AssignedCount != 2 {
		t.Fatalf("result = %+v, want both units assigned", result)
	}
}

func TestRunAssignmentOneUnitPerDriverPerRound(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al", "Bob"}, nil)
	addUnits(t, s,
		unit("1", model.TypeBumperPull),
		unit("2", model.TypeBumperPull),
		unit("3", model.TypeBumperPull),
		unit("4", model.TypeBumperPull),
	)

	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() = %v", err)
	}
	if result.AssignedCount != 4 || result.Rounds != 2 {
		t.Fatalf("result = %+v, want 4 assigned over 2 rounds", result)
	}

	perRound := make(map[int]map[string]int)
	for _, u := range s.List() {
		if perRound[u.RoundNumber] == nil {
			perRound[u.RoundNumber] = make(map[string]int)
		}
		perRound[u.RoundNumber][u.AssignedTo]++
	}
	for round, drivers := range perRound {
		for driver, count := range drivers {
			if count > 1 {
				t.Errorf("driver %s carries %d units in round %d", driver, count, round)
			}
		}
	}
}

func TestRunAssignmentResetsAllRoundNumbers(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al"}, nil)

	delivered := unit("900", model.TypeBumperPull)
	delivered.AssignedTo = "Al"
	delivered.Status1 = "Picked Up"
	delivered.Status2 = "Delivered"
	delivered.RoundNumber = 7
	addUnits(t, s, delivered, unit("100", model.TypeBumperPull))

	result, err := s.RunAssignment()
	if err != nil {
		t.Fatalf("RunAssignment() = %v", err)
	}
	if result.AssignedCount != 1 {
		t.Fatalf("result = %+v, delivered unit must not be re-assigned", result)
	}

	byVIN := unitsByVIN(s)
	if byVIN["900"].RoundNumber != 0 {
		t.Errorf("delivered unit round = %d, want reset to 0", byVIN["900"].RoundNumber)
	}
	if byVIN["900"].AssignedTo != "Al" {
		t.Errorf("delivered unit driver = %q, record must be kept", byVIN["900"].AssignedTo)
	}
}

func TestAssignOneDoesNotSetRound(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al"}, nil)
	addUnits(t, s, unit("100", model.TypeBumperPull))

	if err := s.AssignOne(unitID(s, "100"), "Al"); err != nil {
		t.Fatalf("AssignOne() = %v", err)
	}

	u := unitsByVIN(s)["100"]
	if u.AssignedTo != "Al" || u.RoundNumber != 0 {
		t.Fatalf("unit = %+v, manual assignment must not set a round", u)
	}
}

func TestUnassignUnpickedPreservesPickedUp(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al", "Bob"}, nil)

	picked := unit("100", model.TypeBumperPull)
	picked.AssignedTo = "Al"
	picked.Status1 = "Picked Up"
	waiting := unit("200", model.TypeBumperPull)
	waiting.AssignedTo = "Bob"
	addUnits(t, s, picked, waiting)

	if err := s.UnassignUnpicked(); err != nil {
		t.Fatalf("UnassignUnpicked() = %v", err)
	}

	byVIN := unitsByVIN(s)
	if byVIN["100"].AssignedTo != "Al" {
		t.Errorf("picked-up unit lost its driver")
	}
	if byVIN["200"].AssignedTo != "" {
		t.Errorf("waiting unit kept driver %q, want unassigned", byVIN["200"].AssignedTo)
	}
}

func TestRemoveDriverCascade(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al", "Bob"}, nil)

	held := unit("100", model.TypeBumperPull)
	held.AssignedTo = "Al"
	held.Status1 = "Picked Up"
	waiting := unit("200", model.TypeBumperPull)
	waiting.AssignedTo = "Al"
	waiting.RoundNumber = 1
	other := unit("300", model.TypeBumperPull)
	other.AssignedTo = "Bob"
	addUnits(t, s, held, waiting, other)

	if err := s.RemoveDriver("Al"); err != nil {
		t.Fatalf("RemoveDriver() = %v", err)
	}

	if s.Drivers().Contains("Al") {
		t.Fatal("driver still on the roster after removal")
	}

	byVIN := unitsByVIN(s)
	if byVIN["100"].AssignedTo != "" {
		t.Errorf("unit 100 still points at the removed driver")
	}
	if byVIN["200"].AssignedTo != "" {
		t.Errorf("unit 200 still points at the removed driver")
	}
	// Only the assignment is cleared. Round numbers stay until the next
	// engine run resets them, so round groupings keep the unit.
	if byVIN["200"].RoundNumber != 1 {
		t.Errorf("unit 200 round = %d after driver removal, want 1", byVIN["200"].RoundNumber)
	}
	if byVIN["300"].AssignedTo != "Bob" {
		t.Errorf("other driver's unit touched by cascade")
	}
}

func TestAddDriverIdempotent(t *testing.T) {
	s := newTestService(t)
	addDrivers(t, s, []string{"Al"}, nil)

	// Re-adding, even with a different capability, changes nothing.
	if err := s.AddDriver("Al", true); err != nil {
		t.Fatalf("AddDriver() = %v", err)
	}

	roster := s.Drivers()
	if len(roster.Drivers) != 1 || len(roster.BumperPull) != 0 {
		t.Fatalf("roster = %+v, want single unchanged entry", roster)
	}
}

func TestRegisterDriver(t *testing.T) {
	s := newTestService(t)

	added, err := s.RegisterDriver("Randy")
	if err != nil || !added {
		t.Fatalf("RegisterDriver() = %v, %v; want newly added", added, err)
	}

	added, err = s.RegisterDriver("Randy")
	if err != nil || added {
		t.Fatalf("second RegisterDriver() = %v, %v; want idempotent no-op", added, err)
	}
}

func unitsByVIN(s *Service) map[string]*model.Unit {
	byVIN := make(map[string]*model.Unit)
	for _, u := range s.List() {
		byVIN[u.VIN] = u
	}
	return byVIN
}

func unitID(s *Service, vin string) string {
	for _, u := range s.List() {
		if u.VIN == vin {
			return u.ID
		}
	}
	return ""
}
