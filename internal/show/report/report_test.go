package report

import (
	"strings"
	"testing"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

func reportUnit(vin, location, driver string, round int) *model.Unit {
	return &model.Unit{
		Make: "Jayco", VIN: vin, Location: location,
		AssignedTo: driver, RoundNumber: round,
	}
}

func testRoster() *model.Roster {
	return &model.Roster{
		Drivers:    []string{"Al", "Bob"},
		BumperPull: []string{"Bob"},
	}
}

func TestByDriverSortsWithUnassignedLast(t *testing.T) {
	units := []*model.Unit{
		reportUnit("100F", "Row A", "Bob", 1),
		reportUnit("200", "Row A", "", 0),
		reportUnit("300", "Row B", "Al", 1),
	}

	groups := ByDriver(units, testRoster())
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Driver != "Al" || groups[1].Driver != "Bob" {
		t.Errorf("driver order = %q, %q; want alphabetical", groups[0].Driver, groups[1].Driver)
	}
	if groups[2].Driver != Unassigned {
		t.Errorf("last group = %q, want the unassigned bucket", groups[2].Driver)
	}
	if !groups[1].BumperPull {
		t.Error("Bob not flagged bumper-pull")
	}
}

func TestByDriverShortensVIN(t *testing.T) {
	units := []*model.Unit{reportUnit("1234567F", "Row A", "Al", 1)}

	groups := ByDriver(units, testRoster())
	if got := groups[0].Units[0].VIN; got != "34567" {
		t.Fatalf("display VIN = %q, want trailing F stripped then last five", got)
	}
}

func TestByLocationTotalsFollowVINConvention(t *testing.T) {
	units := []*model.Unit{
		reportUnit("100F", "Row B", "Al", 1),
		reportUnit("200", "Row A", "Bob", 1),
		reportUnit("300F", "Row A", "", 0),
	}

	summary := ByLocation(units, testRoster())
	if len(summary.Locations) != 2 {
		t.Fatalf("got %d locations, want 2", len(summary.Locations))
	}
	if summary.Locations[0].Location != "Row A" || summary.Locations[1].Location != "Row B" {
		t.Errorf("location order = %q, %q", summary.Locations[0].Location, summary.Locations[1].Location)
	}
	if summary.FifthWheelTotal != 2 || summary.BumperPullTotal != 1 {
		t.Errorf("totals = %d FW / %d BP, want 2/1", summary.FifthWheelTotal, summary.BumperPullTotal)
	}
}

func TestTotalsCountsOnlyAssigned(t *testing.T) {
	units := []*model.Unit{
		reportUnit("100", "Row A", "Al", 1),
		reportUnit("200", "Row A", "Al", 2),
		reportUnit("300", "Row A", "Bob", 1),
		reportUnit("400", "Row A", "", 0),
	}

	summary := Totals(units, testRoster())
	if summary.GrandTotal != 3 {
		t.Fatalf("grand total = %d, want 3", summary.GrandTotal)
	}
	if summary.Drivers[0].Driver != "Al" || summary.Drivers[0].Count != 2 {
		t.Errorf("first row = %+v, want Al with 2", summary.Drivers[0])
	}
}

func TestByRoundOmitsUnrounded(t *testing.T) {
	units := []*model.Unit{
		reportUnit("100", "Row A", "Al", 2),
		reportUnit("200", "Row A", "Bob", 1),
		reportUnit("300", "Row A", "Al", 0),
	}

	groups := ByRound(units)
	if len(groups) != 2 {
		t.Fatalf("got %d rounds, want 2", len(groups))
	}
	if groups[0].Round != 1 || groups[1].Round != 2 {
		t.Errorf("round order = %d, %d; want ascending", groups[0].Round, groups[1].Round)
	}
}

func TestCompletedRounds(t *testing.T) {
	done := reportUnit("100", "Row A", "Al", 1)
	done.Status2 = "Delivered"
	done.PhotoPath = "photos/100.jpg"

	noPhoto := reportUnit("200", "Row A", "Bob", 2)
	noPhoto.Status2 = "Delivered"

	if got := CompletedRounds([]*model.Unit{done, noPhoto}); len(got) != 1 || got[0] != 1 {
		t.Fatalf("CompletedRounds = %v, want [1]", got)
	}
}

func TestExportAssignmentsSkipsUnassigned(t *testing.T) {
	units := []*model.Unit{
		reportUnit("1234567F", "Row A", "Al", 1),
		reportUnit("200", "Row A", "", 0),
	}

	out := string(ExportAssignments(units))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("export = %q, want header plus one row", out)
	}
	if lines[1] != "Jayco,4567F,Row A,Al,1" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportInventorySections(t *testing.T) {
	counted := reportUnit("100", "Row A", "", 0)
	counted.Inventoried = true
	missing := reportUnit("200", "Row B", "", 0)

	out := string(ExportInventory([]*model.Unit{counted, missing}))
	invIdx := strings.Index(out, "INVENTORIED")
	notIdx := strings.Index(out, "NOT INVENTORIED")
	if invIdx < 0 || notIdx < 0 || notIdx < invIdx {
		t.Fatalf("section order wrong in %q", out)
	}
	if strings.Index(out, "100") > notIdx {
		t.Error("inventoried unit listed in the wrong section")
	}
	if strings.Index(out, "200") < notIdx {
		t.Error("uninventoried unit listed in the wrong section")
	}
}
