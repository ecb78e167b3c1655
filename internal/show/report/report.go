package report

import (
	"fmt"
	"sort"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

// Unassigned is the bucket name for units with no driver.
const Unassigned = "Unassigned"

// Line is one unit rendered for a summary: make, short VIN, location.
type Line struct {
	Make     string `json:"make"`
	VIN      string `json:"vin"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

// DriverGroup is the units carried by one driver.
type DriverGroup struct {
	Driver     string `json:"driver"`
	BumperPull bool   `json:"bumperPull"`
	Units      []Line `json:"units"`
}

// LocationGroup is the units at one location, grouped by driver.
type LocationGroup struct {
	Location string        `json:"location"`
	Drivers  []DriverGroup `json:"drivers"`
}

// LocationSummary adds the capability-class totals the lot crew reads off
// the location report.
type LocationSummary struct {
	Locations       []LocationGroup `json:"locations"`
	FifthWheelTotal int             `json:"fifthWheelTotal"`
	BumperPullTotal int             `json:"bumperPullTotal"`
}

// DriverTotal is one driver's assignment count tagged by capability class.
type DriverTotal struct {
	Driver     string `json:"driver"`
	BumperPull bool   `json:"bumperPull"`
	Count      int    `json:"count"`
}

// TotalsSummary is the per-driver count report.
type TotalsSummary struct {
	Drivers    []DriverTotal `json:"drivers"`
	GrandTotal int           `json:"grandTotal"`
}

// RoundGroup is the units assigned in one engine round.
type RoundGroup struct {
	Round int           `json:"round"`
	Units []*model.Unit `json:"units"`
}

// ByDriver groups units by assigned driver, drivers sorted alphabetically
// with the Unassigned bucket last. Read-only; no invariants of its own.
func ByDriver(units []*model.Unit, roster *model.Roster) []DriverGroup {
	grouped := make(map[string][]Line)
	for _, u := range units {
		driver := u.AssignedTo
		if driver == "" {
			driver = Unassigned
		}
		grouped[driver] = append(grouped[driver], line(u))
	}

	var names []string
	for name := range grouped {
		if name != Unassigned {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	groups := make([]DriverGroup, 0, len(grouped))
	for _, name := range names {
		groups = append(groups, DriverGroup{
			Driver:     name,
			BumperPull: roster.BumperPullOnly(name),
			Units:      grouped[name],
		})
	}
	if lines, ok := grouped[Unassigned]; ok {
		groups = append(groups, DriverGroup{Driver: Unassigned, Units: lines})
	}

	return groups
}

// ByLocation groups units by location, then by driver within each
// location, both sorted. The FW/BP classification and totals follow the
// trailing-"F" VIN display convention the crew still reads.
func ByLocation(units []*model.Unit, roster *model.Roster) LocationSummary {
	byLoc := make(map[string][]*model.Unit)
	for _, u := range units {
		byLoc[u.Location] = append(byLoc[u.Location], u)
	}

	var locations []string
	for loc := range byLoc {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	summary := LocationSummary{}
	for _, loc := range locations {
		byDriver := make(map[string][]Line)
		for _, u := range byLoc[loc] {
			driver := u.AssignedTo
			if driver == "" {
				driver = Unassigned
			}
			byDriver[driver] = append(byDriver[driver], line(u))
			if u.FifthWheelVIN() {
				summary.FifthWheelTotal++
			} else {
				summary.BumperPullTotal++
			}
		}

		var drivers []string
		for d := range byDriver {
			drivers = append(drivers, d)
		}
		sort.Strings(drivers)

		group := LocationGroup{Location: loc}
		for _, d := range drivers {
			group.Drivers = append(group.Drivers, DriverGroup{
				Driver:     d,
				BumperPull: roster.BumperPullOnly(d),
				Units:      byDriver[d],
			})
		}
		summary.Locations = append(summary.Locations, group)
	}

	return summary
}

// Totals counts assigned units per driver, sorted by driver name.
func Totals(units []*model.Unit, roster *model.Roster) TotalsSummary {
	counts := make(map[string]int)
	for _, u := range units {
		if u.Assigned() {
			counts[u.AssignedTo]++
		}
	}

	var names []string
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	summary := TotalsSummary{}
	for _, name := range names {
		summary.Drivers = append(summary.Drivers, DriverTotal{
			Driver:     name,
			BumperPull: roster.BumperPullOnly(name),
			Count:      counts[name],
		})
		summary.GrandTotal += counts[name]
	}

	return summary
}

// ByRound groups engine-assigned units by round number, rounds ascending.
// Units without a round number are omitted.
func ByRound(units []*model.Unit) []RoundGroup {
	byRound := make(map[int][]*model.Unit)
	for _, u := range units {
		if u.RoundNumber > 0 {
			byRound[u.RoundNumber] = append(byRound[u.RoundNumber], u.Clone())
		}
	}

	var rounds []int
	for r := range byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)

	groups := make([]RoundGroup, 0, len(rounds))
	for _, r := range rounds {
		groups = append(groups, RoundGroup{Round: r, Units: byRound[r]})
	}
	return groups
}

// CompletedRounds lists the rounds whose units are all delivered and
// photographed.
func CompletedRounds(units []*model.Unit) []int {
	byRound := make(map[int][]*model.Unit)
	for _, u := range units {
		if u.RoundNumber > 0 {
			byRound[u.RoundNumber] = append(byRound[u.RoundNumber], u)
		}
	}

	var completed []int
	for r, group := range byRound {
		done := true
		for _, u := range group {
			if !u.Delivered() || u.PhotoPath == "" {
				done = false
				break
			}
		}
		if done {
			completed = append(completed, r)
		}
	}
	sort.Ints(completed)
	return completed
}

// line renders one unit for summary output.
func line(u *model.Unit) Line {
	typ := "BP"
	if u.FifthWheelVIN() {
		typ = "FW"
	}
	return Line{
		Make:     u.Make,
		VIN:      u.DisplayVIN(),
		Location: u.Location,
		Type:     typ,
	}
}

// ExportAssignments renders the compact assignment CSV handed to drivers:
// one row per assigned unit.
func ExportAssignments(units []*model.Unit) []byte {
	out := "Make,VIN,Location,Driver,Round\n"
	for _, u := range units {
		if !u.Assigned() {
			continue
		}
		vin := u.VIN
		if len(vin) > 5 {
			vin = vin[len(vin)-5:]
		}
		out += fmt.Sprintf("%s,%s,%s,%s,%d\n", u.Make, vin, u.Location, u.AssignedTo, u.RoundNumber)
	}
	return []byte(out)
}

// ExportInventory renders the inventory worksheet: inventoried units
// first, then the remainder, identity columns only.
func ExportInventory(units []*model.Unit) []byte {
	row := func(u *model.Unit) string {
		return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s\n",
			u.Year, u.Make, u.Model, u.ModelName, u.VIN, u.Location, u.Type)
	}

	out := "Year,Make,Model,ModelName,VIN,Location,Type\n"
	out += "INVENTORIED\n"
	for _, u := range units {
		if u.Inventoried {
			out += row(u)
		}
	}
	out += "\nNOT INVENTORIED\n"
	for _, u := range units {
		if !u.Inventoried {
			out += row(u)
		}
	}
	return []byte(out)
}
