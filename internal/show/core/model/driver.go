package model

import "encoding/json"

// Roster is the driver roster for the active show. Names are case-sensitive
// primary keys. A name in BumperPull but missing from Drivers is still
// treated as a roster member for assignment purposes.
//
// The JSON field names are the roster wire format consumed by the driver
// portal; do not rename them.
type Roster struct {
	Drivers    []string `json:"driverList"`
	BumperPull []string `json:"bumperPullDrivers"`
}

// ParseRoster decodes the roster wire format.
func ParseRoster(data []byte) (*Roster, error) {
	r := &Roster{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Contains reports whether name appears anywhere in the roster.
func (r *Roster) Contains(name string) bool {
	return containsName(r.Drivers, name) || containsName(r.BumperPull, name)
}

// BumperPullOnly reports whether the named driver is restricted to
// bumper-pull and park units.
func (r *Roster) BumperPullOnly(name string) bool {
	return containsName(r.BumperPull, name)
}

// Partition splits the roster into fifth-wheel-capable drivers and
// bumper-pull-only drivers, preserving roster order within each group.
// Names tracked only in BumperPull count as roster members.
func (r *Roster) Partition() (fwCapable, bpOnly []string) {
	for _, name := range r.Drivers {
		if !containsName(r.BumperPull, name) {
			fwCapable = append(fwCapable, name)
		}
	}
	bpOnly = append(bpOnly, r.BumperPull...)
	return fwCapable, bpOnly
}

// AllDrivers returns the full assignment ordering: fifth-wheel-capable
// drivers first, then bumper-pull-only drivers. The order matters; the
// engine's "first available" tie-break depends on it.
func (r *Roster) AllDrivers() []string {
	fw, bp := r.Partition()
	return append(fw, bp...)
}

// Clone returns a deep copy of the roster.
func (r *Roster) Clone() *Roster {
	c := &Roster{
		Drivers:    make([]string, len(r.Drivers)),
		BumperPull: make([]string, len(r.BumperPull)),
	}
	copy(c.Drivers, r.Drivers)
	copy(c.BumperPull, r.BumperPull)
	return c
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
