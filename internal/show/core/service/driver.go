package service

import (
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

// Drivers returns a copy of the current roster.
func (s *Service) Drivers() *model.Roster {
	return s.store.Roster()
}

// AddDriver adds a driver to the roster. bumperPullOnly restricts the
// driver to bumper-pull and park units. Adding an existing name is a
// no-op, including capability changes; remove and re-add to change
// capability.
func (s *Service) AddDriver(name string, bumperPullOnly bool) error {
	return s.store.UpdateRoster("driver-add", func(r *model.Roster) error {
		if r.Contains(name) {
			return nil
		}
		r.Drivers = append(r.Drivers, name)
		if bumperPullOnly {
			r.BumperPull = append(r.BumperPull, name)
		}
		return nil
	})
}

// RemoveDriver deletes a driver from the roster and clears the name from
// every unit that points at it. Units held by other drivers are never
// touched. Round numbers stay as they are; only the next engine run
// resets them, so a unit keeps its place in the round groupings until
// then.
func (s *Service) RemoveDriver(name string) error {
	err := s.store.UpdateRoster("driver-remove", func(r *model.Roster) error {
		r.Drivers = remove(r.Drivers, name)
		r.BumperPull = remove(r.BumperPull, name)
		return nil
	})
	if err != nil {
		return err
	}

	return s.store.Apply("driver-remove", func(units []*model.Unit) error {
		for _, u := range units {
			if u.AssignedTo == name {
				u.AssignedTo = ""
			}
		}
		return nil
	})
}

// RegisterDriver is the self-signup path. It reports whether the name
// was newly added; registering an existing name succeeds without change.
func (s *Service) RegisterDriver(name string) (bool, error) {
	added := false
	err := s.store.UpdateRoster("driver-add", func(r *model.Roster) error {
		if r.Contains(name) {
			return nil
		}
		r.Drivers = append(r.Drivers, name)
		added = true
		return nil
	})
	return added, err
}

// ImportRoster replaces the whole roster at once.
func (s *Service) ImportRoster(roster *model.Roster) error {
	return s.store.UpdateRoster("roster-import", func(r *model.Roster) error {
		r.Drivers = append([]string{}, roster.Drivers...)
		r.BumperPull = append([]string{}, roster.BumperPull...)
		return nil
	})
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
