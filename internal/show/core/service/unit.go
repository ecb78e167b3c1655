package service

import (
	"context"
	"time"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/lifecycle"
)

// Get returns a copy of one unit.
func (s *Service) Get(id string) (*model.Unit, error) {
	return s.store.Get(id)
}

// List returns copies of all units in load order.
func (s *Service) List() []*model.Unit {
	return s.store.List()
}

// ClassifyUnit sets the haul type on a unit. The VIN is left untouched;
// type is carried exclusively in the Type field.
func (s *Service) ClassifyUnit(id string, t model.UnitType) error {
	return s.store.Mutate("classify", id, func(u *model.Unit) error {
		u.Type = t
		return nil
	})
}

// MarkPickedUp records the pickup of a unit, stamping the first status
// pair with the current time.
func (s *Service) MarkPickedUp(ctx context.Context, id string) error {
	return s.store.Mutate("pickup", id, func(u *model.Unit) error {
		return lifecycle.Pickup(ctx, u, time.Now())
	})
}

// MarkDelivered records the delivery of a unit, stamping the second
// status pair with the current time.
func (s *Service) MarkDelivered(ctx context.Context, id string) error {
	return s.store.Mutate("deliver", id, func(u *model.Unit) error {
		return lifecycle.Deliver(ctx, u, time.Now())
	})
}

// SetInventoried flips the inventory flag on a unit.
func (s *Service) SetInventoried(id string, inventoried bool) error {
	return s.store.Mutate("inventory", id, func(u *model.Unit) error {
		u.Inventoried = inventoried
		return nil
	})
}

// SetPhotoRef records the path of the proof-of-delivery photo.
func (s *Service) SetPhotoRef(id, photoPath string) error {
	return s.store.Mutate("photo", id, func(u *model.Unit) error {
		u.PhotoPath = photoPath
		return nil
	})
}

// UpdateUnit replaces the descriptive fields of a unit. Lifecycle state
// (statuses, dates, round number) is not touched here; use the dedicated
// operations for those.
func (s *Service) UpdateUnit(id string, in *model.Unit) error {
	return s.store.Mutate("update", id, func(u *model.Unit) error {
		u.Year = in.Year
		u.Make = in.Make
		u.Model = in.Model
		u.ModelName = in.ModelName
		u.VIN = in.VIN
		u.Location = in.Location
		u.Type = in.Type
		return nil
	})
}
