package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/replicator"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/report"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/store"
)

// ImportUnits parses a snapshot document and replaces the unit
// collection with its rows. Malformed rows are skipped by the parser,
// not treated as errors. Returns the number of units imported.
func (s *Service) ImportUnits(data []byte) (int, error) {
	units := store.UnmarshalUnits(data)
	if err := s.store.ReplaceAll("import", units); err != nil {
		return 0, err
	}
	s.logger.Info("Imported units", "count", len(units))
	return len(units), nil
}

// Snapshot returns the current collection in the canonical wire format.
func (s *Service) Snapshot() []byte {
	return s.store.Snapshot()
}

// RefreshFromRemote pulls the canonical snapshot and driver roster from
// remote storage and replaces local state with them. The local copy is
// persisted; nothing is echoed back to the remote.
func (s *Service) RefreshFromRemote(ctx context.Context) (int, error) {
	if s.remote == nil {
		return 0, fmt.Errorf("remote storage is not configured")
	}

	data, err := s.remote.Download(ctx, replicator.KeyCurrentShow)
	if err != nil {
		return 0, fmt.Errorf("download current snapshot: %w", err)
	}

	units := store.UnmarshalUnits(data)
	if err := s.store.ReplaceAll("refresh", units); err != nil {
		return 0, err
	}

	if rosterData, err := s.remote.Download(ctx, replicator.KeyDriverRoster); err != nil {
		s.logger.Warn("Driver roster not refreshed", "err", err)
	} else if roster, err := model.ParseRoster(rosterData); err != nil {
		s.logger.Warn("Driver roster unreadable", "err", err)
	} else if err := s.ImportRoster(roster); err != nil {
		return 0, err
	}

	s.logger.Info("Refreshed from remote", "units", len(units))
	return len(units), nil
}

// EndShow archives the current show remotely and clears local state for
// the next one. The local clear happens synchronously; the remote
// archive runs in the background so a slow or offline link never holds
// the show open.
func (s *Service) EndShow(showName string) error {
	snapshot := s.store.Snapshot()

	if err := s.store.RemoveAll("end-show"); err != nil {
		return err
	}

	if s.remote != nil {
		go s.archive(showName, snapshot)
	}

	s.logger.Info("Show ended", "show", showName)
	return nil
}

// archive uploads the final snapshot as the canonical object and then
// relocates it under the archive area. Upload-then-move keeps the
// archive write a pure server-side copy.
func (s *Service) archive(showName string, snapshot []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.remote.Upload(ctx, replicator.KeyCurrentShow, snapshot); err != nil {
		s.logger.Error(err, "Archive upload failed", "show", showName)
		return
	}
	if err := s.remote.Move(ctx, replicator.KeyCurrentShow, replicator.ArchiveKey(showName)); err != nil {
		s.logger.Error(err, "Archive move failed", "show", showName)
		return
	}
	s.logger.Info("Show archived", "show", showName, "key", replicator.ArchiveKey(showName))
}

// ExportAssignments renders the assigned units as a compact
// driver-facing sheet.
func (s *Service) ExportAssignments() []byte {
	return report.ExportAssignments(s.store.List())
}

// InventoryExport renders the inventoried / not-inventoried breakdown.
func (s *Service) InventoryExport() []byte {
	return report.ExportInventory(s.store.List())
}

// SummaryByDriver groups units per driver.
func (s *Service) SummaryByDriver() []report.DriverGroup {
	return report.ByDriver(s.store.List(), s.store.Roster())
}

// SummaryByLocation groups units per lot location.
func (s *Service) SummaryByLocation() report.LocationSummary {
	return report.ByLocation(s.store.List(), s.store.Roster())
}

// Totals reports per-driver unit counts and the grand total.
func (s *Service) Totals() report.TotalsSummary {
	return report.Totals(s.store.List(), s.store.Roster())
}

// Rounds groups assigned units by round number.
func (s *Service) Rounds() []report.RoundGroup {
	return report.ByRound(s.store.List())
}

// CompletedRounds lists the rounds whose units are all delivered with a
// proof-of-delivery photo.
func (s *Service) CompletedRounds() []int {
	return report.CompletedRounds(s.store.List())
}
