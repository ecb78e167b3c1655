package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ronniet1977/CamperShowBackup/internal/pkg/metrics"
	"github.com/Ronniet1977/CamperShowBackup/internal/pkg/util"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

// Store is the single authoritative collection of units and drivers for the
// active show. Units live in an identity-keyed map plus an insertion-ordered
// ID slice, so display reordering can never invalidate a mutation target.
//
// Every unit mutation persists the full snapshot synchronously before the
// call returns; persistence failure fails the mutation. Subscribers are
// notified afterwards and must be cheap (the replicator only enqueues).
//
// The design assumes a single logical writer. The mutex exists to keep the
// HTTP surface memory-safe, not to provide multi-writer semantics.
type Store struct {
	mu sync.RWMutex

	snapshotPath string
	rosterPath   string

	// lastSelfWrite lets the snapshot watcher distinguish our own
	// persists from out-of-band file replacement.
	lastSelfWrite atomic.Int64

	units  map[string]*model.Unit
	order  []string
	roster *model.Roster

	subs []func(core.ChangeEvent)

	logger log.Logger
}

// New creates a store rooted at the configured data directory. Call Load
// before use.
func New(opts *options.StoreOptions) *Store {
	return &Store{
		snapshotPath: filepath.Join(opts.DataDir, opts.SnapshotFile),
		rosterPath:   filepath.Join(opts.DataDir, opts.RosterFile),
		units:        make(map[string]*model.Unit),
		roster:       &model.Roster{},
		logger:       log.WithName("store"),
	}
}

// Subscribe registers a change listener. Listeners run synchronously after
// a successful persist, in registration order.
func (s *Store) Subscribe(fn func(core.ChangeEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Load reads the local snapshot and roster. A missing or unreadable
// snapshot yields an empty collection, not an error; that is the first-run
// case. Malformed rows are skipped.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.units = make(map[string]*model.Unit)
	s.order = nil

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		s.logger.Info("No local snapshot found, starting fresh", "path", s.snapshotPath)
	} else {
		for _, u := range UnmarshalUnits(data) {
			s.units[u.ID] = u
			s.order = append(s.order, u.ID)
		}
		s.logger.Info("Loaded local snapshot", "units", len(s.order))
	}

	s.roster = &model.Roster{}
	rosterData, err := os.ReadFile(s.rosterPath)
	if err == nil {
		if err := json.Unmarshal(rosterData, s.roster); err != nil {
			s.logger.Warn("Ignoring unreadable driver roster", "path", s.rosterPath, "err", err.Error())
			s.roster = &model.Roster{}
		}
	}

	return nil
}

// Len returns the number of units.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns a copy of the unit with the given ID.
func (s *Store) Get(id string) (*model.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.units[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return u.Clone(), nil
}

// List returns copies of all units in collection order.
func (s *Store) List() []*model.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *Store) listLocked() []*model.Unit {
	units := make([]*model.Unit, 0, len(s.order))
	for _, id := range s.order {
		units = append(units, s.units[id].Clone())
	}
	return units
}

// Snapshot returns the serialized canonical snapshot of the collection.
func (s *Store) Snapshot() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []byte {
	units := make([]*model.Unit, 0, len(s.order))
	for _, id := range s.order {
		units = append(units, s.units[id])
	}
	return MarshalUnits(units)
}

// Roster returns a copy of the driver roster.
func (s *Store) Roster() *model.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.Clone()
}

// ReplaceAll swaps the entire unit collection (bulk import, remote refresh,
// end of show).
func (s *Store) ReplaceAll(op string, units []*model.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevUnits, prevOrder := s.units, s.order
	s.units = make(map[string]*model.Unit, len(units))
	s.order = make([]string, 0, len(units))
	for _, u := range units {
		s.units[u.ID] = u
		s.order = append(s.order, u.ID)
	}

	if err := s.persistLocked(); err != nil {
		s.units, s.order = prevUnits, prevOrder
		return err
	}

	s.notifyLocked(op, nil)
	return nil
}

// Add appends a single unit to the collection.
func (s *Store) Add(op string, u *model.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.units[u.ID]; exists {
		return fmt.Errorf("unit %s already exists", u.ID)
	}
	s.units[u.ID] = u
	s.order = append(s.order, u.ID)

	if err := s.persistLocked(); err != nil {
		delete(s.units, u.ID)
		s.order = s.order[:len(s.order)-1]
		return err
	}

	s.notifyLocked(op, nil)
	return nil
}

// Mutate applies fn to the identified unit, then persists. If fn returns
// an error the unit is restored and nothing is written.
func (s *Store) Mutate(op, id string, fn func(*model.Unit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok {
		return util.ErrNotFound
	}

	prev := u.Clone()
	if err := fn(u); err != nil {
		s.units[id] = prev
		return err
	}

	if err := s.persistLocked(); err != nil {
		s.units[id] = prev
		return err
	}

	s.notifyLocked(op, nil)
	return nil
}

// Apply runs fn against the live ordered collection as one atomic
// operation, then persists. If fn returns an error nothing is persisted
// and the collection is restored; this is how the assignment engine's
// refuse-without-mutation precondition is kept.
func (s *Store) Apply(op string, fn func(units []*model.Unit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := make([]*model.Unit, 0, len(s.order))
	live := make([]*model.Unit, 0, len(s.order))
	for _, id := range s.order {
		backup = append(backup, s.units[id].Clone())
		live = append(live, s.units[id])
	}

	restore := func() {
		for _, u := range backup {
			s.units[u.ID] = u
		}
	}

	if err := fn(live); err != nil {
		restore()
		return err
	}

	if err := s.persistLocked(); err != nil {
		restore()
		return err
	}

	s.notifyLocked(op, nil)
	return nil
}

// RemoveAll clears the unit collection and persists the empty snapshot.
func (s *Store) RemoveAll(op string) error {
	return s.ReplaceAll(op, nil)
}

// UpdateRoster applies fn to the driver roster, persists it and notifies
// subscribers with the serialized roster attached.
func (s *Store) UpdateRoster(op string, fn func(*model.Roster) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.roster.Clone()
	if err := fn(s.roster); err != nil {
		s.roster = prev
		return err
	}

	data, err := json.MarshalIndent(s.roster, "", "  ")
	if err != nil {
		s.roster = prev
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := atomicWrite(s.rosterPath, data); err != nil {
		s.roster = prev
		return fmt.Errorf("failed to persist roster: %w", err)
	}

	s.notifyLocked(op, data)
	return nil
}

// SnapshotPath returns the canonical local snapshot file path.
func (s *Store) SnapshotPath() string {
	return s.snapshotPath
}

func (s *Store) persistLocked() error {
	s.lastSelfWrite.Store(time.Now().UnixNano())
	if err := atomicWrite(s.snapshotPath, s.snapshotLocked()); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// selfWroteRecently reports whether the store itself wrote the snapshot
// within the given window.
func (s *Store) selfWroteRecently(window time.Duration) bool {
	last := s.lastSelfWrite.Load()
	return last != 0 && time.Since(time.Unix(0, last)) < window
}

func (s *Store) notifyLocked(op string, roster []byte) {
	metrics.StoreMutationsTotal.WithLabelValues(op).Inc()

	ev := core.ChangeEvent{
		Op:       op,
		Units:    len(s.order),
		Time:     time.Now(),
		Snapshot: s.snapshotLocked(),
		Roster:   roster,
	}
	for _, fn := range s.subs {
		fn(ev)
	}
}

// atomicWrite writes data to path through a temp file and rename, so a
// reader never observes a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
