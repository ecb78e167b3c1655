package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/replicator"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/store"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

type fakeRemote struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{objects: make(map[string][]byte)}
}

func (f *fakeRemote) Upload(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeRemote) Download(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func (f *fakeRemote) Move(_ context.Context, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[from]
	if !ok {
		return errors.New("no such object")
	}
	f.objects[to] = data
	delete(f.objects, from)
	return nil
}

func (f *fakeRemote) CheckBucket(_ context.Context) error { return nil }

func (f *fakeRemote) get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func newRemoteService(t *testing.T) (*Service, *fakeRemote) {
	t.Helper()
	opts := options.NewStoreOptions()
	opts.DataDir = t.TempDir()
	st := store.New(opts)
	if err := st.Load(); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	remote := newFakeRemote()
	return New(st, nil, remote), remote
}

const sampleSnapshot = `Year,Make,Model,ModelName,VIN,Location,AssignedTo,Status1,Date1,Status2,Date2,Type,IsSelected,PhotoPath,RoundNumber
2024,Jayco,Eagle,321RSTS,12345F,Row A,,,,,,FW,false,,
2023,Forest River,Salem,26DBUD,67890,Row B,,,,,,BP,false,,`

func TestImportUnitsReplacesCollection(t *testing.T) {
	s := newTestService(t)
	addUnits(t, s, unit("OLD", model.TypeBumperPull))

	count, err := s.ImportUnits([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("ImportUnits() = %v", err)
	}
	if count != 2 || s.Store().Len() != 2 {
		t.Fatalf("imported %d units, store has %d; want 2", count, s.Store().Len())
	}
	if _, ok := unitsByVIN(s)["OLD"]; ok {
		t.Fatal("import must replace, not append")
	}
}

func TestEndShowArchivesAndClears(t *testing.T) {
	s, remote := newRemoteService(t)
	addUnits(t, s, unit("100F", model.TypeFifthWheel))

	if err := s.EndShow("Hershey 2026"); err != nil {
		t.Fatalf("EndShow() = %v", err)
	}
	if s.Store().Len() != 0 {
		t.Fatalf("store has %d units after end of show, want 0", s.Store().Len())
	}

	archiveKey := replicator.ArchiveKey("Hershey 2026")
	deadline := time.Now().Add(2 * time.Second)
	for {
		if data, ok := remote.get(archiveKey); ok {
			if !strings.Contains(string(data), "100F") {
				t.Fatalf("archived snapshot = %q, pre-clear state missing", data)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("archive object never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, ok := remote.get(replicator.KeyCurrentShow); ok {
		t.Fatal("canonical object must be retired by the archive move")
	}
}

func TestRefreshFromRemote(t *testing.T) {
	s, remote := newRemoteService(t)
	addUnits(t, s, unit("STALE", model.TypeBumperPull))

	remote.objects[replicator.KeyCurrentShow] = []byte(sampleSnapshot)
	remote.objects[replicator.KeyDriverRoster] = []byte(`{"driverList":["Randy"],"bumperPullDrivers":[]}`)

	count, err := s.RefreshFromRemote(context.Background())
	if err != nil {
		t.Fatalf("RefreshFromRemote() = %v", err)
	}
	if count != 2 {
		t.Fatalf("refreshed %d units, want 2", count)
	}
	if _, ok := unitsByVIN(s)["STALE"]; ok {
		t.Fatal("refresh must replace local state")
	}
	if !s.Drivers().Contains("Randy") {
		t.Fatal("roster not refreshed from remote")
	}
}

func TestRefreshFromRemoteWithoutRemote(t *testing.T) {
	s := newTestService(t)
	if _, err := s.RefreshFromRemote(context.Background()); err == nil {
		t.Fatal("RefreshFromRemote() without remote storage must fail")
	}
}

func TestMarkPickedUpThenDelivered(t *testing.T) {
	s := newTestService(t)
	addUnits(t, s, unit("100", model.TypeBumperPull))
	id := unitID(s, "100")

	ctx := context.Background()
	if err := s.MarkDelivered(ctx, id); err == nil {
		t.Fatal("MarkDelivered() before pickup must fail")
	}
	if err := s.MarkPickedUp(ctx, id); err != nil {
		t.Fatalf("MarkPickedUp() = %v", err)
	}
	if err := s.MarkDelivered(ctx, id); err != nil {
		t.Fatalf("MarkDelivered() = %v", err)
	}

	u, _ := s.Get(id)
	if !u.PickedUp() || !u.Delivered() {
		t.Fatalf("unit = %+v, want both statuses stamped", u)
	}
	if u.Date1 == "" || u.Date2 == "" {
		t.Fatalf("unit = %+v, want both dates stamped", u)
	}
}

func TestSetPhotoAndInventory(t *testing.T) {
	s := newTestService(t)
	addUnits(t, s, unit("100", model.TypeBumperPull))
	id := unitID(s, "100")

	if err := s.SetPhotoRef(id, "photos/100.jpg"); err != nil {
		t.Fatalf("SetPhotoRef() = %v", err)
	}
	if err := s.SetInventoried(id, true); err != nil {
		t.Fatalf("SetInventoried() = %v", err)
	}

	u, _ := s.Get(id)
	if u.PhotoPath != "photos/100.jpg" || !u.Inventoried {
		t.Fatalf("unit = %+v", u)
	}
}

func TestUpdateUnitKeepsLifecycleFields(t *testing.T) {
	s := newTestService(t)
	u := unit("100", model.TypeBumperPull)
	u.AssignedTo = "Al"
	u.Status1 = "Picked Up"
	u.RoundNumber = 2
	addUnits(t, s, u)

	err := s.UpdateUnit(u.ID, &model.Unit{
		Year: "2025", Make: "Grand Design", Model: "Reflection",
		ModelName: "310GK", VIN: "555F", Location: "Row C",
		Type: model.TypeFifthWheel,
	})
	if err != nil {
		t.Fatalf("UpdateUnit() = %v", err)
	}

	got, _ := s.Get(u.ID)
	if got.Make != "Grand Design" || got.VIN != "555F" {
		t.Fatalf("descriptive fields not updated: %+v", got)
	}
	if got.AssignedTo != "Al" || got.Status1 != "Picked Up" || got.RoundNumber != 2 {
		t.Fatalf("lifecycle fields clobbered: %+v", got)
	}
}
