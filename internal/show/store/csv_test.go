package store

import (
	"strings"
	"testing"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

func TestMarshalUnitsHeader(t *testing.T) {
	data := MarshalUnits(nil)
	if string(data) != snapshotHeader {
		t.Fatalf("empty snapshot = %q, want header only", data)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := []*model.Unit{
		{
			Year: "2024", Make: "Jayco", Model: "Eagle", ModelName: "321RSTS",
			VIN: "12345F", Location: "Row A", AssignedTo: "Randy",
			Status1: "Picked Up", Date1: "2026-08-30 09:15",
			Type: model.TypeFifthWheel, Inventoried: true,
			PhotoPath: "photos/12345.jpg", RoundNumber: 2,
		},
		{
			Year: "2023", Make: "Forest River", Model: "Salem", ModelName: "26DBUD",
			VIN: "67890", Location: "Row B",
			Type: model.TypeBumperPull,
		},
	}

	out := UnmarshalUnits(MarshalUnits(in))
	if len(out) != len(in) {
		t.Fatalf("round trip returned %d units, want %d", len(out), len(in))
	}

	got := out[0]
	if got.VIN != "12345F" || got.AssignedTo != "Randy" || got.RoundNumber != 2 {
		t.Errorf("first unit = %+v, fields lost in round trip", got)
	}
	if !got.Inventoried || got.PhotoPath != "photos/12345.jpg" {
		t.Errorf("first unit flags = inventoried %v photo %q", got.Inventoried, got.PhotoPath)
	}
	if got.Status1 != "Picked Up" || got.Date1 != "2026-08-30 09:15" {
		t.Errorf("first unit status = %q %q", got.Status1, got.Date1)
	}
	if out[1].Type != model.TypeBumperPull || out[1].RoundNumber != 0 {
		t.Errorf("second unit = %+v", out[1])
	}
}

func TestUnmarshalUnitsAssignsFreshIDs(t *testing.T) {
	data := MarshalUnits([]*model.Unit{
		{Year: "2024", Make: "Jayco", Model: "Eagle", ModelName: "X", VIN: "111", Location: "A"},
	})

	a := UnmarshalUnits(data)
	b := UnmarshalUnits(data)
	if a[0].ID == "" || a[0].ID == b[0].ID {
		t.Fatalf("IDs not regenerated per parse: %q vs %q", a[0].ID, b[0].ID)
	}
}

func TestUnmarshalUnitsSkipsMalformedRows(t *testing.T) {
	doc := strings.Join([]string{
		snapshotHeader,
		"2024,Jayco,Eagle,321RSTS,12345F,Row A,,,,,,FW,false,,",
		"",
		"too,short,row",
		"2023,Forest River,Salem,26DBUD,67890,Row B,,,,,,BP,false,,",
	}, "\n")

	units := UnmarshalUnits([]byte(doc))
	if len(units) != 2 {
		t.Fatalf("parsed %d units, want 2 (malformed rows skipped)", len(units))
	}
	if units[0].VIN != "12345F" || units[1].VIN != "67890" {
		t.Errorf("surviving VINs = %q, %q", units[0].VIN, units[1].VIN)
	}
}

func TestUnmarshalUnitsLegacyColumns(t *testing.T) {
	// Older snapshots lack the trailing RoundNumber column.
	doc := snapshotHeader + "\n" +
		"2024,Jayco,Eagle,321RSTS,12345F,Row A,Randy,,,,,FW,false,photos/a.jpg"

	units := UnmarshalUnits([]byte(doc))
	if len(units) != 1 {
		t.Fatalf("parsed %d units, want 1", len(units))
	}
	u := units[0]
	if u.RoundNumber != 0 {
		t.Errorf("RoundNumber = %d, want 0 for legacy row", u.RoundNumber)
	}
	if u.PhotoPath != "photos/a.jpg" || u.AssignedTo != "Randy" {
		t.Errorf("legacy row fields = %+v", u)
	}
}

func TestUnmarshalUnitsNormalizesType(t *testing.T) {
	tests := []struct {
		raw  string
		want model.UnitType
	}{
		{"FW", model.TypeFifthWheel},
		{"BP", model.TypeBumperPull},
		{"Park", model.TypePark},
		{"Drive", model.TypeDrive},
		{"", model.TypeUnknown},
		{"fifthwheel", model.TypeUnknown},
	}

	for _, tc := range tests {
		doc := snapshotHeader + "\n" +
			"2024,Jayco,Eagle,X,111,A,,,,,," + tc.raw + ",false,,"
		units := UnmarshalUnits([]byte(doc))
		if len(units) != 1 {
			t.Fatalf("type %q: parsed %d units", tc.raw, len(units))
		}
		if units[0].Type != tc.want {
			t.Errorf("type %q normalized to %q, want %q", tc.raw, units[0].Type, tc.want)
		}
	}
}

func TestUnmarshalUnitsTrimsCRLF(t *testing.T) {
	doc := snapshotHeader + "\r\n" +
		"2024,Jayco,Eagle,X,111,Row A,,,,,,FW,false,,\r\n"

	units := UnmarshalUnits([]byte(doc))
	if len(units) != 1 {
		t.Fatalf("parsed %d units, want 1", len(units))
	}
	if units[0].Location != "Row A" {
		t.Errorf("Location = %q, carriage return not stripped", units[0].Location)
	}
}
