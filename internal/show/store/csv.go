package store

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

// snapshotHeader is the canonical snapshot column layout. RoundNumber is a
// trailing optional column; older snapshots without it still parse.
//
// Field values containing the delimiter are not escaped. Delimiter-safe
// input is a precondition of this format; remote consumers depend on the
// exact column layout, so it stays as-is.
const snapshotHeader = "Year,Make,Model,ModelName,VIN,Location,AssignedTo,Status1,Date1,Status2,Date2,Type,IsSelected,PhotoPath,RoundNumber"

// MarshalUnits serializes the collection to the canonical snapshot text.
// Unset optional fields serialize as empty strings.
func MarshalUnits(units []*model.Unit) []byte {
	lines := make([]string, 0, len(units)+1)
	lines = append(lines, snapshotHeader)

	for _, u := range units {
		round := ""
		if u.RoundNumber > 0 {
			round = strconv.Itoa(u.RoundNumber)
		}
		fields := []string{
			u.Year,
			u.Make,
			u.Model,
			u.ModelName,
			u.VIN,
			u.Location,
			u.AssignedTo,
			u.Status1,
			u.Date1,
			u.Status2,
			u.Date2,
			string(u.Type),
			strconv.FormatBool(u.Inventoried),
			u.PhotoPath,
			round,
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return []byte(strings.Join(lines, "\n"))
}

// UnmarshalUnits parses snapshot text. The first line is the header and is
// skipped. Malformed or truncated rows (fewer than the six identity
// columns) are skipped; parsing never fails the whole load. Each parsed
// unit gets a fresh opaque ID, and an empty or unrecognized type column
// normalizes to TypeUnknown.
func UnmarshalUnits(data []byte) []*model.Unit {
	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var units []*model.Unit
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 6 {
			continue
		}

		round := 0
		if v := field(fields, 14); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				round = n
			}
		}

		units = append(units, &model.Unit{
			ID:          uuid.NewString(),
			Year:        field(fields, 0),
			Make:        field(fields, 1),
			Model:       field(fields, 2),
			ModelName:   field(fields, 3),
			VIN:         field(fields, 4),
			Location:    field(fields, 5),
			AssignedTo:  field(fields, 6),
			Status1:     field(fields, 7),
			Date1:       field(fields, 8),
			Status2:     field(fields, 9),
			Date2:       field(fields, 10),
			Type:        model.ParseUnitType(field(fields, 11)),
			Inventoried: strings.EqualFold(field(fields, 12), "true"),
			PhotoPath:   field(fields, 13),
			RoundNumber: round,
		})
	}

	return units
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
