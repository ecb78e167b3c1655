package model

import "strings"

// UnitType classifies how a unit is moved off the lot.
type UnitType string

const (
	// TypeFifthWheel units need a fifth-wheel-capable driver.
	TypeFifthWheel UnitType = "FW"

	// TypeBumperPull units can be towed by any driver.
	TypeBumperPull UnitType = "BP"

	// TypePark units are placed on site and handled like bumper pulls.
	TypePark UnitType = "Park"

	// TypeDrive units are driven, not towed. The assignment engine never
	// auto-assigns them.
	TypeDrive UnitType = "Drive"

	// TypeUnknown marks a unit that still needs classification.
	TypeUnknown UnitType = "Unknown"
)

// ParseUnitType normalizes a stored type string. Empty or unrecognized
// values map to TypeUnknown; this runs on every load, not just import.
func ParseUnitType(s string) UnitType {
	switch UnitType(strings.TrimSpace(s)) {
	case TypeFifthWheel, TypeBumperPull, TypePark, TypeDrive:
		return UnitType(strings.TrimSpace(s))
	default:
		return TypeUnknown
	}
}

// Unit is a trackable camper on the show lot.
//
// Identity is the opaque ID, assigned when the record enters the system;
// it is not part of the snapshot wire format. All descriptive fields are
// plain text. Empty string means "unset" for the optional fields, except
// the descriptive fields where empty string is a valid value.
type Unit struct {
	ID string `json:"id"`

	Year      string `json:"year"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelName string `json:"modelName"`
	VIN       string `json:"vin"`
	Location  string `json:"location"`

	AssignedTo string `json:"assignedTo,omitempty"`

	// Status1/Date1 record pickup, Status2/Date2 record delivery.
	Status1 string `json:"status1,omitempty"`
	Date1   string `json:"date1,omitempty"`
	Status2 string `json:"status2,omitempty"`
	Date2   string `json:"date2,omitempty"`

	Type UnitType `json:"type"`

	Inventoried bool   `json:"inventoried"`
	PhotoPath   string `json:"photoPath,omitempty"`

	// RoundNumber is set only by a completed assignment engine run.
	// Zero means unset. Manual assignment never sets it.
	RoundNumber int `json:"roundNumber,omitempty"`
}

// Assigned reports whether a driver currently holds this unit.
func (u *Unit) Assigned() bool {
	return u.AssignedTo != ""
}

// PickedUp reports whether the unit has a recorded pickup status.
func (u *Unit) PickedUp() bool {
	return u.Status1 != ""
}

// Delivered reports whether the unit has a recorded delivery status.
func (u *Unit) Delivered() bool {
	return u.Status2 != ""
}

// DisplayVIN returns the short VIN used in reports: the trailing type
// marker "F" stripped, then the last five characters.
func (u *Unit) DisplayVIN() string {
	vin := strings.TrimSpace(u.VIN)
	if strings.HasSuffix(strings.ToUpper(vin), "F") {
		vin = vin[:len(vin)-1]
	}
	if len(vin) > 5 {
		vin = vin[len(vin)-5:]
	}
	return vin
}

// FifthWheelVIN reports whether the VIN carries the historical trailing-"F"
// fifth-wheel marker. Reports still use it as a display convention; the
// authoritative classification is the Type field.
func (u *Unit) FifthWheelVIN() bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(u.VIN)), "f")
}

// Clone returns a copy of the unit.
func (u *Unit) Clone() *Unit {
	c := *u
	return &c
}
