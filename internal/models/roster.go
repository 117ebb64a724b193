package models

import "cloud.google.com/go/civil"

// RosterDay is the platoon on duty for each shift of a date.
type RosterDay struct {
	Date         civil.Date `json:"date"`
	DayPlatoon   string     `json:"day_platoon,omitempty"`
	NightPlatoon string     `json:"night_platoon,omitempty"`
}

// Platoon returns the platoon on duty for the given shift.
func (d RosterDay) Platoon(st ShiftType) string {
	if st == ShiftNight {
		return d.NightPlatoon
	}
	return d.DayPlatoon
}
