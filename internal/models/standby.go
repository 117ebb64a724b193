package models

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// ShiftType is the half of the duty day a standby covers.
type ShiftType string

const (
	ShiftDay   ShiftType = "Day"
	ShiftNight ShiftType = "Night"
)

// ParseShiftType accepts "Day" or "Night" in any letter case.
func ParseShiftType(s string) (ShiftType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return ShiftDay, nil
	case "night":
		return ShiftNight, nil
	}
	return "", fmt.Errorf("unknown shift type %q", s)
}

// Status is the display state derived from a standby event.
type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
	StatusDeleted Status = "deleted"
)

// StandbyEvent is a single shift obligation: the counterparty worked (or will
// work) a shift for the owner, or the owner for them.
type StandbyEvent struct {
	// ID is the unique identifier (UUID format), assigned by the store.
	ID string `json:"id"`

	// OwnerID is the user this record belongs to. Immutable.
	OwnerID string `json:"owner_id"`

	// PersonName is the counterparty, stored in title case.
	PersonName string `json:"person_name"`

	// HomePlatoon is the counterparty's usual platoon. Display only.
	HomePlatoon string `json:"home_platoon,omitempty"`

	// DutyPlatoon is the platoon rostered on for this shift.
	DutyPlatoon string `json:"duty_platoon,omitempty"`

	ShiftDate civil.Date `json:"shift_date"`
	ShiftType ShiftType  `json:"shift_type"`

	// WorkedForMe is true when the counterparty covered the owner (the owner
	// owes a shift) and false when the owner covered them.
	WorkedForMe bool `json:"worked_for_me"`

	// Notes is free text. System annotations are appended to it.
	Notes string `json:"notes,omitempty"`

	Settled   bool       `json:"settled"`
	SettledAt *time.Time `json:"settled_at,omitempty"`

	// SettlementGroupID is shared by the two records of a settled pair.
	SettlementGroupID string `json:"settlement_group_id,omitempty"`

	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDeleted reports whether the record has been soft deleted.
func (e *StandbyEvent) IsDeleted() bool {
	return e.DeletedAt != nil
}

// ClearSettlement puts the record back into the unsettled state.
func (e *StandbyEvent) ClearSettlement() {
	e.Settled = false
	e.SettledAt = nil
	e.SettlementGroupID = ""
}
