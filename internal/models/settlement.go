package models

import "time"

// Resolution records how a name mismatch between the two sides of a
// settlement was acknowledged.
type Resolution string

const (
	ResolutionTypo     Resolution = "typo"
	ResolutionThreeWay Resolution = "three_way"
	ResolutionOther    Resolution = "other"
)

// Settlement represents two standby events that settle each other.
// Members are found through their SettlementGroupID, which equals ID.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// OwnerID is the user both members belong to.
	OwnerID string `json:"owner_id"`

	// Resolution is how the pairing was acknowledged when names differed.
	Resolution Resolution `json:"resolution"`

	// Note is the user supplied reason for an "other" resolution.
	Note string `json:"note,omitempty"`

	// CreatedAt is when the pair was settled.
	CreatedAt time.Time `json:"created_at"`

	// DissolvedAt is set once the pair is unsettled or loses a member.
	DissolvedAt *time.Time `json:"dissolved_at,omitempty"`
}
