package storage

import "cloud.google.com/go/civil"

// OrderField is a column standbys can be sorted by.
type OrderField string

const (
	OrderShiftDate OrderField = "shift_date"
	OrderSettledAt OrderField = "settled_at"
	OrderDeletedAt OrderField = "deleted_at"
	OrderCreatedAt OrderField = "created_at"
)

// Valid reports whether o is a known column.
func (o OrderField) Valid() bool {
	switch o {
	case OrderShiftDate, OrderSettledAt, OrderDeletedAt, OrderCreatedAt:
		return true
	}
	return false
}

// Filter narrows ListStandbys. Nil pointers and zero values match everything.
type Filter struct {
	Deleted     *bool
	Settled     *bool
	WorkedForMe *bool

	// DateAfter matches shift dates strictly after the value.
	DateAfter *civil.Date
	// DateFrom and DateTo are inclusive bounds.
	DateFrom *civil.Date
	DateTo   *civil.Date

	GroupID string

	OrderBy   OrderField
	Ascending bool
	Limit     int
}

// Live matches records that are not deleted.
func Live() Filter {
	deleted := false
	return Filter{Deleted: &deleted}
}
