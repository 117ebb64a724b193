package ledger

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/models"
)

// ValidationError names the input field that blocked a create or edit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Input is a standby as submitted by the add and edit forms.
type Input struct {
	PersonName  string
	HomePlatoon string
	DutyPlatoon string
	// DutyPlatoonManual keeps DutyPlatoon as typed instead of looking it up.
	DutyPlatoonManual bool
	ShiftDate         string
	ShiftType         string
	WorkedForMe       bool
	Notes             string
}

// Fields is an Input that passed validation, with the name normalized.
type Fields struct {
	PersonName        string
	HomePlatoon       string
	DutyPlatoon       string
	DutyPlatoonManual bool
	ShiftDate         civil.Date
	ShiftType         models.ShiftType
	WorkedForMe       bool
	Notes             string
}

// ValidateInput checks the required fields and returns the normalized values.
func ValidateInput(in Input) (Fields, error) {
	name := NormalizeName(in.PersonName)
	if name == "" {
		return Fields{}, &ValidationError{Field: "person_name", Message: "please enter a name"}
	}

	rawDate := strings.TrimSpace(in.ShiftDate)
	if rawDate == "" {
		return Fields{}, &ValidationError{Field: "shift_date", Message: "please select a date"}
	}
	date, err := civil.ParseDate(rawDate)
	if err != nil || !date.IsValid() {
		return Fields{}, &ValidationError{Field: "shift_date", Message: fmt.Sprintf("%q is not a date", rawDate)}
	}

	st, err := models.ParseShiftType(in.ShiftType)
	if err != nil {
		return Fields{}, &ValidationError{Field: "shift_type", Message: "please select Day or Night"}
	}

	return Fields{
		PersonName:        name,
		HomePlatoon:       strings.TrimSpace(in.HomePlatoon),
		DutyPlatoon:       strings.TrimSpace(in.DutyPlatoon),
		DutyPlatoonManual: in.DutyPlatoonManual,
		ShiftDate:         date,
		ShiftType:         st,
		WorkedForMe:       in.WorkedForMe,
		Notes:             strings.TrimSpace(in.Notes),
	}, nil
}

// Apply copies the validated fields onto a record. Settlement and deletion
// state are left alone.
func (f Fields) Apply(e *models.StandbyEvent) {
	e.PersonName = f.PersonName
	e.HomePlatoon = f.HomePlatoon
	e.DutyPlatoon = f.DutyPlatoon
	e.ShiftDate = f.ShiftDate
	e.ShiftType = f.ShiftType
	e.WorkedForMe = f.WorkedForMe
	e.Notes = f.Notes
}
