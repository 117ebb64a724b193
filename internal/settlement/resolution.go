package settlement

import (
	"fmt"
	"strings"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
)

// Resolution explains how a settled pair was resolved and decides the note
// appended to both records.
type Resolution interface {
	Kind() models.Resolution
	// Annotation is appended to both notes; empty means none.
	Annotation() string
}

// Typo marks a pair whose names differ only by a spelling mistake.
type Typo struct{}

func (Typo) Kind() models.Resolution { return models.ResolutionTypo }
func (Typo) Annotation() string      { return "" }

// ThreeWay marks a pair repaid by someone other than the original
// counterparty.
type ThreeWay struct{}

func (ThreeWay) Kind() models.Resolution { return models.ResolutionThreeWay }
func (ThreeWay) Annotation() string      { return ledger.ThreeWayMarker }

// Other carries a free text explanation.
type Other struct {
	Note string
}

func (Other) Kind() models.Resolution { return models.ResolutionOther }
func (o Other) Annotation() string    { return strings.TrimSpace(o.Note) }

// ParseResolution builds a Resolution from its stored kind. An empty kind is
// a plain settlement with no annotation.
func ParseResolution(kind, note string) (Resolution, error) {
	switch models.Resolution(strings.ToLower(strings.TrimSpace(kind))) {
	case "", models.ResolutionTypo:
		return Typo{}, nil
	case models.ResolutionThreeWay:
		return ThreeWay{}, nil
	case models.ResolutionOther:
		return Other{Note: note}, nil
	}
	return nil, &ledger.ValidationError{Field: "resolution", Message: fmt.Sprintf("unknown resolution %q", kind)}
}

// Mismatch is the advisory result of comparing the names of two records.
type Mismatch struct {
	Mismatch bool   `json:"mismatch"`
	A        string `json:"a"`
	B        string `json:"b"`
}

// CheckNameMismatch compares the normalized names of a and b.
func CheckNameMismatch(a, b *models.StandbyEvent) Mismatch {
	return Mismatch{
		Mismatch: ledger.NamesMismatch(a.PersonName, b.PersonName),
		A:        a.PersonName,
		B:        b.PersonName,
	}
}
