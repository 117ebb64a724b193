// Package ledger holds the standby entity rules that every write path shares:
// input validation, name normalization, status classification and the
// calendar-date comparisons used by the projections.
package ledger

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/standbys/internal/models"
)

// ThreeWayMarker is appended to both notes of a three way settlement.
const ThreeWayMarker = "Three way standby"

// Classify returns the display status of a record. Deleted wins over Settled.
func Classify(e *models.StandbyEvent) models.Status {
	switch {
	case e.DeletedAt != nil:
		return models.StatusDeleted
	case e.Settled:
		return models.StatusSettled
	default:
		return models.StatusActive
	}
}

// IsFutureDate reports whether date is strictly after today.
func IsFutureDate(date, today civil.Date) bool {
	return date.After(today)
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(now.In(loc))
}

// NormalizeName trims, collapses internal whitespace and title cases each word.
func NormalizeName(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	// A Caser keeps state between calls so one is built per use.
	return cases.Title(language.Und).String(collapsed)
}

// NameKey is the comparison form of a name: lowercase with single spaces.
func NameKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NamesMismatch reports whether two non-empty names differ after normalization.
func NamesMismatch(a, b string) bool {
	ka, kb := NameKey(a), NameKey(b)
	return ka != "" && kb != "" && ka != kb
}

// AppendNote adds text to notes on its own paragraph. It is a no-op when text
// is empty or already present (case-insensitive), so repeated calls never
// duplicate an annotation.
func AppendNote(notes, text string) string {
	existing := strings.TrimSpace(notes)
	text = strings.TrimSpace(text)
	if text == "" {
		return existing
	}
	if existing == "" {
		return text
	}
	if strings.Contains(strings.ToLower(existing), strings.ToLower(text)) {
		return existing
	}
	return existing + "\n\n" + text
}

// FormatPlatoonLabel renders a platoon for display: "-" when empty, the value
// as-is when it already says "platoon", otherwise "<p> Platoon".
func FormatPlatoonLabel(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "-"
	}
	if strings.Contains(strings.ToLower(p), "platoon") {
		return p
	}
	return p + " Platoon"
}

// FormatDisplayDate renders a date like "05 Mar 2025".
func FormatDisplayDate(d civil.Date) string {
	if !d.IsValid() {
		return "-"
	}
	return d.In(time.UTC).Format("02 Jan 2006")
}
