package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/teambition/rrule-go"

	"github.com/mmynk/standbys/internal/models"
)

// DefaultPattern is the four platoon two days, two nights, four off cycle.
const DefaultPattern = "DDNN----"

type slot struct {
	platoon string
	shift   models.ShiftType
	// offset in days from the cycle start
	offset int
}

// Rotation derives the roster from a repeating shift pattern. Each platoon
// works the same pattern, staggered by period/len(platoons) days, so with
// DDNN---- and four platoons exactly one platoon covers every day and night.
type Rotation struct {
	anchor civil.Date
	period int
	slots  []slot
}

// NewRotation builds a rotation. pattern uses D for a day shift, N for a
// night shift and - for a day off; the first platoon starts the pattern on
// anchor.
func NewRotation(anchor civil.Date, pattern string, platoons []string) (*Rotation, error) {
	if !anchor.IsValid() {
		return nil, fmt.Errorf("invalid roster anchor %q", anchor)
	}
	pattern = strings.ToUpper(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil, fmt.Errorf("roster pattern is empty")
	}
	if len(platoons) == 0 {
		return nil, fmt.Errorf("roster needs at least one platoon")
	}

	period := len(pattern)
	stagger := period / len(platoons)
	var slots []slot
	for i, platoon := range platoons {
		platoon = strings.TrimSpace(platoon)
		if platoon == "" {
			return nil, fmt.Errorf("platoon %d has no name", i+1)
		}
		for k, c := range pattern {
			var st models.ShiftType
			switch c {
			case 'D':
				st = models.ShiftDay
			case 'N':
				st = models.ShiftNight
			case '-':
				continue
			default:
				return nil, fmt.Errorf("invalid roster pattern character %q", c)
			}
			slots = append(slots, slot{
				platoon: platoon,
				shift:   st,
				offset:  (i*stagger + k) % period,
			})
		}
	}

	return &Rotation{anchor: anchor, period: period, slots: slots}, nil
}

// PlatoonOnDuty returns the rostered platoon for date and shift.
func (r *Rotation) PlatoonOnDuty(ctx context.Context, date civil.Date, shift models.ShiftType) (string, error) {
	days, err := r.Range(ctx, date, date)
	if err != nil {
		return "", err
	}
	return days[0].Platoon(shift), nil
}

// Range expands every slot's recurrence over [from, to].
func (r *Rotation) Range(_ context.Context, from, to civil.Date) ([]models.RosterDay, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	n := to.DaysSince(from) + 1
	days := make([]models.RosterDay, n)
	for i := range days {
		days[i].Date = from.AddDays(i)
	}

	// Recurrences only run forward, so start from the last cycle boundary
	// at or before from.
	start := r.cycleStart(from)
	after := midnight(from)
	before := midnight(to)

	for _, s := range r.slots {
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:     rrule.DAILY,
			Interval: r.period,
			Dtstart:  midnight(start.AddDays(s.offset)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build roster rule: %w", err)
		}
		for _, t := range rule.Between(after, before, true) {
			i := civil.DateOf(t).DaysSince(from)
			if i < 0 || i >= n {
				continue
			}
			switch s.shift {
			case models.ShiftDay:
				days[i].DayPlatoon = s.platoon
			case models.ShiftNight:
				days[i].NightPlatoon = s.platoon
			}
		}
	}
	return days, nil
}

func (r *Rotation) cycleStart(d civil.Date) civil.Date {
	delta := d.DaysSince(r.anchor)
	cycles := delta / r.period
	if delta%r.period < 0 {
		cycles--
	}
	return r.anchor.AddDays(cycles * r.period)
}

func midnight(d civil.Date) time.Time {
	return d.In(time.UTC)
}
