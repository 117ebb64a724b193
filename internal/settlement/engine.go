// Package settlement applies every state change to the standby ledger:
// create and edit, pairing two records into a settlement, unpairing them,
// and the soft delete cascade that keeps pairs consistent.
//
// Every operation takes the caller's session explicitly and rejects an
// unauthenticated one before touching the store. Reads that a write depends
// on happen inside the same transaction as the write.
package settlement

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/cache"
	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/roster"
	"github.com/mmynk/standbys/internal/storage"
)

// Recorder observes the outcome of each engine operation.
type Recorder interface {
	Observe(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, error) {}

// Engine is the settlement engine.
type Engine struct {
	store    storage.Store
	roster   roster.Provider
	cache    cache.Snapshots
	recorder Recorder
	now      func() time.Time
	loc      *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithRoster enables duty platoon auto-fill.
func WithRoster(p roster.Provider) Option {
	return func(e *Engine) { e.roster = p }
}

// WithCache sets the snapshot cache invalidated by every mutation.
func WithCache(c cache.Snapshots) Option {
	return func(e *Engine) { e.cache = c }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// New creates an engine over store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		cache:    cache.Nop{},
		recorder: nopRecorder{},
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the current calendar date in the engine's time zone.
func (e *Engine) Today() civil.Date {
	return ledger.Today(e.now(), e.loc)
}

// Location is the engine's time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) authorize(sess models.Session) error {
	if !sess.Authenticated(e.now()) {
		return ErrUnauthenticated
	}
	return nil
}

func (e *Engine) invalidate(ctx context.Context, ownerID string) {
	e.cache.Invalidate(ctx, ownerID)
}

// dutyPlatoon returns the rostered platoon, or fallback when the roster has
// no answer. Lookup failures never block a write.
func (e *Engine) dutyPlatoon(ctx context.Context, f ledger.Fields) string {
	if f.DutyPlatoonManual || e.roster == nil {
		return f.DutyPlatoon
	}
	platoon, err := e.roster.PlatoonOnDuty(ctx, f.ShiftDate, f.ShiftType)
	if err != nil {
		slog.Debug("Roster lookup failed", "date", f.ShiftDate, "shift", f.ShiftType, "error", err)
		return f.DutyPlatoon
	}
	if platoon == "" {
		return f.DutyPlatoon
	}
	return platoon
}

// Add validates in and stores a new active standby.
func (e *Engine) Add(ctx context.Context, sess models.Session, in ledger.Input) (ev *models.StandbyEvent, err error) {
	defer func() { e.recorder.Observe("add", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	return e.add(ctx, sess, in)
}

func (e *Engine) add(ctx context.Context, sess models.Session, in ledger.Input) (*models.StandbyEvent, error) {
	fields, err := ledger.ValidateInput(in)
	if err != nil {
		return nil, err
	}

	ev := &models.StandbyEvent{OwnerID: sess.UserID}
	fields.Apply(ev)
	ev.DutyPlatoon = e.dutyPlatoon(ctx, fields)

	if err := e.store.InsertStandby(ctx, ev); err != nil {
		return nil, storeErr("add", err)
	}
	e.invalidate(ctx, sess.UserID)
	return ev, nil
}

// Edit replaces the editable fields of a live standby. The duty platoon is
// looked up again unless it was set by hand; settlement state is untouched.
func (e *Engine) Edit(ctx context.Context, sess models.Session, id string, in ledger.Input) (ev *models.StandbyEvent, err error) {
	defer func() { e.recorder.Observe("edit", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	fields, err := ledger.ValidateInput(in)
	if err != nil {
		return nil, err
	}

	ev, err = e.store.GetStandby(ctx, sess.UserID, id)
	if err != nil {
		return nil, storeErr("edit", err)
	}
	if ev.IsDeleted() {
		return nil, ErrDeleted
	}

	fields.Apply(ev)
	ev.DutyPlatoon = e.dutyPlatoon(ctx, fields)
	if err := e.store.UpdateStandby(ctx, ev); err != nil {
		return nil, storeErr("edit", err)
	}
	e.invalidate(ctx, sess.UserID)
	return ev, nil
}
