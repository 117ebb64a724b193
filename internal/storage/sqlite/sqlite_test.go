package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "standbys-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func boolPtr(b bool) *bool { return &b }

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const owner = "owner-1"

	insert := func(t *testing.T, name, day string, workedForMe bool) *models.StandbyEvent {
		t.Helper()
		ev := &models.StandbyEvent{
			OwnerID:     owner,
			PersonName:  name,
			ShiftDate:   date(day),
			ShiftType:   models.ShiftDay,
			WorkedForMe: workedForMe,
		}
		if err := store.InsertStandby(ctx, ev); err != nil {
			t.Fatalf("InsertStandby failed: %v", err)
		}
		return ev
	}

	t.Run("InsertStandby generates ID and timestamps", func(t *testing.T) {
		ev := insert(t, "Alice Smith", "2025-03-01", true)
		if ev.ID == "" {
			t.Error("Expected ID to be generated")
		}
		if ev.CreatedAt.IsZero() || ev.UpdatedAt.IsZero() {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("GetStandby round trips fields", func(t *testing.T) {
		original := &models.StandbyEvent{
			OwnerID:     owner,
			PersonName:  "Bob Jones",
			HomePlatoon: "A",
			DutyPlatoon: "C",
			ShiftDate:   date("2025-03-02"),
			ShiftType:   models.ShiftNight,
			Notes:       "swap for leave",
		}
		if err := store.InsertStandby(ctx, original); err != nil {
			t.Fatalf("InsertStandby failed: %v", err)
		}

		got, err := store.GetStandby(ctx, owner, original.ID)
		if err != nil {
			t.Fatalf("GetStandby failed: %v", err)
		}
		if got.PersonName != "Bob Jones" || got.HomePlatoon != "A" || got.DutyPlatoon != "C" {
			t.Errorf("Unexpected names/platoons: %+v", got)
		}
		if got.ShiftDate != original.ShiftDate {
			t.Errorf("ShiftDate mismatch: got %s, want %s", got.ShiftDate, original.ShiftDate)
		}
		if got.ShiftType != models.ShiftNight {
			t.Errorf("ShiftType mismatch: got %s", got.ShiftType)
		}
		if got.Settled || got.SettledAt != nil || got.DeletedAt != nil {
			t.Errorf("Expected fresh record to be active: %+v", got)
		}
		if got.Notes != "swap for leave" {
			t.Errorf("Notes mismatch: got %q", got.Notes)
		}
	})

	t.Run("GetStandby is scoped by owner", func(t *testing.T) {
		ev := insert(t, "Carol", "2025-03-03", false)
		_, err := store.GetStandby(ctx, "someone-else", ev.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SetSettlement updates both members in one call", func(t *testing.T) {
		a := insert(t, "Dan", "2025-04-01", true)
		b := insert(t, "Dan", "2025-04-10", false)
		at := time.Now().UTC().Truncate(time.Millisecond)

		n, err := store.SetSettlement(ctx, owner, []string{a.ID, b.ID}, storage.SettlementState{
			Settled: true, SettledAt: &at, GroupID: "group-1",
		})
		if err != nil {
			t.Fatalf("SetSettlement failed: %v", err)
		}
		if n != 2 {
			t.Errorf("Expected 2 rows updated, got %d", n)
		}

		members, err := store.ListStandbys(ctx, owner, storage.Filter{GroupID: "group-1", Ascending: true})
		if err != nil {
			t.Fatalf("ListStandbys failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("Expected 2 group members, got %d", len(members))
		}
		for _, m := range members {
			if !m.Settled || m.SettledAt == nil || !m.SettledAt.Equal(at) {
				t.Errorf("Member %s not settled at %v: %+v", m.ID, at, m)
			}
		}

		if _, err := store.SetSettlement(ctx, owner, []string{a.ID}, storage.Cleared); err != nil {
			t.Fatalf("SetSettlement clear failed: %v", err)
		}
		got, _ := store.GetStandby(ctx, owner, a.ID)
		if got.Settled || got.SettledAt != nil || got.SettlementGroupID != "" {
			t.Errorf("Expected cleared settlement, got %+v", got)
		}
	})

	t.Run("SetDeleted and filters", func(t *testing.T) {
		ev := insert(t, "Erin", "2025-05-01", false)
		at := time.Now().UTC()
		if _, err := store.SetDeleted(ctx, owner, []string{ev.ID}, &at); err != nil {
			t.Fatalf("SetDeleted failed: %v", err)
		}

		deleted, err := store.ListStandbys(ctx, owner, storage.Filter{Deleted: boolPtr(true)})
		if err != nil {
			t.Fatalf("ListStandbys failed: %v", err)
		}
		if len(deleted) != 1 || deleted[0].ID != ev.ID {
			t.Errorf("Expected only %s deleted, got %+v", ev.ID, deleted)
		}

		live, err := store.ListStandbys(ctx, owner, storage.Live())
		if err != nil {
			t.Fatalf("ListStandbys failed: %v", err)
		}
		for _, l := range live {
			if l.ID == ev.ID {
				t.Error("Deleted record returned by live filter")
			}
		}

		if _, err := store.SetDeleted(ctx, owner, []string{ev.ID}, nil); err != nil {
			t.Fatalf("SetDeleted restore failed: %v", err)
		}
		got, _ := store.GetStandby(ctx, owner, ev.ID)
		if got.DeletedAt != nil {
			t.Error("Expected deleted_at to be cleared")
		}
	})

	t.Run("ListStandbys date bounds and order", func(t *testing.T) {
		from, to := date("2025-06-01"), date("2025-06-30")
		insert(t, "Frank", "2025-06-05", true)
		insert(t, "Frank", "2025-06-20", true)
		insert(t, "Frank", "2025-07-01", true)

		got, err := store.ListStandbys(ctx, owner, storage.Filter{
			DateFrom: &from, DateTo: &to, WorkedForMe: boolPtr(true),
		})
		if err != nil {
			t.Fatalf("ListStandbys failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 records in June, got %d", len(got))
		}
		if got[0].ShiftDate != date("2025-06-20") {
			t.Errorf("Expected descending order, got %s first", got[0].ShiftDate)
		}

		after := date("2025-06-20")
		later, err := store.ListStandbys(ctx, owner, storage.Filter{DateAfter: &after, Ascending: true, Limit: 1})
		if err != nil {
			t.Fatalf("ListStandbys failed: %v", err)
		}
		if len(later) != 1 || later[0].ShiftDate != date("2025-07-01") {
			t.Errorf("Expected 2025-07-01 after bound, got %+v", later)
		}
	})

	t.Run("UpdateStandby returns ErrNotFound for unknown id", func(t *testing.T) {
		err := store.UpdateStandby(ctx, &models.StandbyEvent{ID: "missing", OwnerID: owner, ShiftDate: date("2025-01-01"), ShiftType: models.ShiftDay})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DistinctNames matches prefix", func(t *testing.T) {
		insert(t, "Greta Hall", "2025-08-01", false)
		insert(t, "Greta Hall", "2025-08-02", false)
		insert(t, "Gregory Peck", "2025-08-03", false)

		names, err := store.DistinctNames(ctx, owner, "gre", 10)
		if err != nil {
			t.Fatalf("DistinctNames failed: %v", err)
		}
		if len(names) != 2 {
			t.Errorf("Expected 2 distinct names, got %v", names)
		}

		none, err := store.DistinctNames(ctx, owner, "100%", 10)
		if err != nil {
			t.Fatalf("DistinctNames failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("Expected wildcard to be escaped, got %v", none)
		}
	})

	t.Run("InTx rolls back on error", func(t *testing.T) {
		sentinel := errors.New("boom")
		var id string
		err := store.InTx(ctx, func(tx storage.Store) error {
			ev := &models.StandbyEvent{OwnerID: owner, PersonName: "Rolled Back", ShiftDate: date("2025-09-01"), ShiftType: models.ShiftDay}
			if err := tx.InsertStandby(ctx, ev); err != nil {
				return err
			}
			id = ev.ID
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("Expected sentinel error, got %v", err)
		}
		if _, err := store.GetStandby(ctx, owner, id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected rolled back insert to be gone, got %v", err)
		}
	})
}

func TestSQLiteSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	st := &models.Settlement{OwnerID: "owner-1", Resolution: models.ResolutionThreeWay}
	if err := store.CreateSettlement(ctx, st); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	at := time.Now().UTC()
	if err := store.DissolveSettlement(ctx, "owner-1", st.ID, at); err != nil {
		t.Fatalf("DissolveSettlement failed: %v", err)
	}
	// Second dissolve keeps the first timestamp.
	if err := store.DissolveSettlement(ctx, "owner-1", st.ID, at.Add(time.Hour)); err != nil {
		t.Fatalf("DissolveSettlement failed: %v", err)
	}

	got, err := store.GetSettlement(ctx, "owner-1", st.ID)
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if got.Resolution != models.ResolutionThreeWay {
		t.Errorf("Resolution mismatch: got %s", got.Resolution)
	}
	if got.DissolvedAt == nil || got.DissolvedAt.UnixMilli() != at.UnixMilli() {
		t.Errorf("Expected dissolved at %v, got %v", at, got.DissolvedAt)
	}
}

func TestSQLiteUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash")); err == nil {
		t.Error("Expected duplicate email to fail")
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, user.ID)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRoster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	days := []models.RosterDay{
		{Date: date("2025-01-01"), DayPlatoon: "A", NightPlatoon: "B"},
		{Date: date("2025-01-02"), DayPlatoon: "A", NightPlatoon: "B"},
	}
	if err := store.UpsertRosterDays(ctx, days); err != nil {
		t.Fatalf("UpsertRosterDays failed: %v", err)
	}
	if err := store.UpsertRosterDays(ctx, []models.RosterDay{{Date: date("2025-01-02"), DayPlatoon: "C", NightPlatoon: "D"}}); err != nil {
		t.Fatalf("UpsertRosterDays failed: %v", err)
	}

	day, err := store.GetRosterDay(ctx, date("2025-01-02"))
	if err != nil {
		t.Fatalf("GetRosterDay failed: %v", err)
	}
	if day.DayPlatoon != "C" || day.NightPlatoon != "D" {
		t.Errorf("Expected upsert to replace platoons, got %+v", day)
	}

	got, err := store.ListRosterDays(ctx, date("2025-01-01"), date("2025-01-31"))
	if err != nil {
		t.Fatalf("ListRosterDays failed: %v", err)
	}
	if len(got) != 2 || got[0].Date != date("2025-01-01") {
		t.Errorf("Unexpected roster range: %+v", got)
	}

	if _, err := store.GetRosterDay(ctx, date("2030-01-01")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
