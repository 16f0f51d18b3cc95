package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/meltforce/barload/internal/models"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "barload.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(user string, target float64, status string, at time.Time, plates ...float64) models.LoadRecord {
	rec := models.LoadRecord{
		ID:        uuid.New(),
		CreatedAt: at,
		User:      user,
		TargetKg:  target,
		Barbell:   "men",
		BarbellKg: 20,
		Plates:    plates,
		Status:    status,
	}
	if status != models.StatusOK {
		msg := "infeasible load: no exact combination"
		rec.Error = &msg
	}
	return rec
}

// TestSQLiteRoundTrip verifies a recorded load reads back with its plates,
// flags and error message intact.
func TestSQLiteRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)

	ok := record("alice", 100, models.StatusOK, at, 25, 10, 2.5)
	ok.Collar = true
	bad := record("alice", 20.3, models.StatusInfeasible, at.Add(time.Minute))

	for _, rec := range []models.LoadRecord{ok, bad} {
		if err := s.RecordLoad(ctx, rec); err != nil {
			t.Fatalf("RecordLoad: %v", err)
		}
	}

	got, err := s.RecentLoads(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("RecentLoads: %v", err)
	}
	bad.Plates = []float64{}
	want := []models.LoadRecord{bad, ok}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

// TestSQLiteScopedByUser verifies users only see and clear their own loads.
func TestSQLiteScopedByUser(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, user := range []string{"alice", "bob", "alice"} {
		if err := s.RecordLoad(ctx, record(user, 60, models.StatusOK, now.Add(time.Duration(i)*time.Second), 20)); err != nil {
			t.Fatalf("RecordLoad: %v", err)
		}
	}

	n, err := s.ClearHistory(ctx, "alice")
	if err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d rows, want 2", n)
	}

	bob, err := s.RecentLoads(ctx, "bob", 10)
	if err != nil {
		t.Fatalf("RecentLoads: %v", err)
	}
	if len(bob) != 1 {
		t.Errorf("bob has %d loads, want 1", len(bob))
	}
}

// TestSQLiteRecentLoadsLimit verifies the limit and newest-first order.
func TestSQLiteRecentLoadsLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		rec := record("alice", float64(60+i*10), models.StatusOK, start.Add(time.Duration(i)*time.Hour), 20)
		if err := s.RecordLoad(ctx, rec); err != nil {
			t.Fatalf("RecordLoad: %v", err)
		}
	}

	got, err := s.RecentLoads(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("RecentLoads: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d loads, want 2", len(got))
	}
	if got[0].TargetKg != 100 || got[1].TargetKg != 90 {
		t.Errorf("targets = %v, %v; want 100, 90", got[0].TargetKg, got[1].TargetKg)
	}
}

// TestSQLiteStats verifies counts per status, the heaviest successful load
// and the most used barbell.
func TestSQLiteStats(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()

	recs := []models.LoadRecord{
		record("alice", 100, models.StatusOK, now, 25, 10, 2.5),
		record("alice", 140, models.StatusOK, now, 25, 25, 10),
		record("alice", 400.3, models.StatusInfeasible, now),
		record("alice", -1, models.StatusInvalid, now),
	}
	recs[0].Barbell = "women"
	for _, rec := range recs {
		if err := s.RecordLoad(ctx, rec); err != nil {
			t.Fatalf("RecordLoad: %v", err)
		}
	}

	stats, err := s.Stats(ctx, "alice")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 4 || stats.OK != 2 || stats.Infeasible != 1 || stats.Invalid != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.HeaviestKg == nil || *stats.HeaviestKg != 140 {
		t.Errorf("heaviest = %v, want 140", stats.HeaviestKg)
	}
	if stats.FavoriteBar == nil || *stats.FavoriteBar != "men" {
		t.Errorf("favorite bar = %v, want men", stats.FavoriteBar)
	}
}

// TestSQLiteStatsEmpty verifies an empty history yields zero counts and no
// favorite barbell rather than an error.
func TestSQLiteStatsEmpty(t *testing.T) {
	s := openTemp(t)

	stats, err := s.Stats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 0 || stats.HeaviestKg != nil || stats.FavoriteBar != nil {
		t.Errorf("stats = %+v, want empty", stats)
	}
}
