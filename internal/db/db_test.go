package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glm-tools/glm-usage-tui/internal/models"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNewCreatesSchema(t *testing.T) {
	database := newTestDB(t)

	types, err := database.LimitTypes()
	if err != nil {
		t.Fatalf("LimitTypes() failed: %v", err)
	}
	if len(types) != 0 {
		t.Errorf("fresh database should have no limit types, got %v", types)
	}
}

func TestInsertSnapshotAndRecentSamples(t *testing.T) {
	database := newTestDB(t)

	snap := &models.QuotaSnapshot{Limits: []models.Limit{
		{Type: "TOKENS", Percentage: f64(25), Usage: i64(1000)},
		{Type: "PROMPTS", Percentage: nil, Usage: nil},
	}}

	now := time.Now()
	if err := database.InsertSnapshot(snap, now); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}

	samples, err := database.RecentSamples("TOKENS", time.Hour)
	if err != nil {
		t.Fatalf("RecentSamples() failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	s := samples[0]
	if s.LimitType != "TOKENS" {
		t.Errorf("LimitType = %q", s.LimitType)
	}
	if s.Percentage == nil || *s.Percentage != 25 {
		t.Errorf("Percentage = %v", s.Percentage)
	}
	if s.Usage == nil || *s.Usage != 1000 {
		t.Errorf("Usage = %v", s.Usage)
	}

	// Null columns stay nil
	samples, err = database.RecentSamples("PROMPTS", time.Hour)
	if err != nil {
		t.Fatalf("RecentSamples() failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].Percentage != nil || samples[0].Usage != nil {
		t.Errorf("null columns should scan to nil, got %+v", samples[0])
	}
}

func TestInsertSnapshotNil(t *testing.T) {
	database := newTestDB(t)
	if err := database.InsertSnapshot(nil, time.Now()); err != nil {
		t.Errorf("InsertSnapshot(nil) should be a no-op, got %v", err)
	}
}

func TestRecentSamplesOrderAndWindow(t *testing.T) {
	database := newTestDB(t)

	old := &models.QuotaSnapshot{Limits: []models.Limit{{Type: "TOKENS", Percentage: f64(10)}}}
	mid := &models.QuotaSnapshot{Limits: []models.Limit{{Type: "TOKENS", Percentage: f64(20)}}}
	recent := &models.QuotaSnapshot{Limits: []models.Limit{{Type: "TOKENS", Percentage: f64(30)}}}

	now := time.Now()
	if err := database.InsertSnapshot(old, now.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := database.InsertSnapshot(mid, now.Add(-30*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := database.InsertSnapshot(recent, now); err != nil {
		t.Fatal(err)
	}

	samples, err := database.RecentSamples("TOKENS", time.Hour)
	if err != nil {
		t.Fatalf("RecentSamples() failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples inside window, want 2", len(samples))
	}
	if *samples[0].Percentage != 20 || *samples[1].Percentage != 30 {
		t.Errorf("samples not ordered oldest first: %v, %v",
			*samples[0].Percentage, *samples[1].Percentage)
	}
}

func TestLimitTypes(t *testing.T) {
	database := newTestDB(t)

	snap := &models.QuotaSnapshot{Limits: []models.Limit{
		{Type: "TOKENS"},
		{Type: "PROMPTS"},
	}}
	if err := database.InsertSnapshot(snap, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := database.InsertSnapshot(snap, time.Now()); err != nil {
		t.Fatal(err)
	}

	types, err := database.LimitTypes()
	if err != nil {
		t.Fatalf("LimitTypes() failed: %v", err)
	}
	if len(types) != 2 || types[0] != "PROMPTS" || types[1] != "TOKENS" {
		t.Errorf("LimitTypes() = %v, want [PROMPTS TOKENS]", types)
	}
}

func TestPrune(t *testing.T) {
	database := newTestDB(t)

	snap := &models.QuotaSnapshot{Limits: []models.Limit{{Type: "TOKENS", Percentage: f64(50)}}}
	now := time.Now()
	if err := database.InsertSnapshot(snap, now.Add(-48*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := database.InsertSnapshot(snap, now); err != nil {
		t.Fatal(err)
	}

	if err := database.Prune(24 * time.Hour); err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	samples, err := database.RecentSamples("TOKENS", 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Errorf("got %d samples after prune, want 1", len(samples))
	}
}
