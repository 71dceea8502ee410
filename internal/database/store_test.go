package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jmoiron/sqlx"
)

func newTestStore(t *testing.T) (Store, *sqlx.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB(%q) failed: %v", dbPath, err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil), db
}

func TestSaveUserKeepsFirstRegistration(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	ctx := context.Background()

	first := &User{UserID: 42, Username: "tester", FirstName: "Ivan"}
	if err := store.SaveUser(ctx, first); err != nil {
		t.Fatalf("SaveUser() failed: %v", err)
	}

	// A second /start must not overwrite the original row.
	second := &User{UserID: 42, Username: "renamed", FirstName: "Oleg"}
	if err := store.SaveUser(ctx, second); err != nil {
		t.Fatalf("SaveUser() second call failed: %v", err)
	}

	var got User
	if err := db.Get(&got, `SELECT user_id, username, first_name, created_at FROM users WHERE user_id = ?`, 42); err != nil {
		t.Fatalf("fetching saved user failed: %v", err)
	}
	if got.Username != "tester" || got.FirstName != "Ivan" {
		t.Errorf("user row = %q/%q, want original %q/%q", got.Username, got.FirstName, "tester", "Ivan")
	}
}

func TestSaveUserValidation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		user *User
	}{
		{name: "nil user", user: nil},
		{name: "zero user id", user: &User{Username: "ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveUser(ctx, tt.user); err == nil {
				t.Errorf("SaveUser(%v) = nil error, want error", tt.user)
			}
		})
	}
}

func TestGetUserStatsEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	stats, err := store.GetUserStats(ctx, 7)
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if stats.Overall.TestsTaken != 0 {
		t.Errorf("Overall.TestsTaken = %d, want 0", stats.Overall.TestsTaken)
	}
	if len(stats.ByLevel) != 0 {
		t.Errorf("ByLevel has %d entries, want 0", len(stats.ByLevel))
	}
	if len(stats.Recent) != 0 {
		t.Errorf("Recent has %d entries, want 0", len(stats.Recent))
	}
}

func TestGetUserStatsAggregates(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	results := []*TestResult{
		{UserID: 9, Level: "junior", Mode: "quick", CorrectAnswers: 10, TotalQuestions: 10, Percentage: 100, CompletedAt: base},
		{UserID: 9, Level: "junior", Mode: "full", CorrectAnswers: 10, TotalQuestions: 20, Percentage: 50, CompletedAt: base.Add(time.Hour)},
		{UserID: 9, Level: "middle", Mode: "quick", CorrectAnswers: 5, TotalQuestions: 10, Percentage: 50, CompletedAt: base.Add(2 * time.Hour)},
		// Another user's result must not leak into the aggregates.
		{UserID: 10, Level: "senior", Mode: "quick", CorrectAnswers: 1, TotalQuestions: 10, Percentage: 10, CompletedAt: base},
	}
	for _, r := range results {
		if err := store.SaveTestResult(ctx, r); err != nil {
			t.Fatalf("SaveTestResult(%+v) failed: %v", r, err)
		}
		if r.ID == 0 {
			t.Errorf("SaveTestResult did not backfill ID for %+v", r)
		}
	}

	stats, err := store.GetUserStats(ctx, 9)
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}

	wantOverall := OverallStats{
		TestsTaken:     3,
		AvgPercentage:  (100.0 + 50.0 + 50.0) / 3.0,
		BestPercentage: 100,
		TotalCorrect:   25,
		TotalQuestions: 40,
	}
	if diff := cmp.Diff(wantOverall, stats.Overall, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Overall stats mismatch (-want +got):\n%s", diff)
	}

	wantByLevel := []LevelStats{
		{Level: "junior", TestsTaken: 2, AvgPercentage: 75, BestPercentage: 100},
		{Level: "middle", TestsTaken: 1, AvgPercentage: 50, BestPercentage: 50},
	}
	sortLevels := cmpopts.SortSlices(func(a, b LevelStats) bool { return a.Level < b.Level })
	if diff := cmp.Diff(wantByLevel, stats.ByLevel, sortLevels, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ByLevel stats mismatch (-want +got):\n%s", diff)
	}

	if len(stats.Recent) != 3 {
		t.Fatalf("Recent has %d entries, want 3", len(stats.Recent))
	}
	// Most recent first.
	if stats.Recent[0].Level != "middle" {
		t.Errorf("Recent[0].Level = %q, want %q", stats.Recent[0].Level, "middle")
	}
}

func TestGetUserStatsRecentLimit(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		r := &TestResult{
			UserID: 3, Level: "junior", Mode: "quick",
			CorrectAnswers: i, TotalQuestions: 10, Percentage: float64(i * 10),
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveTestResult(ctx, r); err != nil {
			t.Fatalf("SaveTestResult() failed: %v", err)
		}
	}

	stats, err := store.GetUserStats(ctx, 3)
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if len(stats.Recent) != recentResultsLimit {
		t.Errorf("Recent has %d entries, want %d", len(stats.Recent), recentResultsLimit)
	}
	if stats.Recent[0].Percentage != 60 {
		t.Errorf("Recent[0].Percentage = %v, want 60 (newest result)", stats.Recent[0].Percentage)
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetSession(ctx, 5)
	if err != nil {
		t.Fatalf("GetSession() on empty table failed: %v", err)
	}
	if got != nil {
		t.Fatalf("GetSession() on empty table = %+v, want nil", got)
	}

	session := &Session{
		UserID:          5,
		Level:           "middle",
		Mode:            "full",
		QuestionsJSON:   `[{"question":"q"}]`,
		CurrentQuestion: 0,
		TotalQuestions:  20,
	}
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	// Progress and replace.
	session.CurrentQuestion = 3
	session.CorrectAnswers = 2
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() replace failed: %v", err)
	}

	got, err = store.GetSession(ctx, 5)
	if err != nil {
		t.Fatalf("GetSession() failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession() = nil, want saved session")
	}
	if got.CurrentQuestion != 3 || got.CorrectAnswers != 2 {
		t.Errorf("session progress = %d/%d correct, want 3/2", got.CurrentQuestion, got.CorrectAnswers)
	}
	if got.QuestionsJSON != session.QuestionsJSON {
		t.Errorf("QuestionsJSON = %q, want %q", got.QuestionsJSON, session.QuestionsJSON)
	}

	if err := store.DeleteSession(ctx, 5); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	got, err = store.GetSession(ctx, 5)
	if err != nil {
		t.Fatalf("GetSession() after delete failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetSession() after delete = %+v, want nil", got)
	}

	// Deleting a missing session is not an error.
	if err := store.DeleteSession(ctx, 5); err != nil {
		t.Errorf("DeleteSession() on missing session failed: %v", err)
	}
}

func TestDeleteSessionsBefore(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	ctx := context.Background()

	for _, userID := range []int64{1, 2, 3} {
		session := &Session{
			UserID: userID, Level: "junior", Mode: "quick",
			QuestionsJSON: "[]", TotalQuestions: 10,
		}
		if err := store.SaveSession(ctx, session); err != nil {
			t.Fatalf("SaveSession(user %d) failed: %v", userID, err)
		}
	}

	// Age two of the sessions past the cutoff.
	stale := time.Now().UTC().Add(-48 * time.Hour)
	if _, err := db.Exec(`UPDATE sessions SET updated_at = ? WHERE user_id IN (1, 2)`, stale); err != nil {
		t.Fatalf("aging sessions failed: %v", err)
	}

	deleted, err := store.DeleteSessionsBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteSessionsBefore() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteSessionsBefore() = %d, want 2", deleted)
	}

	got, err := store.GetSession(ctx, 3)
	if err != nil {
		t.Fatalf("GetSession(3) failed: %v", err)
	}
	if got == nil {
		t.Error("GetSession(3) = nil, fresh session should survive cleanup")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance() failed: %v", err)
	}
}
