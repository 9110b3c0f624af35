package storage

import (
	"testing"
)

func setupTestDB(t *testing.T) {
	// Use in-memory database for tests
	if err := InitDB(":memory:"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

func cleanupTestDB(t *testing.T) {
	CloseDB()
}

func TestUpsertUserIdempotent(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := UpsertUser(12345, "Test User", "testuser", "en"); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if err := UpsertUser(12345, "Renamed User", "renamed", "fa"); err != nil {
		t.Fatalf("second UpsertUser failed: %v", err)
	}

	user, err := GetUser(12345)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user == nil {
		t.Fatal("Expected user, got nil")
	}
	// First registration wins; later calls must not rewrite the row.
	if user.FullName != "Test User" {
		t.Errorf("Expected full name 'Test User', got %q", user.FullName)
	}
}

func TestGetUserNotFound(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	user, err := GetUser(999999)
	if err != nil {
		t.Fatalf("GetUser should not fail for missing user: %v", err)
	}
	if user != nil {
		t.Error("Expected nil user for unknown ID")
	}
}

func TestCreateAndGetMatch(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	match, err := CreateMatch(1, "Persepolis", "Esteghlal")
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}
	if match.ID == 0 {
		t.Error("Expected non-zero match ID")
	}
	if match.Week != 1 || match.HomeTeam != "Persepolis" || match.AwayTeam != "Esteghlal" {
		t.Errorf("Unexpected match fields: %+v", match)
	}
	if match.Resolved() {
		t.Error("New match must be unresolved")
	}

	missing, err := GetMatchByID(match.ID + 100)
	if err != nil {
		t.Fatalf("GetMatchByID failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for missing match")
	}
}

func TestImportMatch(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := ImportMatch(42, 3, "A", "B", ""); err != nil {
		t.Fatalf("ImportMatch failed: %v", err)
	}
	match, err := GetMatchByID(42)
	if err != nil {
		t.Fatalf("GetMatchByID failed: %v", err)
	}
	if match == nil || match.Week != 3 || match.Resolved() {
		t.Fatalf("Unexpected imported match: %+v", match)
	}

	// Re-importing must not clobber the existing row.
	if err := ImportMatch(42, 3, "X", "Y", "2-1"); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	match, _ = GetMatchByID(42)
	if match.HomeTeam != "A" || match.Resolved() {
		t.Errorf("Re-import overwrote the row: %+v", match)
	}

	// A fixture can arrive with its result already known.
	if err := ImportMatch(43, 3, "C", "D", "1-0"); err != nil {
		t.Fatalf("ImportMatch with result failed: %v", err)
	}
	match, _ = GetMatchByID(43)
	if !match.Resolved() || match.Result != "1-0" {
		t.Errorf("Expected pre-resolved match, got %+v", match)
	}
}

func TestNextUnpredictedMatch(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if err := UpsertUser(100, "Player", "player", "en"); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	m1, _ := CreateMatch(1, "A", "B")
	m2, _ := CreateMatch(1, "C", "D")
	_, _ = CreateMatch(2, "E", "F") // other week, must be ignored

	next, err := NextUnpredictedMatch(100, 1)
	if err != nil {
		t.Fatalf("NextUnpredictedMatch failed: %v", err)
	}
	if next == nil || next.ID != m1.ID {
		t.Fatalf("Expected match %d first, got %+v", m1.ID, next)
	}

	// Predicting the first match moves the cursor to the second.
	if err := UpsertPrediction(100, m1.ID, 1, "A", "B", "2-1", "A"); err != nil {
		t.Fatalf("UpsertPrediction failed: %v", err)
	}
	next, err = NextUnpredictedMatch(100, 1)
	if err != nil {
		t.Fatalf("NextUnpredictedMatch failed: %v", err)
	}
	if next == nil || next.ID != m2.ID {
		t.Fatalf("Expected match %d, got %+v", m2.ID, next)
	}

	// Both predicted: nothing remains.
	if err := UpsertPrediction(100, m2.ID, 1, "C", "D", "0-0", "مساوی"); err != nil {
		t.Fatalf("UpsertPrediction failed: %v", err)
	}
	next, err = NextUnpredictedMatch(100, 1)
	if err != nil {
		t.Fatalf("NextUnpredictedMatch failed: %v", err)
	}
	if next != nil {
		t.Errorf("Expected no remaining match, got %+v", next)
	}

	remaining, err := CountUnpredictedMatches(100, 1)
	if err != nil {
		t.Fatalf("CountUnpredictedMatches failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected 0 remaining, got %d", remaining)
	}
}

func TestUpsertPredictionUnique(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	_ = UpsertUser(200, "Player", "player", "en")
	match, _ := CreateMatch(1, "A", "B")

	if err := UpsertPrediction(200, match.ID, 1, "A", "B", "1-0", "A"); err != nil {
		t.Fatalf("first UpsertPrediction failed: %v", err)
	}
	if err := UpsertPrediction(200, match.ID, 1, "A", "B", "3-1", "A"); err != nil {
		t.Fatalf("second UpsertPrediction failed: %v", err)
	}

	preds, err := PredictionsByMatch(match.ID)
	if err != nil {
		t.Fatalf("PredictionsByMatch failed: %v", err)
	}
	if len(preds) != 1 {
		t.Fatalf("Expected exactly 1 prediction row, got %d", len(preds))
	}
	if preds[0].Score != "3-1" {
		t.Errorf("Expected the second submission's score, got %q", preds[0].Score)
	}
	if preds[0].Points.Valid {
		t.Error("Points must be NULL until the match is resolved")
	}
}

func TestUserPredictions(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	_ = UpsertUser(300, "Player", "player", "en")
	m1, _ := CreateMatch(1, "A", "B")
	m2, _ := CreateMatch(2, "C", "D")
	_ = UpsertPrediction(300, m1.ID, 1, "A", "B", "2-1", "A")
	_ = UpsertPrediction(300, m2.ID, 2, "C", "D", "0-0", "مساوی")

	all, err := UserPredictions(300, 0)
	if err != nil {
		t.Fatalf("UserPredictions failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(all))
	}
	if all[0].MatchResult != "" {
		t.Error("Expected empty match result before resolution")
	}

	week1, err := UserPredictions(300, 1)
	if err != nil {
		t.Fatalf("UserPredictions(week=1) failed: %v", err)
	}
	if len(week1) != 1 || week1[0].MatchID != m1.ID {
		t.Errorf("Expected only week 1 prediction, got %+v", week1)
	}
}

func TestLeaderboard(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	_ = UpsertUser(1, "Alice", "alice", "en")
	_ = UpsertUser(2, "Bob", "bob", "en")
	m1, _ := CreateMatch(1, "A", "B")
	m2, _ := CreateMatch(2, "C", "D")

	_ = UpsertPrediction(1, m1.ID, 1, "A", "B", "2-1", "A")
	_ = UpsertPrediction(2, m1.ID, 1, "A", "B", "1-0", "A")
	_ = UpsertPrediction(1, m2.ID, 2, "C", "D", "0-0", "مساوی")

	// Score by hand: unscored predictions must not appear.
	mustExec(t, `UPDATE predictions SET points = 5 WHERE user_id = 1 AND match_id = ?`, m1.ID)
	mustExec(t, `UPDATE predictions SET points = 3 WHERE user_id = 2 AND match_id = ?`, m1.ID)
	mustExec(t, `UPDATE predictions SET points = 1 WHERE user_id = 1 AND match_id = ?`, m2.ID)

	entries, err := Leaderboard(0, 10)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].FullName != "Alice" || entries[0].TotalPoints != 6 {
		t.Errorf("Expected Alice with 6 points first, got %+v", entries[0])
	}
	if entries[1].FullName != "Bob" || entries[1].TotalPoints != 3 {
		t.Errorf("Expected Bob with 3 points second, got %+v", entries[1])
	}

	week2, err := Leaderboard(2, 10)
	if err != nil {
		t.Fatalf("Leaderboard(week=2) failed: %v", err)
	}
	if len(week2) != 1 || week2[0].TotalPoints != 1 {
		t.Errorf("Expected Alice with 1 point for week 2, got %+v", week2)
	}

	capped, err := Leaderboard(0, 1)
	if err != nil {
		t.Fatalf("Leaderboard(limit=1) failed: %v", err)
	}
	if len(capped) != 1 {
		t.Errorf("Expected 1 capped entry, got %d", len(capped))
	}
}

func TestCurrentWeek(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	week, err := GetCurrentWeek()
	if err != nil {
		t.Fatalf("GetCurrentWeek failed: %v", err)
	}
	if week != 1 {
		t.Errorf("Expected initial week 1, got %d", week)
	}

	if err := SetCurrentWeek(5); err != nil {
		t.Fatalf("SetCurrentWeek failed: %v", err)
	}
	week, _ = GetCurrentWeek()
	if week != 5 {
		t.Errorf("Expected week 5, got %d", week)
	}

	if err := SetCurrentWeek(0); err == nil {
		t.Error("Expected error for week below 1")
	}
}

func TestWeekLocking(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if IsWeekLocked(3) {
		t.Error("Week must start unlocked")
	}
	if err := LockWeek(3); err != nil {
		t.Fatalf("LockWeek failed: %v", err)
	}
	if !IsWeekLocked(3) {
		t.Error("Expected week 3 locked")
	}
	if IsWeekLocked(4) {
		t.Error("Locking week 3 must not lock week 4")
	}
	if err := UnlockWeek(3); err != nil {
		t.Fatalf("UnlockWeek failed: %v", err)
	}
	if IsWeekLocked(3) {
		t.Error("Expected week 3 unlocked again")
	}
}

func TestSettings(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	v, err := GetSetting("missing", "fallback")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "fallback" {
		t.Errorf("Expected fallback, got %q", v)
	}

	if err := SetSetting("greeting", "hello"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := SetSetting("greeting", "hi"); err != nil {
		t.Fatalf("SetSetting update failed: %v", err)
	}
	v, _ = GetSetting("greeting", "")
	if v != "hi" {
		t.Errorf("Expected updated value 'hi', got %q", v)
	}
}

func mustExec(t *testing.T, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q failed: %v", query, err)
	}
}
