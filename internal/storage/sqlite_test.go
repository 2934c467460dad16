package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some scores
	_, err = store.SaveScore("blade", 100)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("blade", 50)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("blade", 200)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Different game
	_, err = store.SaveScore("battle", 500)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Retrieve top scores for blade
	scores, err := store.TopScores("blade", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	// Retrieve top scores for battle
	battleScores, err := store.TopScores("battle", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(battleScores) != 1 {
		t.Errorf("Expected 1 battle score, got %d", len(battleScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No scores yet
	high, err := store.HighScore("blade")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	// Add scores
	store.SaveScore("blade", 100)
	store.SaveScore("blade", 300)
	store.SaveScore("blade", 200)

	high, err = store.HighScore("blade")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("blade", 100)
	store.SaveScore("blade", 200)
	store.SaveScore("battle", 300)

	// Clear only practice scores
	err = store.ClearScores("blade")
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	// blade should be empty
	bladeScores, _ := store.TopScores("blade", 10)
	if len(bladeScores) != 0 {
		t.Errorf("Expected 0 practice scores after clear, got %d", len(bladeScores))
	}

	// Battle should still have scores
	battleScores, _ := store.TopScores("battle", 10)
	if len(battleScores) != 1 {
		t.Errorf("Battle scores should not be affected by clearing blade")
	}
}

func TestStoreAllScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Add many scores
	for i := 0; i < 20; i++ {
		store.SaveScore("test", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that ~ expansion works (we won't actually write to home)
	// Just verify the function doesn't crash
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreOnlineMatchRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	_, err = store.SaveOnlineMatch(OnlineMatchResult{
		MatchID:        "match-1",
		GameID:         "battle_local",
		Player1Session: "alice",
		Player2Session: "bob",
		Score1:         120,
		Score2:         80,
		WinnerSession:  "alice",
		EndReason:      "Match completed",
		Duration:       95,
	})
	if err != nil {
		t.Fatalf("SaveOnlineMatch() failed: %v", err)
	}

	got, err := store.OnlineMatchByID("match-1")
	if err != nil {
		t.Fatalf("OnlineMatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("OnlineMatchByID() returned nil for saved match")
	}
	if got.WinnerSession != "alice" || got.Score1 != 120 || got.Score2 != 80 {
		t.Errorf("Round trip mismatch: %+v", got)
	}

	missing, err := store.OnlineMatchByID("no-such-match")
	if err != nil {
		t.Fatalf("OnlineMatchByID() for missing match failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for missing match")
	}
}

func TestStorePlayerWinLoss(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	matches := []OnlineMatchResult{
		{MatchID: "m1", GameID: "battle_local", Player1Session: "alice", Player2Session: "bob", WinnerSession: "alice", EndReason: "Match completed"},
		{MatchID: "m2", GameID: "battle_local", Player1Session: "alice", Player2Session: "bob", WinnerSession: "bob", EndReason: "Match completed"},
		{MatchID: "m3", GameID: "battle_local", Player1Session: "carol", Player2Session: "alice", WinnerSession: "alice", EndReason: "Match completed"},
		{MatchID: "m4", GameID: "battle_local", Player1Session: "alice", Player2Session: "carol", WinnerSession: "", EndReason: "Match completed"},
		{MatchID: "m5", GameID: "battle_local", Player1Session: "bob", Player2Session: "carol", WinnerSession: "bob", EndReason: "Match completed"},
	}
	for _, m := range matches {
		if _, err := store.SaveOnlineMatch(m); err != nil {
			t.Fatalf("SaveOnlineMatch(%s) failed: %v", m.MatchID, err)
		}
	}

	record, err := store.PlayerWinLoss("alice")
	if err != nil {
		t.Fatalf("PlayerWinLoss() failed: %v", err)
	}
	if record.Wins != 2 {
		t.Errorf("Wins = %d, want 2", record.Wins)
	}
	if record.Losses != 1 {
		t.Errorf("Losses = %d, want 1", record.Losses)
	}
	if record.Draws != 1 {
		t.Errorf("Draws = %d, want 1", record.Draws)
	}

	// A player with no recorded battles has an empty record.
	empty, err := store.PlayerWinLoss("dave")
	if err != nil {
		t.Fatalf("PlayerWinLoss() failed: %v", err)
	}
	if empty.Wins != 0 || empty.Losses != 0 || empty.Draws != 0 {
		t.Errorf("Expected empty record, got %+v", empty)
	}
}
