package game

import "testing"

func testRules() Rules {
	return DefaultRules()
}

func TestCalculatePointsExactScore(t *testing.T) {
	r := testRules()
	if got := r.CalculatePoints("2-1", "TeamA", "2-1", "TeamA", "TeamB"); got != 5 {
		t.Errorf("exact score: got %d, want 5", got)
	}
}

func TestCalculatePointsExactDrawScore(t *testing.T) {
	// Exact string match wins before any winner comparison.
	r := testRules()
	if got := r.CalculatePoints("1-1", "مساوی", "1-1", "TeamA", "TeamB"); got != 5 {
		t.Errorf("exact draw score: got %d, want 5", got)
	}
}

func TestCalculatePointsCorrectWinner(t *testing.T) {
	r := testRules()
	if got := r.CalculatePoints("2-1", "TeamA", "3-2", "TeamA", "TeamB"); got != 3 {
		t.Errorf("correct winner: got %d, want 3", got)
	}
}

func TestCalculatePointsCorrectDrawWinner(t *testing.T) {
	r := testRules()
	if got := r.CalculatePoints("0-0", "مساوی", "2-2", "TeamA", "TeamB"); got != 3 {
		t.Errorf("correct draw winner: got %d, want 3", got)
	}
}

func TestCalculatePointsPartialScore(t *testing.T) {
	r := testRules()
	// Home goal count matches, winner does not.
	if got := r.CalculatePoints("2-1", "TeamA", "2-2", "TeamA", "TeamB"); got != 1 {
		t.Errorf("partial home goals: got %d, want 1", got)
	}
	// Away goal count matches, winner does not.
	if got := r.CalculatePoints("0-2", "TeamB", "3-2", "TeamA", "TeamB"); got != 1 {
		t.Errorf("partial away goals: got %d, want 1", got)
	}
}

func TestCalculatePointsNothingMatches(t *testing.T) {
	r := testRules()
	if got := r.CalculatePoints("0-1", "TeamB", "3-0", "TeamA", "TeamB"); got != 0 {
		t.Errorf("no match: got %d, want 0", got)
	}
}

func TestCalculatePointsMissingInputs(t *testing.T) {
	r := testRules()
	cases := [][5]string{
		{"", "TeamA", "2-1", "TeamA", "TeamB"},
		{"2-1", "", "2-1", "TeamA", "TeamB"},
		{"2-1", "TeamA", "", "TeamA", "TeamB"},
		{"2-1", "TeamA", "2-1", "", "TeamB"},
		{"2-1", "TeamA", "2-1", "TeamA", ""},
	}
	for _, c := range cases {
		if got := r.CalculatePoints(c[0], c[1], c[2], c[3], c[4]); got != 0 {
			t.Errorf("CalculatePoints(%q, %q, %q, %q, %q) = %d, want 0", c[0], c[1], c[2], c[3], c[4], got)
		}
	}
}

func TestCalculatePointsMalformedScores(t *testing.T) {
	// Malformed stored values degrade to zero, never an error.
	r := testRules()
	if got := r.CalculatePoints("garbage", "TeamA", "2-1", "TeamA", "TeamB"); got != 0 {
		t.Errorf("malformed predicted score: got %d, want 0", got)
	}
	if got := r.CalculatePoints("2-1", "TeamA", "garbage", "TeamA", "TeamB"); got != 0 {
		t.Errorf("malformed actual score: got %d, want 0", got)
	}
}

func TestCalculatePointsDeterministic(t *testing.T) {
	r := testRules()
	first := r.CalculatePoints("2-1", "TeamA", "3-2", "TeamA", "TeamB")
	for i := 0; i < 10; i++ {
		if got := r.CalculatePoints("2-1", "TeamA", "3-2", "TeamA", "TeamB"); got != first {
			t.Fatalf("run %d: got %d, want %d", i, got, first)
		}
	}
}

func TestCalculatePointsConfigurableValues(t *testing.T) {
	r := Rules{ExactScore: 10, CorrectWinner: 7, PartialScore: 2, DrawLabel: "Draw"}
	if got := r.CalculatePoints("2-1", "TeamA", "2-1", "TeamA", "TeamB"); got != 10 {
		t.Errorf("exact: got %d, want 10", got)
	}
	if got := r.CalculatePoints("2-1", "TeamA", "3-2", "TeamA", "TeamB"); got != 7 {
		t.Errorf("winner: got %d, want 7", got)
	}
	if got := r.CalculatePoints("2-1", "TeamA", "2-2", "TeamA", "TeamB"); got != 2 {
		t.Errorf("partial: got %d, want 2", got)
	}
}
