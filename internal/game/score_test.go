package game

import "testing"

const testMaxLen = 7

func TestValidateScoreAccepts(t *testing.T) {
	valid := []string{"2-1", "0-0", "20-20", "10-0", " 2-1", "2 - 1"}
	for _, s := range valid {
		if !ValidateScore(s, testMaxLen) {
			t.Errorf("ValidateScore(%q) = false, want true", s)
		}
	}
}

func TestValidateScoreRejects(t *testing.T) {
	invalid := []string{
		"",
		"2",
		"21",
		"abc-1",
		"1-abc",
		"2-1-0",
		"-1",
		"2-",
		"2--1",
		"21-0",   // exceeds goal ceiling
		"0-21",   // exceeds goal ceiling
		"2:1",    // wrong separator
		"2~1",
		"123456-1", // too long
	}
	for _, s := range invalid {
		if ValidateScore(s, testMaxLen) {
			t.Errorf("ValidateScore(%q) = true, want false", s)
		}
	}
}

func TestValidateScoreMaxLength(t *testing.T) {
	// Well-formed but over the configured maximum must still fail.
	if ValidateScore("10-10", 4) {
		t.Error("expected rejection of score longer than max length")
	}
	if !ValidateScore("10-10", 5) {
		t.Error("expected acceptance of score at max length")
	}
}

func TestParseScore(t *testing.T) {
	h, a, err := ParseScore("3-2")
	if err != nil {
		t.Fatalf("ParseScore failed: %v", err)
	}
	if h != 3 || a != 2 {
		t.Errorf("ParseScore(\"3-2\") = (%d, %d), want (3, 2)", h, a)
	}

	if _, _, err := ParseScore("nope"); err == nil {
		t.Error("expected error for malformed score")
	}
	if _, _, err := ParseScore("1-x"); err == nil {
		t.Error("expected error for non-numeric away goals")
	}
}

func TestDeriveWinner(t *testing.T) {
	cases := []struct {
		home, away int
		want       WinnerChoice
	}{
		{2, 1, WinnerHome},
		{0, 3, WinnerAway},
		{1, 1, WinnerDraw},
		{0, 0, WinnerDraw},
	}
	for _, tc := range cases {
		if got := DeriveWinner(tc.home, tc.away); got != tc.want {
			t.Errorf("DeriveWinner(%d, %d) = %v, want %v", tc.home, tc.away, got, tc.want)
		}
	}
}

func TestWinnerChoiceLabel(t *testing.T) {
	if got := WinnerHome.Label("Persepolis", "Esteghlal", "Draw"); got != "Persepolis" {
		t.Errorf("home label = %q", got)
	}
	if got := WinnerAway.Label("Persepolis", "Esteghlal", "Draw"); got != "Esteghlal" {
		t.Errorf("away label = %q", got)
	}
	if got := WinnerDraw.Label("Persepolis", "Esteghlal", "Draw"); got != "Draw" {
		t.Errorf("draw label = %q", got)
	}
}
