// Package game holds the pure rules of the prediction league: score
// validation, winner derivation and point calculation. Nothing in this
// package touches storage or the transport.
package game

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxGoals is the sanity ceiling for a single team's goal count.
const MaxGoals = 20

// ValidateScore reports whether s is a well-formed score string
// ("H-A", both sides non-negative integers no greater than MaxGoals).
// maxLen guards against oversized input; anything longer is rejected
// before parsing. The function never panics on arbitrary text.
func ValidateScore(s string, maxLen int) bool {
	if len(s) > maxLen {
		return false
	}
	home, away, ok := strings.Cut(s, "-")
	if !ok {
		return false
	}
	h, err := parseGoals(home)
	if err != nil {
		return false
	}
	a, err := parseGoals(away)
	if err != nil {
		return false
	}
	return h <= MaxGoals && a <= MaxGoals
}

// ParseScore splits a "H-A" score string into its goal counts.
func ParseScore(s string) (home, away int, err error) {
	h, a, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("malformed score %q", s)
	}
	if home, err = parseGoals(h); err != nil {
		return 0, 0, fmt.Errorf("malformed score %q: %w", s, err)
	}
	if away, err = parseGoals(a); err != nil {
		return 0, 0, fmt.Errorf("malformed score %q: %w", s, err)
	}
	return home, away, nil
}

func parseGoals(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty goal count")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit goal count %q", s)
		}
	}
	return strconv.Atoi(s)
}

// WinnerChoice is the outcome of a match: home win, away win or draw.
type WinnerChoice int

const (
	WinnerHome WinnerChoice = iota
	WinnerAway
	WinnerDraw
)

// DeriveWinner maps a goal pair to its outcome.
func DeriveWinner(homeGoals, awayGoals int) WinnerChoice {
	switch {
	case homeGoals == awayGoals:
		return WinnerDraw
	case homeGoals > awayGoals:
		return WinnerHome
	default:
		return WinnerAway
	}
}

// Label renders the choice as the stored winner label: the team's name,
// or drawLabel for a tie.
func (c WinnerChoice) Label(homeTeam, awayTeam, drawLabel string) string {
	switch c {
	case WinnerHome:
		return homeTeam
	case WinnerAway:
		return awayTeam
	default:
		return drawLabel
	}
}
