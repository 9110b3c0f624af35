package game

// Rules carries the point values awarded per outcome quality and the
// label that marks a drawn match in stored winner fields.
type Rules struct {
	ExactScore    int
	CorrectWinner int
	PartialScore  int
	DrawLabel     string
}

// DefaultRules matches the league's standard scoring: 5 for the exact
// score, 3 for the right winner, 1 for one correct goal count.
func DefaultRules() Rules {
	return Rules{ExactScore: 5, CorrectWinner: 3, PartialScore: 1, DrawLabel: "مساوی"}
}

// CalculatePoints scores a stored prediction against the official
// result. The first matching rule wins:
//
//  1. exact score string match
//  2. correct winner label
//  3. either goal count correct
//
// Missing inputs or unparseable scores yield 0; the function never
// returns an error so a malformed stored value degrades to zero points.
// Re-running with the same inputs always produces the same output.
func (r Rules) CalculatePoints(predictedScore, predictedWinner, actualScore, homeTeam, awayTeam string) int {
	if predictedScore == "" || predictedWinner == "" || actualScore == "" || homeTeam == "" || awayTeam == "" {
		return 0
	}

	if predictedScore == actualScore {
		return r.ExactScore
	}

	predHome, predAway, err := ParseScore(predictedScore)
	if err != nil {
		return 0
	}
	actualHome, actualAway, err := ParseScore(actualScore)
	if err != nil {
		return 0
	}

	actualWinner := DeriveWinner(actualHome, actualAway).Label(homeTeam, awayTeam, r.DrawLabel)
	if predictedWinner == actualWinner {
		return r.CorrectWinner
	}

	if predHome == actualHome || predAway == actualAway {
		return r.PartialScore
	}

	return 0
}
