package storage

import (
	"database/sql"
	"time"
)

// User represents a registered player. Users are created once on first
// interaction and never deleted.
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Username     string    `json:"username" db:"username"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Match is one scheduled fixture. Result and Winner stay empty until an
// admin confirms the official outcome.
type Match struct {
	ID        int64     `json:"id" db:"id"`
	Week      int       `json:"week" db:"week"`
	HomeTeam  string    `json:"home_team" db:"home_team"`
	AwayTeam  string    `json:"away_team" db:"away_team"`
	Result    string    `json:"result,omitempty" db:"result"`
	Winner    string    `json:"winner,omitempty" db:"winner"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Resolved reports whether an official result has been recorded.
func (m *Match) Resolved() bool {
	return m.Result != ""
}

// Prediction is one user's submitted score and winner for a match.
// Points stays NULL until the match is resolved and the scoring sweep
// runs. Team names and week are denormalized at submission time so a
// prediction stays readable even if fixtures are re-imported.
type Prediction struct {
	ID        int64         `json:"id" db:"id"`
	UserID    int64         `json:"user_id" db:"user_id"`
	MatchID   int64         `json:"match_id" db:"match_id"`
	Week      int           `json:"week" db:"week"`
	HomeTeam  string        `json:"home_team" db:"home_team"`
	AwayTeam  string        `json:"away_team" db:"away_team"`
	Score     string        `json:"score" db:"score"`
	Winner    string        `json:"winner" db:"winner"`
	Points    sql.NullInt64 `json:"points" db:"points"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// PredictionView is a prediction joined with its match's current result,
// as shown in the "my predictions" listing.
type PredictionView struct {
	Prediction
	MatchResult string `json:"match_result,omitempty"`
}

// LeaderboardEntry is one row of the points aggregate.
type LeaderboardEntry struct {
	UserID      int64  `json:"user_id"`
	FullName    string `json:"full_name"`
	TotalPoints int64  `json:"total_points"`
}
