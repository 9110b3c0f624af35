package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

var db *sql.DB

// InitDB opens the SQLite database at dbPath with WAL mode enabled and
// runs migrations. Pass ":memory:" for an ephemeral database in tests.
func InitDB(dbPath string) error {
	path := dbPath
	if path != ":memory:" {
		abs, err := filepath.Abs(dbPath)
		if err != nil {
			return err
		}
		path = abs
	}

	var err error
	db, err = sql.Open("sqlite", path)
	if err != nil {
		return err
	}

	// WAL mode for better concurrency between handler goroutines
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return err
	}
	if _, err = db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return err
	}

	return runMigrations()
}

// DB returns the database connection.
func DB() *sql.DB {
	return db
}

// CloseDB closes the database connection.
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

func runMigrations() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			full_name TEXT NOT NULL,
			username TEXT,
			language_code TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			week INTEGER NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			result TEXT,
			winner TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			match_id INTEGER NOT NULL,
			week INTEGER NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			score TEXT NOT NULL,
			winner TEXT NOT NULL,
			points INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id),
			FOREIGN KEY (match_id) REFERENCES matches(id),
			UNIQUE(user_id, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_week ON matches(week)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_match_id ON predictions(match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user_id ON predictions(user_id)`,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('current_week', '1')`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// UpsertUser registers a user on first interaction. Existing rows are
// left untouched, so repeated calls are idempotent.
func UpsertUser(userID int64, fullName, username, languageCode string) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO users (user_id, full_name, username, language_code)
		VALUES (?, ?, ?, ?)
	`, userID, fullName, username, languageCode)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID, or nil when unregistered.
func GetUser(userID int64) (*User, error) {
	var u User
	var username, langCode sql.NullString
	err := db.QueryRow(`
		SELECT user_id, full_name, username, language_code, created_at
		FROM users WHERE user_id = ?
	`, userID).Scan(&u.UserID, &u.FullName, &username, &langCode, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Username = username.String
	u.LanguageCode = langCode.String
	return &u, nil
}

// CreateMatch inserts a fixture with a generated id. The bot itself
// never creates matches; fixtures arrive through the importer or tests.
func CreateMatch(week int, homeTeam, awayTeam string) (*Match, error) {
	res, err := db.Exec(`
		INSERT INTO matches (week, home_team, away_team) VALUES (?, ?, ?)
	`, week, homeTeam, awayTeam)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get match id: %w", err)
	}
	return GetMatchByID(id)
}

// ImportMatch inserts a fixture with an explicit id, optionally carrying
// an already-known result. Existing rows are kept, so re-running an
// import does not clobber results recorded since.
func ImportMatch(id int64, week int, homeTeam, awayTeam, result string) error {
	var res any
	if result != "" {
		res = result
	}
	_, err := db.Exec(`
		INSERT OR IGNORE INTO matches (id, week, home_team, away_team, result)
		VALUES (?, ?, ?, ?, ?)
	`, id, week, homeTeam, awayTeam, res)
	if err != nil {
		return fmt.Errorf("failed to import match %d: %w", id, err)
	}
	return nil
}

// GetMatchByID retrieves a match, or nil when it does not exist.
func GetMatchByID(id int64) (*Match, error) {
	row := db.QueryRow(`
		SELECT id, week, home_team, away_team, result, winner, created_at, updated_at
		FROM matches WHERE id = ?
	`, id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*Match, error) {
	var m Match
	var result, winner sql.NullString
	err := row.Scan(&m.ID, &m.Week, &m.HomeTeam, &m.AwayTeam, &result, &winner, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Result = result.String
	m.Winner = winner.String
	return &m, nil
}

// NextUnpredictedMatch returns the user's earliest match in the given
// week that has no prediction yet, or nil when none remain.
func NextUnpredictedMatch(userID int64, week int) (*Match, error) {
	row := db.QueryRow(`
		SELECT id, week, home_team, away_team, result, winner, created_at, updated_at
		FROM matches
		WHERE week = ?
		AND id NOT IN (SELECT match_id FROM predictions WHERE user_id = ?)
		ORDER BY id LIMIT 1
	`, week, userID)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next match: %w", err)
	}
	return m, nil
}

// CountUnpredictedMatches counts the user's remaining unpredicted
// matches in the given week.
func CountUnpredictedMatches(userID int64, week int) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM matches
		WHERE week = ?
		AND id NOT IN (SELECT match_id FROM predictions WHERE user_id = ?)
	`, week, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

// ListMatchesByWeek returns all matches of a week ordered by id.
func ListMatchesByWeek(week int) ([]Match, error) {
	rows, err := db.Query(`
		SELECT id, week, home_team, away_team, result, winner, created_at, updated_at
		FROM matches WHERE week = ? ORDER BY id
	`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// ListUnresolvedMatches returns the week's matches that still lack an
// official result, ordered by id.
func ListUnresolvedMatches(week int) ([]Match, error) {
	rows, err := db.Query(`
		SELECT id, week, home_team, away_team, result, winner, created_at, updated_at
		FROM matches WHERE week = ? AND result IS NULL ORDER BY id
	`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func collectMatches(rows *sql.Rows) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return matches, nil
}

// UpsertPrediction inserts or replaces the user's prediction for a
// match. The UNIQUE(user_id, match_id) constraint guarantees at most one
// row per pair; a resubmission overwrites the earlier one and resets its
// points to NULL.
func UpsertPrediction(userID, matchID int64, week int, homeTeam, awayTeam, score, winner string) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO predictions
		(user_id, match_id, week, home_team, away_team, score, winner)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, userID, matchID, week, homeTeam, awayTeam, score, winner)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}
	return nil
}

// PredictionsByMatch returns every prediction referencing the match.
func PredictionsByMatch(matchID int64) ([]Prediction, error) {
	rows, err := db.Query(`
		SELECT id, user_id, match_id, week, home_team, away_team, score, winner, points, created_at, updated_at
		FROM predictions WHERE match_id = ? ORDER BY id
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	defer rows.Close()

	var preds []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.MatchID, &p.Week, &p.HomeTeam, &p.AwayTeam,
			&p.Score, &p.Winner, &p.Points, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return preds, nil
}

// UserPredictions returns the user's predictions joined with each
// match's current result. week 0 means no week filter.
func UserPredictions(userID int64, week int) ([]PredictionView, error) {
	query := `
		SELECT p.id, p.user_id, p.match_id, p.week, p.home_team, p.away_team,
		       p.score, p.winner, p.points, p.created_at, p.updated_at, m.result
		FROM predictions p
		JOIN matches m ON p.match_id = m.id
		WHERE p.user_id = ?`
	args := []any{userID}
	if week > 0 {
		query += " AND p.week = ?"
		args = append(args, week)
	}
	query += " ORDER BY p.week, p.match_id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user predictions: %w", err)
	}
	defer rows.Close()

	var views []PredictionView
	for rows.Next() {
		var v PredictionView
		var result sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.MatchID, &v.Week, &v.HomeTeam, &v.AwayTeam,
			&v.Score, &v.Winner, &v.Points, &v.CreatedAt, &v.UpdatedAt, &result); err != nil {
			return nil, fmt.Errorf("failed to scan prediction view: %w", err)
		}
		v.MatchResult = result.String
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prediction views: %w", err)
	}
	return views, nil
}

// Leaderboard aggregates scored points per user, highest first, capped
// to limit rows. week 0 means all weeks.
func Leaderboard(week, limit int) ([]LeaderboardEntry, error) {
	query := `
		SELECT p.user_id, u.full_name, SUM(p.points) AS total_points
		FROM predictions p
		JOIN users u ON p.user_id = u.user_id
		WHERE p.points IS NOT NULL`
	args := []any{}
	if week > 0 {
		query += " AND p.week = ?"
		args = append(args, week)
	}
	query += " GROUP BY p.user_id ORDER BY total_points DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.FullName, &e.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}

// GetSetting reads a settings value, returning def when absent.
func GetSetting(key, def string) (string, error) {
	var value sql.NullString
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	if !value.Valid {
		return def, nil
	}
	return value.String, nil
}

// SetSetting writes a settings value, inserting or updating as needed.
func SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetCurrentWeek reads the current league week. Never below 1.
func GetCurrentWeek() (int, error) {
	raw, err := GetSetting("current_week", "1")
	if err != nil {
		return 1, err
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 {
		return 1, nil
	}
	return week, nil
}

// SetCurrentWeek writes the current league week. Values below 1 are
// rejected.
func SetCurrentWeek(week int) error {
	if week < 1 {
		return fmt.Errorf("invalid week %d: must be >= 1", week)
	}
	return SetSetting("current_week", strconv.Itoa(week))
}

// LockWeek closes a week for prediction entry and edits.
func LockWeek(week int) error {
	return SetSetting(fmt.Sprintf("lock_week_%d", week), "1")
}

// UnlockWeek reopens a locked week.
func UnlockWeek(week int) error {
	return SetSetting(fmt.Sprintf("lock_week_%d", week), "0")
}

// IsWeekLocked reports whether predictions for a week are closed.
func IsWeekLocked(week int) bool {
	v, err := GetSetting(fmt.Sprintf("lock_week_%d", week), "0")
	if err != nil {
		return false
	}
	return v == "1"
}
