// Package service holds the operations that sit between the
// conversation engine and storage: the current-week cache and the
// result-confirmation scoring sweep.
package service

import (
	"context"
	"database/sql"
	"fmt"

	"leaguebot/internal/game"
	"leaguebot/internal/logger"
	"leaguebot/internal/storage"
)

// ScoringService applies official results and re-scores predictions.
type ScoringService struct {
	rules game.Rules
}

// NewScoringService creates a scoring service with the given point
// rules.
func NewScoringService(rules game.Rules) *ScoringService {
	return &ScoringService{rules: rules}
}

// ConfirmResult records the official score and winner on a match and
// re-scores every prediction referencing it, returning how many were
// updated. The whole sweep runs in one transaction: re-confirming a
// result (e.g. to correct a mistake) recomputes all points from
// scratch, and a mid-sweep failure leaves no partial mix of old and new
// values. Running the sweep twice with the same inputs yields identical
// points.
func (s *ScoringService) ConfirmResult(ctx context.Context, matchID int64, score, winner string) (int, error) {
	db := storage.DB()
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	var home, away string
	err := db.QueryRowContext(ctx, `SELECT home_team, away_team FROM matches WHERE id = ?`, matchID).
		Scan(&home, &away)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("match not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get match: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE matches
		SET result = ?, winner = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, score, winner, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to set match result: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, score, winner FROM predictions WHERE match_id = ?
	`, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to get predictions: %w", err)
	}
	defer rows.Close()

	type pred struct {
		ID     int64
		UserID int64
		Score  string
		Winner string
	}
	var preds []pred
	for rows.Next() {
		var p pred
		if err := rows.Scan(&p.ID, &p.UserID, &p.Score, &p.Winner); err != nil {
			return 0, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating predictions: %w", err)
	}

	scored := 0
	for _, p := range preds {
		points := s.rules.CalculatePoints(p.Score, p.Winner, score, home, away)
		_, err = tx.ExecContext(ctx, `
			UPDATE predictions
			SET points = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, points, p.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update points for prediction %d: %w", p.ID, err)
		}
		scored++
		logger.Debug(p.UserID, "prediction_scored",
			fmt.Sprintf("match_id=%d prediction_id=%d points=%d", matchID, p.ID, points))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scoring sweep: %w", err)
	}

	logger.Debug(0, "result_confirmed",
		fmt.Sprintf("match_id=%d result=%s winner=%s scored=%d", matchID, score, winner, scored))
	return scored, nil
}
