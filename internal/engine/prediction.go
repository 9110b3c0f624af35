package engine

import (
	"fmt"
	"strconv"

	"leaguebot/internal/game"
	"leaguebot/internal/logger"
	"leaguebot/internal/session"
	"leaguebot/internal/storage"
)

// StartPrediction enters the prediction flow: register the sender,
// find their next unpredicted match of the current week and prompt for
// a score. Any active flow the sender had is discarded.
func (e *Engine) StartPrediction(user User) Reply {
	logger.Debug(user.ID, "prediction_start", fmt.Sprintf("username=%s", user.Username))

	if err := storage.UpsertUser(user.ID, user.FullName, user.Username, user.LanguageCode); err != nil {
		logger.Error(user.ID, "register_user", err)
		return Reply{Text: "⚠️ Could not register you. Please try again."}
	}

	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(user.ID, "get_current_week", err)
		return Reply{Text: msgGeneric}
	}

	if storage.IsWeekLocked(week) {
		return Reply{Text: fmt.Sprintf("🔒 Predictions for week %d are closed.", week)}
	}

	match, err := storage.NextUnpredictedMatch(user.ID, week)
	if err != nil {
		logger.Error(user.ID, "next_match", err)
		return Reply{Text: msgGeneric}
	}
	if match == nil {
		return e.noMatchesReply(user.ID, week)
	}

	return e.promptScore(user.ID, match)
}

// StartEdit re-enters the prediction flow for an existing prediction's
// match, reached through the edit button on the predictions listing.
func (e *Engine) StartEdit(user User, value string) Reply {
	matchID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return Reply{Text: msgGeneric}
	}

	match, err := storage.GetMatchByID(matchID)
	if err != nil {
		logger.Error(user.ID, "edit_get_match", err)
		return Reply{Text: msgGeneric}
	}
	if match == nil {
		return Reply{Text: "⚠️ Match not found."}
	}
	if storage.IsWeekLocked(match.Week) {
		return Reply{Text: fmt.Sprintf("🔒 Predictions for week %d are closed.", match.Week)}
	}
	if match.Resolved() {
		return Reply{Text: "⛔ The result is already recorded; this prediction can no longer be changed."}
	}

	logger.Debug(user.ID, "prediction_edit", fmt.Sprintf("match_id=%d", match.ID))
	return e.promptScore(user.ID, match)
}

// noMatchesReply distinguishes "all predicted" from "no matches found"
// by counting what remains.
func (e *Engine) noMatchesReply(userID int64, week int) Reply {
	remaining, err := storage.CountUnpredictedMatches(userID, week)
	if err != nil {
		logger.Error(userID, "count_remaining", err)
		return Reply{Text: msgGeneric}
	}
	if remaining == 0 {
		return Reply{Text: fmt.Sprintf(
			"🎉 You have predicted every match of week %d!\n\nUse /mybets to review your predictions.", week)}
	}
	return Reply{Text: fmt.Sprintf("⚠️ Could not find the matches of week %d. Please contact support.", week)}
}

// promptScore seeds the session for a match and offers the score menu.
func (e *Engine) promptScore(userID int64, match *storage.Match) Reply {
	e.sessions.Set(userID, session.Session{
		Flow:    session.FlowPrediction,
		State:   session.StateSelectScore,
		MatchID: match.ID,
		Week:    match.Week,
		Home:    match.HomeTeam,
		Away:    match.AwayTeam,
	})
	return Reply{
		Text: fmt.Sprintf("📅 Week %d\n🟢 %s 🆚 %s\n\nPick the score you predict:",
			match.Week, match.HomeTeam, match.AwayTeam),
		Keyboard: e.scoreMenu(KindScore),
	}
}

// handleScoreChoice consumes a score-menu button press in SELECT_SCORE.
func (e *Engine) handleScoreChoice(user User, value string) Reply {
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.Flow != session.FlowPrediction || sess.State != session.StateSelectScore {
		return Reply{Text: msgExpired}
	}

	if value == manualEntry {
		return Reply{Text: fmt.Sprintf(
			"✍️ Type the score as numbers.\nExample: 2-1\nAt most %d characters.", e.cfg.MaxScoreLength)}
	}

	if !game.ValidateScore(value, e.cfg.MaxScoreLength) {
		return Reply{Text: "❌ Invalid score. Please pick again.", Keyboard: e.scoreMenu(KindScore)}
	}

	sess.Score = value
	return e.promptWinner(user.ID, sess)
}

// handleManualScore consumes free text while the prediction flow waits
// in SELECT_SCORE. Invalid input re-prompts without consuming the
// match.
func (e *Engine) handleManualScore(user User, sess session.Session, text string) Reply {
	if len(text) > e.cfg.MaxScoreLength {
		return Reply{Text: fmt.Sprintf("❌ Score too long. At most %d characters.", e.cfg.MaxScoreLength)}
	}
	if !game.ValidateScore(text, e.cfg.MaxScoreLength) {
		return Reply{Text: "❌ Wrong format. Write it as H-A (example: 2-1)."}
	}
	sess.Score = text
	return e.promptWinner(user.ID, sess)
}

// promptWinner stores the chosen score and asks for the winner. A draw
// score adds the draw option between the two teams.
func (e *Engine) promptWinner(userID int64, sess session.Session) Reply {
	h, a, err := game.ParseScore(sess.Score)
	if err != nil {
		logger.Error(userID, "parse_session_score", err)
		e.sessions.Clear(userID)
		return Reply{Text: msgGeneric}
	}
	isDraw := game.DeriveWinner(h, a) == game.WinnerDraw

	sess.State = session.StateSelectWinner
	e.sessions.Set(userID, sess)

	return Reply{
		Text:     fmt.Sprintf("🔢 Chosen score: %s\nWho do you think wins?", sess.Score),
		Keyboard: e.winnerRow(KindWinner, sess.Home, sess.Away, isDraw),
	}
}

// handleWinnerChoice consumes the winner selection, commits the
// prediction and ends the flow.
func (e *Engine) handleWinnerChoice(user User, value string) Reply {
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.Flow != session.FlowPrediction || sess.State != session.StateSelectWinner {
		return Reply{Text: msgExpired}
	}

	allowed, ok := e.allowedWinners(sess.Score, sess.Home, sess.Away)
	if !ok {
		e.sessions.Clear(user.ID)
		return Reply{Text: msgGeneric}
	}
	if !contains(allowed, value) {
		isDraw := len(allowed) == 3
		return Reply{
			Text:     "❌ Invalid choice. Please pick again.",
			Keyboard: e.winnerRow(KindWinner, sess.Home, sess.Away, isDraw),
		}
	}

	if storage.IsWeekLocked(sess.Week) {
		e.sessions.Clear(user.ID)
		return Reply{Text: fmt.Sprintf("🔒 Predictions for week %d are closed.", sess.Week)}
	}

	match, err := storage.GetMatchByID(sess.MatchID)
	if err != nil || match == nil {
		logger.Error(user.ID, "winner_get_match", err)
		e.sessions.Clear(user.ID)
		return Reply{Text: msgGeneric}
	}
	if match.Resolved() {
		e.sessions.Clear(user.ID)
		return Reply{Text: "⛔ The result is already recorded; predictions for this match are closed."}
	}

	if err := storage.UpsertPrediction(user.ID, sess.MatchID, sess.Week, sess.Home, sess.Away, sess.Score, value); err != nil {
		logger.Error(user.ID, "save_prediction", err)
		e.sessions.Clear(user.ID)
		return Reply{Text: "⚠️ Failed to save your prediction. Please try again later."}
	}

	logger.Debug(user.ID, "prediction_saved",
		fmt.Sprintf("match_id=%d score=%s winner=%s", sess.MatchID, sess.Score, value))
	e.sessions.Clear(user.ID)
	return Reply{Text: fmt.Sprintf(
		"✅ Prediction saved:\n📅 Week %d\n🔢 Score: %s\n🏆 Winner: %s\n\nUse /start to predict the next match.",
		sess.Week, sess.Score, value)}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
