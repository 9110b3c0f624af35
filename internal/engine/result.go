package engine

import (
	"context"
	"fmt"
	"strconv"

	"leaguebot/internal/game"
	"leaguebot/internal/logger"
	"leaguebot/internal/session"
	"leaguebot/internal/storage"
)

// StartResultEntry enters the admin result-entry flow. The allow-list
// check precedes everything else; non-admins never get a session.
func (e *Engine) StartResultEntry(user User) Reply {
	if !e.cfg.IsAdmin(user.ID) {
		return Reply{Text: msgAdminsOnly}
	}

	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(user.ID, "get_current_week", err)
		return Reply{Text: msgGeneric}
	}

	matches, err := storage.ListUnresolvedMatches(week)
	if err != nil {
		logger.Error(user.ID, "list_unresolved", err)
		return Reply{Text: msgGeneric}
	}
	if len(matches) == 0 {
		return Reply{Text: "✅ Every match of this week already has a result!"}
	}

	e.sessions.Set(user.ID, session.Session{
		Flow:  session.FlowResultEntry,
		State: session.StateSelectMatch,
		Week:  week,
	})

	var keyboard [][]Button
	for _, m := range matches {
		keyboard = append(keyboard, []Button{{
			Label: fmt.Sprintf("%s 🆚 %s", m.HomeTeam, m.AwayTeam),
			Data:  payloadData(KindResultMatch, strconv.FormatInt(m.ID, 10)),
		}})
	}

	logger.Debug(user.ID, "result_entry_start", fmt.Sprintf("week=%d candidates=%d", week, len(matches)))
	return Reply{Text: "⚽ Pick the match to record a result for:", Keyboard: keyboard}
}

// handleResultMatch consumes the match selection and asks for the
// official score.
func (e *Engine) handleResultMatch(user User, value string) Reply {
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.Flow != session.FlowResultEntry || sess.State != session.StateSelectMatch {
		return Reply{Text: msgExpired}
	}

	matchID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		e.sessions.Clear(user.ID)
		return Reply{Text: msgGeneric}
	}
	match, err := storage.GetMatchByID(matchID)
	if err != nil {
		logger.Error(user.ID, "result_get_match", err)
		e.sessions.Clear(user.ID)
		return Reply{Text: msgGeneric}
	}
	if match == nil {
		e.sessions.Clear(user.ID)
		return Reply{Text: "⚠️ Match not found."}
	}

	sess.MatchID = match.ID
	sess.Week = match.Week
	sess.Home = match.HomeTeam
	sess.Away = match.AwayTeam
	sess.State = session.StateSelectScore
	e.sessions.Set(user.ID, sess)

	return Reply{
		Text: fmt.Sprintf("📌 Selected match:\n%s 🆚 %s\n\nPick the final score:",
			match.HomeTeam, match.AwayTeam),
		Keyboard: e.scoreMenu(KindResultScore),
	}
}

// handleResultScore consumes a score-menu press in the result flow.
func (e *Engine) handleResultScore(user User, value string) Reply {
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.Flow != session.FlowResultEntry || sess.State != session.StateSelectScore {
		return Reply{Text: msgExpired}
	}

	if value == manualEntry {
		return Reply{Text: "✍️ Type the final score as numbers (example: 2-1):"}
	}
	if !game.ValidateScore(value, e.cfg.MaxScoreLength) {
		return Reply{Text: "❌ Invalid score! Please pick again.", Keyboard: e.scoreMenu(KindResultScore)}
	}

	sess.Score = value
	return e.promptResultWinner(user.ID, sess)
}

// handleResultManualScore consumes free text while the result flow
// waits in SELECT_SCORE.
func (e *Engine) handleResultManualScore(user User, sess session.Session, text string) Reply {
	if !game.ValidateScore(text, e.cfg.MaxScoreLength) {
		return Reply{Text: "❌ Wrong score format! Write it as H-A (example: 2-1)."}
	}
	sess.Score = text
	return e.promptResultWinner(user.ID, sess)
}

func (e *Engine) promptResultWinner(userID int64, sess session.Session) Reply {
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
		Text:     fmt.Sprintf("🔢 Chosen score: %s\nPick the winning team:", sess.Score),
		Keyboard: e.winnerRow(KindResultWinner, sess.Home, sess.Away, isDraw),
	}
}

// handleResultWinner stores the winner and asks for final confirmation.
func (e *Engine) handleResultWinner(user User, value string) Reply {
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.Flow != session.FlowResultEntry || sess.State != session.StateSelectWinner {
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
			Keyboard: e.winnerRow(KindResultWinner, sess.Home, sess.Away, isDraw),
		}
	}

	sess.Winner = value
	sess.State = session.StateConfirm
	e.sessions.Set(user.ID, sess)

	return Reply{
		Text: fmt.Sprintf(
			"🔍 Final check:\n\n📅 Week %d\n🏠 %s 🆚 %s\n🔢 Result: %s\n🏆 Winner: %s\n\nRecord this result?",
			sess.Week, sess.Home, sess.Away, sess.Score, value),
		Keyboard: [][]Button{
			{{Label: "✅ Confirm and record", Data: payloadData(KindResultConfirm, "1")}},
			{{Label: "❌ Cancel", Data: payloadData(KindResultConfirm, "0")}},
		},
	}
}

// handleResultConfirm finishes the flow: on confirm it writes the
// result and runs the re-scoring sweep over every prediction for the
// match; on cancel it just discards the session.
func (e *Engine) handleResultConfirm(user User, value string) Reply {
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.Flow != session.FlowResultEntry || sess.State != session.StateConfirm {
		return Reply{Text: msgExpired}
	}
	e.sessions.Clear(user.ID)

	if value != "1" {
		return Reply{Text: "❌ Result entry cancelled."}
	}

	scored, err := e.scoring.ConfirmResult(context.Background(), sess.MatchID, sess.Score, sess.Winner)
	if err != nil {
		logger.Error(user.ID, "confirm_result", err)
		return Reply{Text: "⚠️ Failed to record the result. Please try again."}
	}

	return Reply{Text: fmt.Sprintf(
		"✅ Result recorded!\n\n📊 %d predictions scored\n\nSee the standings: /champion", scored)}
}
