package engine

import (
	"fmt"
	"strconv"
	"strings"

	"leaguebot/internal/logger"
	"leaguebot/internal/storage"
)

// CurrentWeek reports the current league week.
func (e *Engine) CurrentWeek(userID int64) Reply {
	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		return Reply{Text: "⚠️ Failed to read the current week."}
	}
	return Reply{Text: fmt.Sprintf("📅 Current league week: %d", week)}
}

// Matches lists this week's fixtures with their result status.
func (e *Engine) Matches(userID int64) Reply {
	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		return Reply{Text: msgGeneric}
	}

	matches, err := storage.ListMatchesByWeek(week)
	if err != nil {
		logger.Error(userID, "list_matches", err)
		return Reply{Text: "⚠️ Failed to fetch the match list."}
	}
	if len(matches) == 0 {
		return Reply{Text: fmt.Sprintf("⚠️ No matches recorded for week %d.", week)}
	}

	lines := []string{fmt.Sprintf("📅 Week %d matches:", week)}
	for _, m := range matches {
		status := " (pending)"
		if m.Resolved() {
			status = fmt.Sprintf(" (result: %s)", m.Result)
		}
		lines = append(lines, fmt.Sprintf("#%d: %s 🆚 %s%s", m.ID, m.HomeTeam, m.AwayTeam, status))
	}
	return Reply{Text: strings.Join(lines, "\n")}
}

// StartWeek announces the current week's fixture list. Admin only.
func (e *Engine) StartWeek(userID int64) Reply {
	if !e.cfg.IsAdmin(userID) {
		return Reply{Text: msgAdminsOnly}
	}

	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		return Reply{Text: msgGeneric}
	}
	matches, err := storage.ListMatchesByWeek(week)
	if err != nil {
		logger.Error(userID, "list_matches", err)
		return Reply{Text: "⚠️ Failed to send the week schedule."}
	}
	if len(matches) == 0 {
		return Reply{Text: fmt.Sprintf("❌ No matches defined for week %d.", week)}
	}

	lines := []string{fmt.Sprintf("📢 Week %d kicks off!\n📅 This week's matches:", week)}
	for i, m := range matches {
		lines = append(lines, fmt.Sprintf("%d. %s 🆚 %s", i+1, m.HomeTeam, m.AwayTeam))
	}
	return Reply{Text: strings.Join(lines, "\n")}
}

// NextWeek advances the current week by one and invalidates the cache.
// Admin only.
func (e *Engine) NextWeek(userID int64) Reply {
	return e.shiftWeek(userID, +1)
}

// PrevWeek steps the current week back by one, clamped at 1. Admin
// only.
func (e *Engine) PrevWeek(userID int64) Reply {
	return e.shiftWeek(userID, -1)
}

func (e *Engine) shiftWeek(userID int64, delta int) Reply {
	if !e.cfg.IsAdmin(userID) {
		return Reply{Text: msgAdminsOnly}
	}

	current, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		return Reply{Text: "⚠️ Failed to update the week."}
	}
	next := current + delta
	if next < 1 {
		next = 1
	}
	if err := storage.SetCurrentWeek(next); err != nil {
		logger.Error(userID, "set_current_week", err)
		return Reply{Text: "⚠️ Failed to update the week."}
	}
	e.weeks.Invalidate()

	logger.Info(userID, "week_changed", fmt.Sprintf("from=%d to=%d", current, next))
	return Reply{Text: fmt.Sprintf("📆 Current week set to %d.", next)}
}

// CloseBets locks the current week for prediction entry. Admin only.
func (e *Engine) CloseBets(userID int64) Reply {
	if !e.cfg.IsAdmin(userID) {
		return Reply{Text: msgAdminsOnly}
	}
	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		return Reply{Text: msgGeneric}
	}
	if err := storage.LockWeek(week); err != nil {
		logger.Error(userID, "lock_week", err)
		return Reply{Text: msgGeneric}
	}
	return Reply{Text: fmt.Sprintf(
		"🔒 Predictions for week %d are closed. No more submissions or edits.", week)}
}

// OpenBets reopens the current week. Admin only.
func (e *Engine) OpenBets(userID int64) Reply {
	if !e.cfg.IsAdmin(userID) {
		return Reply{Text: msgAdminsOnly}
	}
	week, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		return Reply{Text: msgGeneric}
	}
	if err := storage.UnlockWeek(week); err != nil {
		logger.Error(userID, "unlock_week", err)
		return Reply{Text: msgGeneric}
	}
	return Reply{Text: fmt.Sprintf("✅ Predictions for week %d are open.", week)}
}

// MyPredictions lists the caller's predictions. weekArg optionally
// filters to one week; empty defaults to the current week, and a
// non-numeric argument means all weeks. Returns one reply per
// prediction after a header so each can carry its own edit button.
func (e *Engine) MyPredictions(userID int64, weekArg string) []Reply {
	week := 0
	if weekArg == "" {
		current, err := e.weeks.Current()
		if err != nil {
			logger.Error(userID, "get_current_week", err)
			return []Reply{{Text: msgGeneric}}
		}
		week = current
	} else if n, err := strconv.Atoi(weekArg); err == nil && n > 0 {
		week = n
	}

	preds, err := storage.UserPredictions(userID, week)
	if err != nil {
		logger.Error(userID, "user_predictions", err)
		return []Reply{{Text: "⚠️ Failed to fetch your predictions.\nUsage: /mybets [week]"}}
	}
	if len(preds) == 0 {
		if week > 0 {
			return []Reply{{Text: fmt.Sprintf("No predictions recorded for week %d.", week)}}
		}
		return []Reply{{Text: "You have no predictions yet."}}
	}

	current, err := e.weeks.Current()
	if err != nil {
		logger.Error(userID, "get_current_week", err)
		current = 0
	}

	header := "📊 Your predictions:"
	if week > 0 {
		header = fmt.Sprintf("📊 Your predictions — week %d:", week)
	}
	replies := []Reply{{Text: header}}

	for _, p := range preds {
		status := ""
		if p.MatchResult != "" {
			if p.Points.Valid {
				status = fmt.Sprintf(" ✅ (%d points)", p.Points.Int64)
			} else {
				status = " ⏳ (awaiting scoring)"
			}
		}
		r := Reply{Text: fmt.Sprintf("⚽️ %s 🆚 %s\n🔢 Score: %s\n🏆 Winner: %s%s",
			p.HomeTeam, p.AwayTeam, p.Score, p.Winner, status)}

		canEdit := p.Week == current && p.MatchResult == "" && !storage.IsWeekLocked(p.Week)
		if canEdit {
			r.Keyboard = [][]Button{{{
				Label: "✏️ Edit",
				Data:  payloadData(KindEdit, strconv.FormatInt(p.MatchID, 10)),
			}}}
		}
		replies = append(replies, r)
	}
	return replies
}

// Leaderboard shows total points per user, highest first, capped to the
// configured size. weekArg optionally scopes it to one week.
func (e *Engine) Leaderboard(userID int64, weekArg string) Reply {
	week := 0
	if n, err := strconv.Atoi(weekArg); err == nil && n > 0 {
		week = n
	}

	entries, err := storage.Leaderboard(week, e.cfg.LeaderboardSize)
	if err != nil {
		logger.Error(userID, "leaderboard", err)
		return Reply{Text: "⚠️ Failed to show the standings."}
	}
	if len(entries) == 0 {
		return Reply{Text: "No points recorded yet."}
	}

	title := "🏆 Overall standings"
	if week > 0 {
		title = fmt.Sprintf("🏆 Standings — week %d", week)
	}
	lines := []string{title}
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s (%d points)", i+1, entry.FullName, entry.TotalPoints))
	}
	return Reply{Text: strings.Join(lines, "\n")}
}

// Help describes the command surface.
func (e *Engine) Help() Reply {
	return Reply{Text: strings.Join([]string{
		"📚 Football Prediction Bot",
		"",
		"🔹 Commands:",
		"🔸 /start — predict this week's matches",
		"🔸 /mybets [week] — your predictions",
		"🔸 /matches — this week's fixture list",
		"🔸 /week — current league week",
		"🔸 /champion [week] — the standings",
		"🔸 /cancel — abort the current dialogue",
		"🔸 /helpme — this help",
		"",
		"⚙️ Admin commands:",
		"🔸 /setresult — record an official result",
		"🔸 /nextweek — advance to the next week",
		"🔸 /prevweek — step back one week",
		"🔸 /startweek — announce the week's fixtures",
		"🔸 /closebets — close this week's predictions",
		"🔸 /openbets — reopen this week's predictions",
		"",
		"⚽ Scoring:",
		fmt.Sprintf("🏅 Exact score: %d points", e.rules.ExactScore),
		fmt.Sprintf("🥈 Correct winner: %d points", e.rules.CorrectWinner),
		fmt.Sprintf("🥉 One goal count right: %d point", e.rules.PartialScore),
	}, "\n")}
}
