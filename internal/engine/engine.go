// Package engine implements the stateful conversation flows of the
// prediction league: the guided prediction dialogue, the admin
// result-entry dialogue and the read-only commands. The engine is
// transport-neutral: it consumes user events (free text or button
// payloads) and returns replies with optional button rows; the bot
// package binds it to Telegram.
package engine

import (
	"strings"

	"leaguebot/internal/config"
	"leaguebot/internal/game"
	"leaguebot/internal/service"
	"leaguebot/internal/session"
)

// Button payload kinds. A payload is "kind|value"; the kind routes the
// event to the handler for the matching flow step.
const (
	KindScore         = "score"
	KindWinner        = "winner"
	KindEdit          = "edit"
	KindResultMatch   = "setresult_match"
	KindResultScore   = "setresult_score"
	KindResultWinner  = "setresult_winner"
	KindResultConfirm = "setresult_confirm"
)

// manualEntry is the score-menu value requesting free-text input.
const manualEntry = "manual"

const (
	msgGeneric    = "⚠️ Something went wrong. Please try again."
	msgExpired    = "⚠️ This action has expired. Use /start to begin."
	msgAdminsOnly = "⛔ Admins only."
)

// User identifies the sender of an event, with the metadata needed for
// first-contact registration.
type User struct {
	ID           int64
	FullName     string
	Username     string
	LanguageCode string
}

// Button is one labeled choice offered to the user. Data is the opaque
// payload echoed back when the button is pressed.
type Button struct {
	Label string
	Data  string
}

// Reply is a prompt to deliver: text plus optional button rows. The
// zero Reply means "no response" (the event was not for us).
type Reply struct {
	Text     string
	Keyboard [][]Button
}

// Empty reports whether the reply carries nothing to send.
func (r Reply) Empty() bool {
	return r.Text == ""
}

// Payload is a parsed button payload.
type Payload struct {
	Kind  string
	Value string
}

// ParsePayload splits an opaque "kind|value" payload string.
func ParsePayload(data string) (Payload, bool) {
	kind, value, ok := strings.Cut(data, "|")
	if !ok || kind == "" {
		return Payload{}, false
	}
	return Payload{Kind: kind, Value: value}, true
}

func payloadData(kind, value string) string {
	return kind + "|" + value
}

// Engine owns the conversation state and collaborators of one bot
// instance. Construct it at startup and pass it to the transport
// binding; all handlers go through it rather than through globals.
type Engine struct {
	cfg      config.Config
	rules    game.Rules
	sessions *session.Store
	weeks    *service.WeekCache
	scoring  *service.ScoringService
}

// New creates an engine from configuration.
func New(cfg config.Config) *Engine {
	rules := game.Rules{
		ExactScore:    cfg.PointsExactScore,
		CorrectWinner: cfg.PointsCorrectWinner,
		PartialScore:  cfg.PointsPartialScore,
		DrawLabel:     cfg.DrawLabel,
	}
	return &Engine{
		cfg:      cfg,
		rules:    rules,
		sessions: session.NewStore(),
		weeks:    service.NewWeekCache(cfg.WeekCacheTTL),
		scoring:  service.NewScoringService(rules),
	}
}

// Weeks exposes the current-week cache (read by the transport binding
// for nothing today, kept for ops tooling).
func (e *Engine) Weeks() *service.WeekCache {
	return e.weeks
}

// HandleCallback routes a button press by its payload kind. Unknown or
// malformed payloads are ignored.
func (e *Engine) HandleCallback(user User, data string) Reply {
	p, ok := ParsePayload(data)
	if !ok {
		return Reply{}
	}
	switch p.Kind {
	case KindScore:
		return e.handleScoreChoice(user, p.Value)
	case KindWinner:
		return e.handleWinnerChoice(user, p.Value)
	case KindEdit:
		return e.StartEdit(user, p.Value)
	case KindResultMatch:
		return e.handleResultMatch(user, p.Value)
	case KindResultScore:
		return e.handleResultScore(user, p.Value)
	case KindResultWinner:
		return e.handleResultWinner(user, p.Value)
	case KindResultConfirm:
		return e.handleResultConfirm(user, p.Value)
	}
	return Reply{}
}

// HandleText routes free text. It is only consumed when the sender's
// active flow is waiting for a manual score; otherwise the zero Reply
// is returned and the transport should ignore the message.
func (e *Engine) HandleText(user User, text string) Reply {
	text = strings.TrimSpace(text)
	sess, ok := e.sessions.Get(user.ID)
	if !ok || sess.State != session.StateSelectScore {
		return Reply{}
	}
	switch sess.Flow {
	case session.FlowPrediction:
		return e.handleManualScore(user, sess, text)
	case session.FlowResultEntry:
		return e.handleResultManualScore(user, sess, text)
	}
	return Reply{}
}

// Cancel clears the sender's active flow, if any.
func (e *Engine) Cancel(userID int64) Reply {
	e.sessions.Clear(userID)
	return Reply{Text: "⛔️ Operation cancelled."}
}

// scoreMenu builds the default scoreline keyboard, three buttons per
// row, plus a manual-entry button.
func (e *Engine) scoreMenu(kind string) [][]Button {
	var keyboard [][]Button
	var row []Button
	for _, score := range e.cfg.DefaultScores {
		row = append(row, Button{Label: score, Data: payloadData(kind, score)})
		if len(row) == 3 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}
	keyboard = append(keyboard, []Button{{Label: "✍️ Enter manually", Data: payloadData(kind, manualEntry)}})
	return keyboard
}

// winnerRow builds the winner keyboard for a chosen score: the two team
// names, with the draw option between them when the score is a tie.
func (e *Engine) winnerRow(kind, home, away string, isDraw bool) [][]Button {
	row := []Button{{Label: home, Data: payloadData(kind, home)}}
	if isDraw {
		row = append(row, Button{Label: e.cfg.DrawLabel, Data: payloadData(kind, e.cfg.DrawLabel)})
	}
	row = append(row, Button{Label: away, Data: payloadData(kind, away)})
	return [][]Button{row}
}

// allowedWinners returns the valid winner labels for a score, or false
// when the stored score cannot be parsed (inconsistent session).
func (e *Engine) allowedWinners(score, home, away string) ([]string, bool) {
	h, a, err := game.ParseScore(score)
	if err != nil {
		return nil, false
	}
	if game.DeriveWinner(h, a) == game.WinnerDraw {
		return []string{home, e.cfg.DrawLabel, away}, true
	}
	return []string{home, away}, true
}
