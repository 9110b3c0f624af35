// Package bot binds the conversation engine to Telegram via telebot.
// It owns nothing but translation: telebot updates become engine events,
// engine replies become messages with inline keyboards.
package bot

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"leaguebot/internal/config"
	"leaguebot/internal/engine"
	"leaguebot/internal/logger"
)

// Bot wraps the telebot instance and the engine it dispatches to.
type Bot struct {
	tb  *telebot.Bot
	eng *engine.Engine
}

// New creates the Telegram bot with long polling and registers all
// handlers.
func New(cfg config.Config, eng *engine.Engine) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN not set")
	}

	tb, err := telebot.NewBot(telebot.Settings{
		Token: cfg.BotToken,
		Poller: &telebot.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{tb: tb, eng: eng}
	b.register()
	return b, nil
}

// Start begins polling for updates. Blocks until Stop is called.
func (b *Bot) Start() {
	logger.Info(0, "bot_started", "long polling")
	b.tb.Start()
}

// Stop stops the poller.
func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) register() {
	b.tb.Handle("/start", func(c telebot.Context) error {
		return b.send(c, b.eng.StartPrediction(sender(c)))
	})
	b.tb.Handle("/cancel", func(c telebot.Context) error {
		return b.send(c, b.eng.Cancel(c.Sender().ID))
	})
	b.tb.Handle("/week", func(c telebot.Context) error {
		return b.send(c, b.eng.CurrentWeek(c.Sender().ID))
	})
	b.tb.Handle("/matches", func(c telebot.Context) error {
		return b.send(c, b.eng.Matches(c.Sender().ID))
	})
	b.tb.Handle("/helpme", func(c telebot.Context) error {
		return b.send(c, b.eng.Help())
	})

	myBets := func(c telebot.Context) error {
		return b.sendAll(c, b.eng.MyPredictions(c.Sender().ID, firstArg(c)))
	}
	b.tb.Handle("/mybets", myBets)
	b.tb.Handle("/myguesses", myBets)

	b.tb.Handle("/champion", func(c telebot.Context) error {
		return b.send(c, b.eng.Leaderboard(c.Sender().ID, firstArg(c)))
	})

	// Admin commands. Authorization happens inside the engine.
	b.tb.Handle("/setresult", func(c telebot.Context) error {
		return b.send(c, b.eng.StartResultEntry(sender(c)))
	})
	b.tb.Handle("/nextweek", func(c telebot.Context) error {
		return b.send(c, b.eng.NextWeek(c.Sender().ID))
	})
	b.tb.Handle("/prevweek", func(c telebot.Context) error {
		return b.send(c, b.eng.PrevWeek(c.Sender().ID))
	})
	b.tb.Handle("/startweek", func(c telebot.Context) error {
		return b.send(c, b.eng.StartWeek(c.Sender().ID))
	})
	b.tb.Handle("/closebets", func(c telebot.Context) error {
		return b.send(c, b.eng.CloseBets(c.Sender().ID))
	})
	b.tb.Handle("/openbets", func(c telebot.Context) error {
		return b.send(c, b.eng.OpenBets(c.Sender().ID))
	})

	b.tb.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := strings.TrimSpace(strings.TrimPrefix(c.Callback().Data, "\f"))
		reply := b.eng.HandleCallback(sender(c), data)
		if err := c.Respond(); err != nil {
			logger.Error(c.Sender().ID, "callback_respond", err)
		}
		if reply.Empty() {
			return nil
		}
		return b.edit(c, reply)
	})

	b.tb.Handle(telebot.OnText, func(c telebot.Context) error {
		reply := b.eng.HandleText(sender(c), c.Text())
		if reply.Empty() {
			return nil
		}
		return b.send(c, reply)
	})
}

// send delivers a reply as a new message.
func (b *Bot) send(c telebot.Context, reply engine.Reply) error {
	if reply.Empty() {
		return nil
	}
	if markup := keyboard(reply); markup != nil {
		return c.Send(reply.Text, markup)
	}
	return c.Send(reply.Text)
}

// sendAll delivers a sequence of replies in order.
func (b *Bot) sendAll(c telebot.Context, replies []engine.Reply) error {
	for _, r := range replies {
		if err := b.send(c, r); err != nil {
			return err
		}
	}
	return nil
}

// edit rewrites the message the pressed button was attached to, falling
// back to a fresh message when the edit is rejected (e.g. identical
// content or a plain-text origin).
func (b *Bot) edit(c telebot.Context, reply engine.Reply) error {
	var err error
	if markup := keyboard(reply); markup != nil {
		err = c.Edit(reply.Text, markup)
	} else {
		err = c.Edit(reply.Text)
	}
	if err != nil {
		return b.send(c, reply)
	}
	return nil
}

func keyboard(reply engine.Reply) *telebot.ReplyMarkup {
	if len(reply.Keyboard) == 0 {
		return nil
	}
	rows := make([][]telebot.InlineButton, 0, len(reply.Keyboard))
	for _, row := range reply.Keyboard {
		var btns []telebot.InlineButton
		for _, btn := range row {
			btns = append(btns, telebot.InlineButton{Text: btn.Label, Data: btn.Data})
		}
		rows = append(rows, btns)
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

func sender(c telebot.Context) engine.User {
	s := c.Sender()
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		name = s.Username
	}
	return engine.User{
		ID:           s.ID,
		FullName:     name,
		Username:     s.Username,
		LanguageCode: s.LanguageCode,
	}
}

func firstArg(c telebot.Context) string {
	args := c.Args()
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
