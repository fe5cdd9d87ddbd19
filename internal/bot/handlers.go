package bot

import (
	"strings"

	tghelpers "github.com/m3rciful/quotebot/core/telegram/helpers"
	"github.com/m3rciful/quotebot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

func (a *App) dispatch(c tele.Context, ev conversation.Event) error {
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		ev.FirstName = user.FirstName
	}
	return a.machine.Dispatch(tghelpers.BuildContext(c), ev, replier{c: c, menu: a.menu})
}

func (a *App) onCommand(action string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.dispatch(c, conversation.Event{Kind: conversation.KindCommand, Action: action})
	}
}

func (a *App) onButton(action string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.dispatch(c, conversation.Event{Kind: conversation.KindButton, Action: action})
	}
}

// onText receives free text and slash commands no route claimed.
func (a *App) onText(c tele.Context) error {
	text := c.Text()
	if strings.HasPrefix(text, "/") {
		name, _, _ := strings.Cut(text, " ")
		name, _, _ = strings.Cut(name, "@")
		return a.dispatch(c, conversation.Event{Kind: conversation.KindCommand, Action: name, Text: text})
	}
	return a.dispatch(c, conversation.Event{Kind: conversation.KindText, Text: text})
}

func onRateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Too many requests, slow down."})
	}
	return tghelpers.SendText(c, "Too many requests, slow down.")
}
