package bot

import (
	"context"

	tghelpers "github.com/m3rciful/quotebot/core/telegram/helpers"
	"github.com/m3rciful/quotebot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

// replier sends conversation replies through the async sender.
type replier struct {
	c    tele.Context
	menu *tele.ReplyMarkup
}

func (r replier) Send(_ context.Context, rep conversation.Reply) error {
	return tghelpers.SendText(r.c, rep.Text, r.options(rep))
}

func (r replier) Edit(_ context.Context, rep conversation.Reply) error {
	return tghelpers.EditText(r.c, rep.Text, r.options(rep))
}

func (r replier) options(rep conversation.Reply) *tele.SendOptions {
	opts := &tele.SendOptions{}
	if rep.HTML {
		opts.ParseMode = tele.ModeHTML
	}
	if rep.Menu {
		opts.ReplyMarkup = r.menu
	}
	return opts
}
