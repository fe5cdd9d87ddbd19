package bot

import (
	"github.com/m3rciful/quotebot/core/telegram/keyboard"
	"github.com/m3rciful/quotebot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

// MenuMarkup is the inline command keyboard shown with /start and /menu.
func MenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "Random quote", Unique: conversation.ActionRandom}},
		[]keyboard.InlineBtn{{Text: "Random quote by author", Unique: conversation.ActionRandomByAuthor}},
		[]keyboard.InlineBtn{
			{Text: "Menu", Unique: conversation.ActionMenu},
			{Text: "Help", Unique: conversation.ActionHelp},
		},
		[]keyboard.InlineBtn{{Text: "Start", Unique: conversation.ActionStart}},
	)
}
