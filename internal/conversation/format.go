package conversation

import (
	"strings"

	"github.com/m3rciful/quotebot/internal/quotes"
)

// User-facing texts.
const (
	TextStart = "I am a bot, whose sole purpose is to send you quotes.\n\n" +
		"At the moment, only these commands are supported:"
	TextMenu = "This is a list of all available commands:\n\n" +
		"<i>Tip: you don't have to use this menu, just type \"/\".</i>"
	TextAuthorPrompt   = "Enter the author's name:"
	TextCanceled       = "Canceled"
	TextNothingPending = "Nothing to cancel."
	TextUnknown        = "Sorry, I don't recognize this command."
	TextRandomFailed   = "I'm sorry, I couldn't fetch a quote right now. Please try again later."
	TextAuthorNotFound = "I'm sorry, no quotes by this author were found."
)

// FormatQuote renders a quote as the quoted content, a blank line and the author.
func FormatQuote(q quotes.Quote) string {
	return "\"" + q.Content + "\"\n\n- " + q.Author
}

// FormatError is the reply for any failed author lookup.
func FormatError() string {
	return TextAuthorNotFound
}

// HelpText greets the user by first name.
func HelpText(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return "Hi, " + name + ", I am a bot!\n\n" +
		"I can help you pick a quote. Type /menu for a list of available commands."
}
