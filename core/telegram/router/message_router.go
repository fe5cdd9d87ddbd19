package router

import (
	"time"

	tg "github.com/m3rciful/quotebot/core/telegram"
	"github.com/m3rciful/quotebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls how text that no command route claimed is handled.
type TextOptions struct {
	// OnText receives free text and unregistered slash commands.
	OnText tele.HandlerFunc
}

// TextRoutes builds the OnText handler. Registered commands that reach it
// (for example with a bot mention suffix) are dispatched through the registry.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil && len(text) > 1 && text[0] == '/' {
			if key, cmd, ok := reg.LookupCommand(text); ok {
				return handleWithSummary(c, "command."+normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
		}

		if opts.OnText != nil {
			return handleWithSummary(c, "text", start, func() error {
				return opts.OnText(c)
			})
		}

		logHandlerSummary(c, "text", start, "skip", nil)
		return nil
	}

	return []tg.Route{{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}}
}
