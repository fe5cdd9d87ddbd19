package router

import (
	"log/slog"
	"sort"
	"time"

	"github.com/m3rciful/quotebot/core/logger"
	tg "github.com/m3rciful/quotebot/core/telegram"
	"github.com/m3rciful/quotebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	cmds := reg.Commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	routes := make([]tg.Route, 0, len(names))
	for _, name := range names {
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler:  wrapCommand(name, cmds[name].Handler),
		})
	}

	logger.TWire.Info("complete",
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}

func wrapCommand(name string, h tele.HandlerFunc) tele.HandlerFunc {
	handlerName := "command." + normalizeHandlerName(name)
	inner := func(c tele.Context) error {
		return handleWithSummary(c, handlerName, time.Now(), func() error { return h(c) })
	}
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(inner))
}
