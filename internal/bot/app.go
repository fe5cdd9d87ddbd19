// Package bot binds the conversation machine to the Telegram transport.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/quotebot/core/bootstrap"
	corecmd "github.com/m3rciful/quotebot/core/cmd"
	"github.com/m3rciful/quotebot/core/health"
	tg "github.com/m3rciful/quotebot/core/telegram"
	"github.com/m3rciful/quotebot/core/telegram/middleware"
	"github.com/m3rciful/quotebot/core/telegram/router"
	"github.com/m3rciful/quotebot/core/telegram/state"
	"github.com/m3rciful/quotebot/internal/authors"
	"github.com/m3rciful/quotebot/internal/config"
	"github.com/m3rciful/quotebot/internal/conversation"
	"github.com/m3rciful/quotebot/internal/quotes"

	tele "gopkg.in/telebot.v4"
)

var commands = []struct {
	action      string
	description string
}{
	{conversation.ActionStart, "Start the bot"},
	{conversation.ActionMenu, "Show the command menu"},
	{conversation.ActionHelp, "How to use the bot"},
	{conversation.ActionRandom, "Get a random quote"},
	{conversation.ActionRandomByAuthor, "Get a random quote by an author"},
	{conversation.ActionCancel, "Cancel the current question"},
}

// App is the assembled quote bot.
type App struct {
	cfg      *config.Config
	registry *tg.Registry
	machine  *conversation.Machine
	menu     *tele.ReplyMarkup
}

// New builds the quotes client, the author resolver and the conversation
// machine, and registers every command and button.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}
	client, err := quotes.NewClient(quotes.Options{
		BaseURL:           cfg.Quotes.BaseURL,
		Timeout:           cfg.Quotes.Timeout(),
		RequestsPerSecond: cfg.Quotes.RequestsPerSecond,
		Burst:             cfg.Quotes.Burst,
	})
	if err != nil {
		return nil, err
	}
	return NewWithMachine(cfg, conversation.NewMachine(
		state.NewMemoryManager(),
		client,
		authors.NewResolver(client),
	))
}

// NewWithMachine wires an App around an existing machine.
func NewWithMachine(cfg *config.Config, m *conversation.Machine) (*App, error) {
	a := &App{
		cfg:      cfg,
		registry: tg.NewRegistry(),
		machine:  m,
		menu:     MenuMarkup(),
	}
	for _, cmd := range commands {
		if err := a.registry.RegisterCommand("/"+cmd.action, tg.Command{
			Handler:     a.onCommand(cmd.action),
			Description: cmd.description,
		}); err != nil {
			return nil, err
		}
		if cmd.action == conversation.ActionCancel {
			continue
		}
		if err := a.registry.RegisterCallback(cmd.action, a.onButton(cmd.action)); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Registry exposes the command and callback registry.
func (a *App) Registry() *tg.Registry { return a.registry }

// TelegramRunOptions assembles middleware, routes and the optional health
// endpoint for the runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.CallbackRoute(a.registry))
	routes = append(routes, router.TextRoutes(a.registry, router.TextOptions{OnText: a.onText})...)

	var srv *health.Server
	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(core, onRateLimited),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			if a.cfg.Health.Listen == "" {
				return nil
			}
			var err error
			srv, err = health.Start(a.cfg.Health.Listen, health.NewRouter(a.stats(rt)))
			return err
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			if srv == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}, nil
}

func (a *App) stats(rt tg.Runtime) health.StatsFunc {
	return func() map[string]any {
		out := map[string]any{
			"sessions": a.machine.Sessions(),
			"commands": len(a.registry.Commands()),
			"updates":  middleware.ReadTotals(),
		}
		if rt.Dispatcher != nil {
			out["sender_errors"] = rt.Dispatcher.ErrorCount()
		}
		return out
	}
}

// LoadConfig adapts config.Load to the runner.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bootstrap initializes logging and builds the App.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}
	var app *App
	err := bootstrap.Run(bootstrap.Options{
		Config: cfg.CoreConfig(),
		Components: []bootstrap.Component{{
			Name: "bot",
			Init: func() (err error) {
				app, err = New(cfg)
				return err
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}
