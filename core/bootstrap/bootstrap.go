package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/quotebot/core/config"
	"github.com/m3rciful/quotebot/core/logger"
)

// Component is a named initialization step run after the logger is ready.
type Component struct {
	Name string
	Init func() error
}

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config     *coreconfig.Config
	LoggerInit func(*coreconfig.Config) error
	Components []Component
}

// Run initializes the logger and then every component in order,
// stopping at the first failure.
func Run(opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	for _, comp := range opts.Components {
		if comp.Init == nil {
			continue
		}
		start := time.Now()
		err := comp.Init()
		logger.LogEvent(logger.Background(), logger.Component("app"), slog.LevelInfo, "bootstrap.component",
			slog.String("status", logger.Status(err)),
			slog.String("name", comp.Name),
			slog.Duration("duration", logger.Took(start)),
		)
		if err != nil {
			return fmt.Errorf("bootstrap: %s init failed: %w", comp.Name, err)
		}
	}
	return nil
}
