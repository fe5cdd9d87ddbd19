package main

import (
	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/quotebot/core/cmd"
	"github.com/m3rciful/quotebot/internal/bot"
)

const (
	configEnvVar      = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

// runBot is swapped in tests.
var runBot = corecmd.Run

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "quotebot",
		Short: "Telegram bot that sends quotes from quotable.io",
		Long: `quotebot answers Telegram commands with random quotes and can look up
quotes by author, correcting misspelled names against the author directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(runnerOptions(configPath))
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the YAML config (default $"+configEnvVar+" or "+defaultConfigPath+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the bot until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBot(runnerOptions(configPath))
			},
		},
		newVersionCmd(),
		newConfigCmd(&configPath),
	)
	return root
}

func runnerOptions(configPath string) corecmd.Options {
	return corecmd.Options{
		ConfigPath:        configPath,
		ConfigEnvVar:      configEnvVar,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig:        bot.LoadConfig,
		Bootstrap:         bot.Bootstrap,
	}
}
