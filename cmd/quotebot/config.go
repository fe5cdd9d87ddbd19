package main

import (
	"fmt"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/quotebot/core/cmd"
	"github.com/m3rciful/quotebot/internal/config"
)

func newConfigCmd(configPath *string) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration without starting the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := corecmd.Options{
				ConfigPath:        *configPath,
				ConfigEnvVar:      configEnvVar,
				DefaultConfigPath: defaultConfigPath,
			}.ResolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config: %s\n", path)
			fmt.Fprintf(out, "run_mode: %s\n", cfg.Telegram.RunMode)
			fmt.Fprintf(out, "quotes.base_url: %s\n", cfg.Quotes.BaseURL)
			fmt.Fprintf(out, "quotes.timeout: %s\n", cfg.Quotes.Timeout())
			if cfg.Health.Listen != "" {
				fmt.Fprintf(out, "health.listen: %s\n", cfg.Health.Listen)
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	})
	return cfgCmd
}
