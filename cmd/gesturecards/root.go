package main

import (
	"github.com/spf13/cobra"

	"gesturecards/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "gesturecards",
		Short:         "Gesture-driven card duel against an AI opponent",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a JSON game config")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newServeCmd(opts), newTicketCmd(opts), newSendCmd(opts))
	return cmd
}

// load reads the config and applies flag overrides.
func (o *rootOptions) load() (config.GameConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}
