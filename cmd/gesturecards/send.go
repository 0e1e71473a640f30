package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"gesturecards/internal/ports/ingest"
)

func newSendCmd(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		ticket  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send [tokens...]",
		Short: "Send gesture tokens to a running listener, as the recognizer would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := opts.load()
				if err != nil {
					return err
				}
				addr = cfg.IngestAddr
			}
			tokens := args
			if ticket != "" {
				tokens = append([]string{ticket}, args...)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return ingest.Send(ctx, addr, tokens...)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listener address (defaults to ingest_addr)")
	cmd.Flags().StringVar(&ticket, "ticket", "", "link ticket to present first")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall send timeout")
	return cmd
}
