package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gesturecards/internal/app"
)

func newTicketCmd(opts *rootOptions) *cobra.Command {
	var (
		helperID string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Mint a link ticket for the recognizer helper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			tickets := app.NewLinkTicketService(cfg.LinkSecret, cfg.LinkIssuer)
			if !tickets.Enabled() {
				return errors.New("link_secret is not configured")
			}
			if helperID == "" {
				helperID = uuid.NewString()
			}
			ticket, err := tickets.Issue(helperID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ticket)
			return nil
		},
	}
	cmd.Flags().StringVar(&helperID, "helper", "", "helper id to embed (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "ticket lifetime")
	return cmd
}
