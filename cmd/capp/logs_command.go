package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cappuccino/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent daemon log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()

			recent, offset, err := logtail.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range recent {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if !follow {
				if len(recent) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No log output yet")
				}
				return nil
			}

			err = logtail.Follow(cmd.Context(), path, offset, func(line string) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep reading as new lines arrive")
	return cmd
}
