package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"annunciator/internal/ledger"
	"annunciator/internal/preflight"
	"annunciator/internal/session"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend, local player, and media ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Station", colorize)...)
			lines = append(lines, renderStatusLine("Plan", statusInfo, planSummary(session.PlanFor(cfg)), colorize))
			lines = append(lines, renderStatusLine("Backend URL", statusInfo, cfg.Backend.BaseURL, colorize))
			lines = append(lines, "")

			results := preflight.RunAll(cmd.Context(), cfg)
			lines = append(lines, renderSectionHeader("Readiness", colorize)...)
			for _, r := range results {
				lines = append(lines, resultLine(r, colorize))
			}
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Ledger", colorize)...)
			err = ctx.withLedger(func(store *ledger.Store) error {
				counts, err := store.Counts(cmd.Context())
				if err != nil {
					return err
				}
				lines = append(lines, ledgerLines(counts, colorize)...)
				return nil
			})
			if err != nil {
				lines = append(lines, renderStatusLine("Ledger", statusError, err.Error(), colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return preflightError(blocking)
			}
			return nil
		},
	}
}
