package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"annunciator/internal/backend"
	"annunciator/internal/ledger"
	"annunciator/internal/media"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var reclaim bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete leftover generated media on the backend",
		Long: `Ask the backend to delete every generated audio and/or sign-language
video file. The ledger rows those files belong to are marked deleted.

With --reclaim, files the ledger still lists as pending are first deleted one
by one. Only use --reclaim when no other composition session is running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseSweepKinds(kindFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return ctx.withLedger(func(store *ledger.Store) error {
				sweeper := media.NewSweeper(client,
					media.WithSweepLedger(store),
					media.WithSweepLock(cfg.SweepLockPath()),
					media.WithSweepLogger(logger),
				)
				var errs []error
				if reclaim {
					n, err := sweeper.Reclaim(cmd.Context(), "")
					fmt.Fprintf(out, "Reclaimed %d pending file(s)\n", n)
					if err != nil {
						errs = append(errs, err)
					}
				}
				for _, kind := range kinds {
					n, err := sweeper.Sweep(cmd.Context(), kind)
					if err != nil {
						errs = append(errs, fmt.Errorf("sweep %s: %w", kind, err))
						continue
					}
					fmt.Fprintf(out, "Swept %d %s file(s)\n", n, kind)
				}
				return errors.Join(errs...)
			})
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "all", "Media to sweep: audio, video, or all")
	cmd.Flags().BoolVar(&reclaim, "reclaim", false, "Delete ledger-pending files individually before sweeping")
	return cmd
}

func parseSweepKinds(raw string) ([]backend.AssetKind, error) {
	if strings.EqualFold(strings.TrimSpace(raw), "all") || strings.TrimSpace(raw) == "" {
		return []backend.AssetKind{backend.AssetAudio, backend.AssetVideo}, nil
	}
	kind, err := backend.ParseAssetKind(raw)
	if err != nil {
		return nil, err
	}
	return []backend.AssetKind{kind}, nil
}
