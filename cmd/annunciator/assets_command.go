package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"annunciator/internal/backend"
	"annunciator/internal/ledger"
)

type assetPayload struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Attempts  int    `json:"attempts"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	var (
		statuses []string
		kindFlag string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List generated media recorded in the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildAssetFilter(statuses, kindFlag, limit)
			if err != nil {
				return err
			}
			return ctx.withLedger(func(store *ledger.Store) error {
				assets, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if asJSON {
					payload := make([]assetPayload, 0, len(assets))
					for _, a := range assets {
						payload = append(payload, toAssetPayload(a))
					}
					return writeJSON(cmd, payload)
				}
				out := cmd.OutOrStdout()
				if len(assets) == 0 {
					fmt.Fprintln(out, "No assets recorded")
					return nil
				}
				fmt.Fprintln(out, renderAssetsTable(assets))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (issued, failed, deleted)")
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "Filter by media kind (audio, video)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum rows to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	cmd.AddCommand(newAssetsPruneCommand(ctx))
	return cmd
}

func newAssetsPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove deleted ledger rows older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			return ctx.withLedger(func(store *ledger.Store) error {
				removed, err := store.Prune(cmd.Context(), olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d row(s)\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age of deleted rows to remove")
	return cmd
}

func buildAssetFilter(statuses []string, kind string, limit int) (ledger.ListFilter, error) {
	filter := ledger.ListFilter{Limit: limit}
	for _, raw := range statuses {
		status := ledger.Status(strings.ToLower(strings.TrimSpace(raw)))
		if !isKnownStatus(status) {
			return ledger.ListFilter{}, fmt.Errorf("unknown status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if strings.TrimSpace(kind) != "" {
		parsed, err := backend.ParseAssetKind(kind)
		if err != nil {
			return ledger.ListFilter{}, err
		}
		filter.Kind = parsed
	}
	return filter, nil
}

func isKnownStatus(status ledger.Status) bool {
	for _, known := range ledger.Statuses() {
		if status == known {
			return true
		}
	}
	return false
}

func toAssetPayload(a *ledger.Asset) assetPayload {
	p := assetPayload{
		ID:        a.ID,
		SessionID: a.SessionID,
		Kind:      string(a.Kind),
		Filename:  a.Filename,
		Status:    string(a.Status),
		Attempts:  a.Attempts,
		Error:     a.ErrorMessage,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.DeletedAt != nil {
		p.DeletedAt = a.DeletedAt.Format(time.RFC3339)
	}
	return p
}

func renderAssetsTable(assets []*ledger.Asset) string {
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		session := a.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			string(a.Kind),
			a.Filename,
			string(a.Status),
			strconv.Itoa(a.Attempts),
			session,
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(
		[]string{"ID", "Kind", "Filename", "Status", "Attempts", "Session", "Created"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
