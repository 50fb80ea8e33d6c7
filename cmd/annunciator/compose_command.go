package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"annunciator/internal/announcement"
	"annunciator/internal/sections"
	"annunciator/internal/services"
	"annunciator/internal/session"
)

type composeOutput struct {
	SessionID     string           `json:"session_id"`
	Mode          string           `json:"mode"`
	Station       string           `json:"station,omitempty"`
	LocalLanguage string           `json:"local_language,omitempty"`
	Translated    bool             `json:"translated"`
	Fallback      string           `json:"fallback,omitempty"`
	Sections      []sectionPayload `json:"sections"`
	Document      string           `json:"document"`
}

type sectionPayload struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var (
		station    stationFlags
		event      eventFlags
		edits      editFlags
		offline    bool
		asJSON     bool
		asTable    bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose an announcement document for a train event",
		Example: `  annunciator compose --train 12951 --name "Mumbai Rajdhani" --from "Mumbai Central" --to "New Delhi" --platform 1
  annunciator compose --station ALL --category delay -t 12951 -n Rajdhani --from Mumbai --to Delhi -p 3 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := event.event()
			if err != nil {
				return err
			}
			noSweep := false
			settings := sessionSettings{station: station, offline: offline, sweepOnClose: &noSweep}
			return ctx.withSession(cmd.Context(), settings, func(s *session.Session) error {
				res, err := s.Compose(cmd.Context(), ev)
				if err != nil {
					return err
				}
				if err := edits.apply(s); err != nil {
					return err
				}
				doc := s.Document()
				if path := strings.TrimSpace(outputPath); path != "" {
					if err := os.WriteFile(path, []byte(doc.Serialize()), 0o644); err != nil {
						return fmt.Errorf("write document: %w", err)
					}
				}
				switch {
				case asJSON:
					return writeJSON(cmd, buildComposeOutput(s, res, doc))
				case asTable:
					fmt.Fprintln(cmd.OutOrStdout(), renderSectionsTable(doc))
				default:
					fmt.Fprintln(cmd.OutOrStdout(), doc.Serialize())
				}
				if res.Fallback != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "note: %s; built-in text was used\n", services.UserMessage(res.Fallback))
				}
				return nil
			})
		},
	}

	station.bind(cmd)
	event.bind(cmd)
	edits.bind(cmd)
	cmd.Flags().BoolVar(&offline, "offline", false, "Use built-in sentences without calling the translation service")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&asTable, "table", false, "Show sections as a table")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also write the serialized document to this file")
	return cmd
}

func buildComposeOutput(s *session.Session, res announcement.Result, doc sections.Document) composeOutput {
	plan := s.Plan()
	out := composeOutput{
		SessionID:  s.ID(),
		Mode:       plan.Mode.String(),
		Station:    plan.StationCode,
		Translated: res.Translated,
		Document:   doc.Serialize(),
	}
	if plan.HasLocalSection() && !plan.IsAll() {
		out.LocalLanguage = string(plan.Local)
	}
	if res.Fallback != nil {
		out.Fallback = services.UserMessage(res.Fallback)
	}
	for _, sec := range doc.Sections() {
		out.Sections = append(out.Sections, sectionPayload{Tag: sec.Tag, Text: sec.Body})
	}
	return out
}

func renderSectionsTable(doc sections.Document) string {
	rows := make([][]string, 0, doc.Len())
	for _, sec := range doc.Sections() {
		rows = append(rows, []string{sec.Tag, sec.Body})
	}
	return renderTable([]string{"Section", "Text"}, rows, []columnAlignment{alignLeft, alignWrap})
}
