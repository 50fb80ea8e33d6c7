package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"annunciator/internal/config"
	"annunciator/internal/language"
	"annunciator/internal/session"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	var states bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "Show supported languages and the configured station plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if states {
				fmt.Fprintln(out, renderStatesTable(language.NewStateMapping(cfg.Languages.StateOverrides)))
				return nil
			}
			fmt.Fprintln(out, planSummary(session.PlanFor(cfg)))
			fmt.Fprintln(out, renderLanguagesTable(cfg))
			return nil
		},
	}
	cmd.Flags().BoolVar(&states, "states", false, "Show the state to local language mapping")
	return cmd
}

func planSummary(plan language.Plan) string {
	station := plan.StationCode
	if station == "" {
		station = "(unset)"
	}
	if plan.IsAll() {
		return fmt.Sprintf("Station %s: all-station mode, sections %s", station, strings.Join(plan.Tags(), ", "))
	}
	state := plan.State
	if state == "" {
		state = "(unset)"
	}
	return fmt.Sprintf("Station %s in %s: local language %s, sections %s", station, state, plan.Local, strings.Join(plan.Tags(), ", "))
}

func renderLanguagesTable(cfg *config.Config) string {
	supported := make(map[language.Language]bool, len(cfg.Languages.TranslationSupported))
	for _, name := range cfg.Languages.TranslationSupported {
		if lang, ok := language.Lookup(name); ok {
			supported[lang] = true
		}
	}
	rows := make([][]string, 0)
	for _, lang := range language.All() {
		voice := lang.SpeechCode()
		if voice == "" {
			voice = "-"
		}
		rows = append(rows, []string{
			string(lang),
			lang.Tag(),
			lang.Code(),
			voice,
			yesNo(supported[lang]),
		})
	}
	return renderTable([]string{"Language", "Section", "ISO", "Voice", "Translated"}, rows, nil)
}

func renderStatesTable(mapping *language.StateMapping) string {
	entries := mapping.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.State, string(e.Language)})
	}
	return renderTable([]string{"State", "Local language"}, rows, nil)
}
