package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"annunciator/internal/announcement"
	"annunciator/internal/config"
	"annunciator/internal/language"
	"annunciator/internal/session"
)

// stationFlags overrides the configured station for one invocation.
type stationFlags struct {
	code  string
	state string
}

func (f *stationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "station", "", "Station code (overrides config; ALL selects four languages)")
	cmd.Flags().StringVar(&f.state, "state", "", "Station state used to pick the local language (overrides config)")
}

func (f stationFlags) plan(cfg *config.Config) language.Plan {
	if strings.TrimSpace(f.code) == "" && strings.TrimSpace(f.state) == "" {
		return session.PlanFor(cfg)
	}
	code := cfg.Station.Code
	state := cfg.Station.State
	if strings.TrimSpace(f.code) != "" {
		code = f.code
	}
	if strings.TrimSpace(f.state) != "" {
		state = f.state
	}
	mapping := language.NewStateMapping(cfg.Languages.StateOverrides)
	return language.ResolvePlan(code, state, mapping, cfg.Station.AllCode)
}

// eventFlags collects a train event from the command line.
type eventFlags struct {
	category         string
	trainNumber      string
	trainName        string
	origin           string
	destination      string
	platform         string
	previousPlatform string
	newPlatform      string
}

func (f *eventFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.category, "category", string(announcement.CategoryArrival),
		"Announcement category ("+categoryList()+")")
	flags.StringVarP(&f.trainNumber, "train", "t", "", "Train number")
	flags.StringVarP(&f.trainName, "name", "n", "", "Train name")
	flags.StringVar(&f.origin, "from", "", "Origin station")
	flags.StringVar(&f.destination, "to", "", "Destination station")
	flags.StringVarP(&f.platform, "platform", "p", "", "Platform number")
	flags.StringVar(&f.previousPlatform, "previous-platform", "", "Previous platform (platform-change)")
	flags.StringVar(&f.newPlatform, "new-platform", "", "New platform (platform-change)")
}

func (f eventFlags) event() (announcement.TrainEvent, error) {
	category, err := announcement.ParseCategory(f.category)
	if err != nil {
		return announcement.TrainEvent{}, err
	}
	return announcement.TrainEvent{
		Category:         category,
		TrainNumber:      f.trainNumber,
		TrainName:        f.trainName,
		Origin:           f.origin,
		Destination:      f.destination,
		Platform:         f.platform,
		PreviousPlatform: f.previousPlatform,
		NewPlatform:      f.newPlatform,
	}, nil
}

func categoryList() string {
	categories := announcement.Categories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// editFlags carries operator changes applied after composition.
type editFlags struct {
	sections []string
	document string
}

func (f *editFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.sections, "edit", "e", nil, "Replace a section, as TAG=TEXT (repeatable)")
	cmd.Flags().StringVar(&f.document, "document", "", "Use a serialized announcement document from this file instead of the composed text")
}

// apply installs the document file, if any, and then the section edits.
func (f editFlags) apply(s *session.Session) error {
	if path := strings.TrimSpace(f.document); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		if _, err := s.Replace(string(raw)); err != nil {
			return err
		}
	}
	for _, edit := range f.sections {
		tag, text, ok := strings.Cut(edit, "=")
		if !ok || strings.TrimSpace(tag) == "" {
			return fmt.Errorf("invalid --edit %q (expected TAG=TEXT)", edit)
		}
		if _, err := s.EditSection(tag, text); err != nil {
			return err
		}
	}
	return nil
}
