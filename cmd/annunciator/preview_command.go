package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"annunciator/internal/media"
	"annunciator/internal/session"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var (
		station    stationFlags
		event      eventFlags
		edits      editFlags
		offline    bool
		scriptOnly bool
		skipChecks bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Synthesize the announcement and play it locally",
		Long: `Compose the announcement, send it to the speech service, and play the
result. The server-side audio file and the local copy are deleted when
playback ends or is interrupted with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := event.event()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			settings := sessionSettings{
				station:  station,
				offline:  offline,
				checks:   !skipChecks && !scriptOnly,
				observer: transitionPrinter(cmd.ErrOrStderr()),
			}
			return ctx.withSession(cmd.Context(), settings, func(s *session.Session) error {
				if _, err := s.Compose(cmd.Context(), ev); err != nil {
					return err
				}
				if err := edits.apply(s); err != nil {
					return err
				}
				if scriptOnly {
					script, err := s.SpeechScript()
					if err != nil {
						return err
					}
					for _, text := range script.Texts {
						fmt.Fprintf(out, "[%s]\n%s\n\n", text.Language.Tag(), text.Text)
					}
					return nil
				}
				return playPreview(cmd.Context(), out, s)
			})
		},
	}

	station.bind(cmd)
	event.bind(cmd)
	edits.bind(cmd)
	cmd.Flags().BoolVar(&offline, "offline", false, "Use built-in sentences without calling the translation service")
	cmd.Flags().BoolVar(&scriptOnly, "script", false, "Print the text sent to the speech service instead of playing it")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip readiness checks before synthesis")
	return cmd
}

func playPreview(ctx context.Context, out io.Writer, s *session.Session) error {
	state, err := s.PreviewAudio(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Playing %s (Ctrl-C to stop)\n", state.Filename)

	if err := s.WaitAudio(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if _, stopErr := s.StopAudio(context.WithoutCancel(ctx)); stopErr != nil {
			return stopErr
		}
		fmt.Fprintln(out, "Playback stopped")
		return nil
	}
	if final := s.AudioState(); final.Phase == media.PhaseError {
		return final.Err
	}
	fmt.Fprintln(out, "Playback finished")
	return nil
}

// transitionPrinter reports lifecycle changes on w.
func transitionPrinter(w io.Writer) media.Observer {
	colorize := shouldColorize(w)
	return func(t media.Transition) {
		fmt.Fprintln(w, renderTransition(t, colorize))
	}
}
