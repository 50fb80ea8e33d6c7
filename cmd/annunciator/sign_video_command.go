package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"annunciator/internal/fileutil"
	"annunciator/internal/session"
)

func newSignVideoCommand(ctx *commandContext) *cobra.Command {
	var (
		station    stationFlags
		event      eventFlags
		edits      editFlags
		offline    bool
		open       bool
		noWait     bool
		skipChecks bool
		savePath   string
	)

	cmd := &cobra.Command{
		Use:     "sign-video",
		Aliases: []string{"isl"},
		Short:   "Generate a sign-language video for the announcement",
		Long: `Compose the announcement and turn its English section into a
sign-language video. The video stays available until Enter is pressed,
then the server-side file and the local copy are deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := event.event()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			settings := sessionSettings{
				station:  station,
				offline:  offline,
				checks:   !skipChecks,
				observer: transitionPrinter(cmd.ErrOrStderr()),
			}
			return ctx.withSession(cmd.Context(), settings, func(s *session.Session) error {
				if _, err := s.Compose(cmd.Context(), ev); err != nil {
					return err
				}
				if err := edits.apply(s); err != nil {
					return err
				}
				fmt.Fprintln(out, "Generating sign-language video; this can take a few minutes")
				state, err := s.GenerateSignVideo(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Video ready: %s\n", state.Filename)
				fmt.Fprintf(out, "Local copy: %s\n", state.Handle)
				if path := strings.TrimSpace(savePath); path != "" {
					if err := fileutil.CopyFileVerified(state.Handle, path); err != nil {
						return fmt.Errorf("save video: %w", err)
					}
					fmt.Fprintf(out, "Saved: %s\n", path)
				}
				if open {
					if _, err := s.OpenSignVideo(cmd.Context()); err != nil {
						return err
					}
				}
				if noWait {
					return nil
				}
				fmt.Fprintln(out, "Press Enter to finish and delete the video")
				waitForEnter(cmd.Context(), cmd.InOrStdin())
				return nil
			})
		},
	}

	station.bind(cmd)
	event.bind(cmd)
	edits.bind(cmd)
	cmd.Flags().BoolVar(&offline, "offline", false, "Use built-in sentences without calling the translation service")
	cmd.Flags().BoolVar(&open, "open", false, "Open the video with the configured video player")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Delete the video as soon as it is ready")
	cmd.Flags().StringVar(&savePath, "save", "", "Keep a copy of the video at this path after cleanup")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip readiness checks before synthesis")
	return cmd
}

// waitForEnter returns after one line is read from in, in reaches EOF, or
// ctx is cancelled.
func waitForEnter(ctx context.Context, in io.Reader) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = bufio.NewReader(in).ReadString('\n')
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
