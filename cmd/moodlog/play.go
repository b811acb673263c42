package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <file>",
		Short: "Play a voice note",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runPlay),
	}
}

func runPlay(cmd *cobra.Command, a *app, args []string) error {
	ctx := cmd.Context()
	studio, err := a.studio()
	if err != nil {
		return err
	}
	defer func() {
		if err := studio.Close(context.Background()); err != nil {
			slog.Warn("failed to close voice studio", "error", err)
		}
	}()

	artifact := mood.ArtifactFromFile(args[0])
	if err := studio.Player().Play(ctx, artifact); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("Playing "+artifact.DisplayName+". Press Enter or Ctrl-C to stop."))
	return waitPlayback(ctx, a, studio)
}
