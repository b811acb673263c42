package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a voice note to attach later",
		Long: `Record a voice note of up to 30 seconds. The file path is printed so it can
be attached with "moodlog log --voice".`,
		Args: cobra.NoArgs,
		RunE: withApp(runRecord),
	}
	cmd.Flags().BoolP("play", "p", false, "play the recording back afterwards")
	return cmd
}

func runRecord(cmd *cobra.Command, a *app, _ []string) error {
	ctx := cmd.Context()
	play, _ := cmd.Flags().GetBool("play")

	studio, err := a.studio()
	if err != nil {
		return err
	}
	defer func() {
		if err := studio.Close(context.Background()); err != nil {
			slog.Warn("failed to close voice studio", "error", err)
		}
	}()

	artifact, err := recordVoiceNote(ctx, a, studio, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("voice note: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%ds)\n", successStyle.Render("Saved"), artifact.LocalURI, artifact.DurationSeconds)

	if !play {
		return nil
	}
	if err := studio.Player().Play(ctx, artifact); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("Playing back. Press Enter to stop."))
	return waitPlayback(ctx, a, studio)
}
