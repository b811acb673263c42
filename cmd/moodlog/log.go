package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/moodlog/internal/mood"
	"github.com/foxseedlab/moodlog/internal/submission"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a mood with an optional note and voice note",
		Long: `Log a mood with an optional note and voice note.

Moods: ` + joinLabels() + `

Examples:
  moodlog log --mood Happy --note "great day"
  moodlog log --mood Sad --record
  moodlog log --mood Calm --voice ./walk.m4a`,
		Args: cobra.NoArgs,
		RunE: withApp(runLog),
	}
	cmd.Flags().StringP("mood", "m", "", "how you feel (required)")
	cmd.Flags().StringP("note", "n", "", "a short note")
	cmd.Flags().String("voice", "", "attach an existing audio file")
	cmd.Flags().BoolP("record", "r", false, "record a voice note before logging")
	_ = cmd.MarkFlagRequired("mood")
	cmd.MarkFlagsMutuallyExclusive("voice", "record")
	return cmd
}

func runLog(cmd *cobra.Command, a *app, _ []string) error {
	ctx := cmd.Context()
	moodFlag, _ := cmd.Flags().GetString("mood")
	note, _ := cmd.Flags().GetString("note")
	voicePath, _ := cmd.Flags().GetString("voice")
	record, _ := cmd.Flags().GetBool("record")

	label, err := mood.ParseLabel(moodFlag)
	if err != nil {
		return fmt.Errorf("%w (choose one of %s)", err, joinLabels())
	}
	draft := mood.Draft{Mood: label, Note: note}

	switch {
	case voicePath != "":
		artifact := mood.ArtifactFromFile(voicePath)
		draft.Voice = &artifact
	case record:
		studio, err := a.studio()
		if err != nil {
			return err
		}
		artifact, err := recordVoiceNote(ctx, a, studio, cmd.ErrOrStderr())
		if closeErr := studio.Close(context.Background()); closeErr != nil {
			slog.Warn("failed to close voice studio", "error", closeErr)
		}
		if err != nil {
			return fmt.Errorf("voice note: %w", err)
		}
		draft.Voice = &artifact
	}

	pipeline, err := do.Invoke[*submission.Pipeline](a.injector)
	if err != nil {
		return err
	}
	result := pipeline.Submit(ctx, draft)
	renderResult(cmd.OutOrStdout(), result)
	if !result.Logged() {
		if record && draft.Voice != nil {
			// The clip is kept for a retry; it lives only in the recordings
			// dir, so say where.
			renderRetryHint(cmd.OutOrStdout(), draft, *draft.Voice)
		}
		return result.Reason
	}
	return nil
}

func joinLabels() string {
	labels := mood.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
