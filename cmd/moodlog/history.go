package main

import (
	"fmt"

	"github.com/foxseedlab/moodlog/internal/remote"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List logged moods, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			client, err := do.Invoke[remote.Client](a.injector)
			if err != nil {
				return err
			}
			entries, err := client.History(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not load mood history: %w", err)
			}
			renderHistory(cmd.OutOrStdout(), entries)
			return nil
		}),
	}
}

func newInsightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insight <id>",
		Short: "Show the insight generated for a logged mood",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			client, err := do.Invoke[remote.Client](a.injector)
			if err != nil {
				return err
			}
			insight, err := client.Insight(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("could not load insight: %w", err)
			}
			renderInsight(cmd.OutOrStdout(), insight)
			return nil
		}),
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a logged mood",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			client, err := do.Invoke[remote.Client](a.injector)
			if err != nil {
				return err
			}
			if err := client.DeleteMood(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("could not delete mood: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted"), mutedStyle.Render(args[0]))
			return nil
		}),
	}
}
