package main

import (
	"github.com/foxseedlab/moodlog/internal/config"
	"github.com/foxseedlab/moodlog/internal/voice"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "moodlog",
		Short: "Log how you feel, with an optional voice note",
		Long: `moodlog records your mood with a short note and an optional voice note
of up to 30 seconds, and lets you browse your history and insights.

Configuration is read from MOODLOG_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		newLogCmd(),
		newRecordCmd(),
		newPlayCmd(),
		newHistoryCmd(),
		newInsightCmd(),
		newDeleteCmd(),
		newVersionCmd(),
	)
	return root
}

type app struct {
	cfg      *config.Config
	injector do.Injector
	events   *terminalEvents
	keys     *keyboard
}

func (a *app) studio() (*voice.Studio, error) {
	return do.Invoke[*voice.Studio](a.injector)
}

// withApp loads configuration and builds the dependency graph before
// running fn.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		cfg, err := loadConfig(verbose)
		if err != nil {
			return err
		}
		events := newTerminalEvents(cmd.ErrOrStderr(), cfg.MaxRecordingSec)
		return fn(cmd, &app{
			cfg:      cfg,
			injector: setupDI(cfg, events),
			events:   events,
			keys:     newKeyboard(cmd.InOrStdin()),
		}, args)
	}
}
