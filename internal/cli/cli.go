// Package cli is the thin command surface over the pipeline. All analysis
// logic lives behind the use case; commands only parse flags, call it and
// print results.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"journalwatch/internal/app"
	"journalwatch/internal/config"
	"journalwatch/internal/logging"
)

type state struct {
	app *app.Application
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:           "journalwatch",
		Short:         "Monitor scholarly journals and score new articles for relevance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Missing .env is fine; present values feed the config env
			// overrides.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				// The only fatal start-up path: the defaults themselves
				// are broken.
				return fmt.Errorf("load configuration: %w", err)
			}

			logger := logging.New(cfg.Logging.Level)
			application, err := app.New(cfg, logger, printProgress)
			if err != nil {
				return err
			}

			st.app = application
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if st.app != nil {
				return st.app.Close()
			}
			return nil
		},
	}

	root.AddCommand(
		newFetchCommand(st),
		newAnalyzeCommand(st),
		newReportCommand(st),
		newListCommand(st),
		newShowCommand(st),
		newRunCommand(st),
		newResetCommand(st),
		newSiteCommand(st),
	)

	return root
}

func printProgress(stage string, done, total int) {
	fmt.Printf("\r[%s] %d/%d", stage, done, total)
	if done >= total {
		fmt.Println()
	}
}
