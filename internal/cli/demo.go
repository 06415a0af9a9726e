package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/editcontext/internal/app"
)

func newDemoCommand(flags *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive terminal editor",
		Long: `Run an interactive editor backed by the edit engine.

Type to insert text; arrows, Home and End move the caret and extend the
selection with Shift. Ctrl-Space toggles a simulated input method: typed keys
build an underlined composition, Enter commits it and Escape cancels it.
The bottom line shows the authoritative text and selection.

Ctrl-C or Ctrl-Q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.New(app.Options{
				ConfigPath: flags.configPath,
				Debug:      flags.debug,
				Watch:      watch,
			})
			if err != nil {
				return err
			}
			if err := application.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "reload the config file when it changes")

	return cmd
}
