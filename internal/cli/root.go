// Package cli provides the Cobra command structure for editcontext.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/editcontext/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by all subcommands.
type globalFlags struct {
	debug      bool
	configPath string
}

// NewRootCommand creates the root editcontext command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "editcontext",
		Short: "A UTF-16 edit context engine with a terminal demo",
		Long: `editcontext models the state machine behind a platform edit context.

It keeps an authoritative text buffer indexed in UTF-16 code units, a clamped
selection and an input method composition stage, and turns input events into
snapshots for a renderer. The demo command runs an interactive terminal editor
on top of it; the replay command feeds a scripted event list and prints the
state after every step.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (.toml, .yaml)")

	// Add subcommands.
	rootCmd.AddCommand(newDemoCommand(flags))
	rootCmd.AddCommand(newReplayCommand(flags))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
