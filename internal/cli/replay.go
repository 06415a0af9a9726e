package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/editcontext/internal/config"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/replay"
)

func newReplayCommand(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Apply a scripted event list and print every snapshot",
		Long: `Apply the events of a YAML script to a fresh engine and print one YAML
document per event with the resulting text, selection, state, overlay,
character bounds and any recovered fault.

Editor settings from --config apply unless the script overrides them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if flags.debug {
				cfg.Log.Level = "debug"
			}

			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}

			logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)
			ctx := logging.WithLogger(cmd.Context(), logger)

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				out = f
			}

			_, err = replay.Run(ctx, script, out, replay.WithEngineOptions(cfg.EngineOptions()...))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write snapshots to a file instead of stdout")

	return cmd
}
