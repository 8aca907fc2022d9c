package cmd

import (
	"io"
	"os"

	"github.com/nerdwave-nick/pokeview/internal/tui"
	"github.com/spf13/cobra"
)

var browseLogFile string

func init() {
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file while the browser owns the terminal. Logs are dropped when empty.")
}

var browseCmd = &cobra.Command{
	Use:   "browse [id]",
	Short: "Browse records interactively in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := 1
		if len(args) == 1 {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}

		// the alt screen belongs to the browser, logs go elsewhere
		var w io.Writer = io.Discard
		if browseLogFile != "" {
			f, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		setupLogger(w, cfg.LogLevel)

		rt, err := openRuntime(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		return tui.Run(cmd.Context(), rt.fetcher, id, cfg.Parallelism, rt.metrics)
	},
}
