package cmd

import (
	"fmt"
	"log/slog"

	"github.com/nerdwave-nick/pokeview/internal/moves"
	"github.com/nerdwave-nick/pokeview/internal/tui"
	"github.com/spf13/cobra"
)

var movesBatches int

func init() {
	movesCmd.Flags().IntVarP(&movesBatches, "batches", "n", 1, "How many batches of moves to resolve, 0 resolves all of them.")
}

var movesCmd = &cobra.Command{
	Use:   "moves <id>",
	Short: "Resolve and print the moves of a record batch by batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if movesBatches < 0 {
			return fmt.Errorf("batches must not be negative")
		}
		rt, err := openRuntime(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		rec, err := rt.fetcher.Fetch(cmd.Context(), id)
		if err != nil {
			return err
		}
		if rec.Failed() {
			return fmt.Errorf("record %d unavailable: %w", id, rec.Cause)
		}

		page := moves.NewPage(id, rec.Moves)
		page.Parallelism = cfg.Parallelism
		page.Metrics = rt.metrics
		for n := 0; !page.Done() && (movesBatches == 0 || n < movesBatches); n++ {
			batch, err := page.Advance(cmd.Context(), id, rt.fetcher.Client())
			if err != nil {
				return err
			}
			for _, s := range batch.Skipped {
				slog.Warn("move skipped", slog.String("move", s.Name), slog.String("error", s.Error))
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderMoves(tui.DefaultStyles(), page.Snapshot()))
		return nil
	},
}
