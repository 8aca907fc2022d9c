package cmd

import (
	"fmt"
	"strconv"

	"github.com/nerdwave-nick/pokeview/internal/compare"
	"github.com/nerdwave-nick/pokeview/internal/sprites"
	"github.com/nerdwave-nick/pokeview/internal/tui"
	"github.com/spf13/cobra"
)

type ShowOptions struct {
	Generation string
	Version    string
	Back       bool
	Shiny      bool
	Cry        string
}

var showOpts = &ShowOptions{}

func init() {
	showCmd.Flags().StringVarP(&showOpts.Generation, "generation", "g", "", "The sprite generation, defaults to the first one of the record.")
	showCmd.Flags().StringVarP(&showOpts.Version, "version", "v", "", "The sprite version, defaults to the first one of the generation.")
	showCmd.Flags().BoolVarP(&showOpts.Back, "back", "b", false, "Show the back sprite when the version has one.")
	showCmd.Flags().BoolVarP(&showOpts.Shiny, "shiny", "s", false, "Show the shiny sprite when the version has one.")
	showCmd.Flags().StringVar(&showOpts.Cry, "cry", "", "The cry to print, latest or legacy. Defaults to latest.")
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

// selection fills the generation and version the user left out from the
// record's sprite tree.
func (o *ShowOptions) selection(tree *sprites.Tree) sprites.Selection {
	sel := sprites.Selection{Generation: o.Generation, Version: o.Version, Back: o.Back, Shiny: o.Shiny}
	if sel.Generation == "" {
		first, _ := sprites.First(tree)
		sel.Generation = first.Generation
	}
	if sel.Version == "" {
		if versions := tree.Versions(sel.Generation); len(versions) > 0 {
			sel.Version = versions[0]
		}
	}
	return sel
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the summary, sprite and size comparison of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		cry := showOpts.Cry
		if cry == "" {
			cry = rec.DefaultCry()
		} else if _, ok := rec.Cry(cry); !ok && !rec.Failed() {
			return fmt.Errorf("record %d has no %q cry, available: %v", id, cry, rec.CryLabels())
		}

		styles := tui.DefaultStyles()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderSummary(styles, rec, cry))
		if !rec.Failed() {
			res := sprites.Resolve(rec.Sprites, showOpts.selection(rec.Sprites))
			fmt.Fprintln(out, tui.RenderSprite(styles, rec.Sprites, res))
		}
		fmt.Fprintln(out, tui.RenderBars(styles, compare.Heights(rec)))
		fmt.Fprint(out, tui.RenderBars(styles, compare.Weights(rec)))
		return nil
	},
}
