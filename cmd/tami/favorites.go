package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "List and edit favorite folders",
	Args:    cobra.NoArgs,
	RunE:    runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites in order",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add paths to the end of the list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "rm <index>...",
	Aliases: []string{"remove"},
	Short:   "Remove favorites by index",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runFavoritesRemove,
}

var favoritesRenameCmd = &cobra.Command{
	Use:   "rename <index> <name>",
	Short: "Change a favorite's display name",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesRename,
}

var favoritesMoveCmd = &cobra.Command{
	Use:   "move <destination> <index>...",
	Short: "Move favorites as one block",
	Long: `Moves the favorites at the given indices, in their current order, to
destination. The destination is an index in the list as it is now, so
"move 3 0" puts the first favorite after the third.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFavoritesMove,
}

var favoritesOpenCmd = &cobra.Command{
	Use:   "open <index>",
	Short: "Open a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesOpen,
}

func init() {
	favoritesCmd.AddCommand(
		favoritesListCmd,
		favoritesAddCmd,
		favoritesRemoveCmd,
		favoritesRenameCmd,
		favoritesMoveCmd,
		favoritesOpenCmd,
	)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	list := srv.Workspace().Favorites().List()
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No favorites.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, f := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, f.Name, f.Path, humanize.Time(f.DateAdded))
	}
	return tw.Flush()
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", p)
		}
	}

	added := srv.Workspace().Favorites().AddAll(args)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d.\n", added, len(args))
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	indices, err := parseIndices(args)
	if err != nil {
		return err
	}

	// Highest first so earlier removals do not shift later ones.
	slices.Sort(indices)
	indices = slices.Compact(indices)
	slices.Reverse(indices)

	store := srv.Workspace().Favorites()
	removed := 0
	for _, i := range indices {
		if store.RemoveAt(i) {
			removed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d.\n", removed)
	return nil
}

func runFavoritesRename(cmd *cobra.Command, args []string) error {
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if !srv.Workspace().Favorites().RenameAt(i, args[1]) {
		return fmt.Errorf("cannot rename favorite %d to %q", i, args[1])
	}
	return nil
}

func runFavoritesMove(cmd *cobra.Command, args []string) error {
	destination, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	indices, err := parseIndices(args[1:])
	if err != nil {
		return err
	}
	if !srv.Workspace().Favorites().Move(indices, destination) {
		return fmt.Errorf("no favorites at %v", indices)
	}
	return runFavoritesList(cmd, nil)
}

func runFavoritesOpen(cmd *cobra.Command, args []string) error {
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	res, err := srv.Workspace().OpenFavorite(i)
	if err != nil {
		return err
	}
	return present(cmd, res)
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}

func parseIndices(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		i, err := parseIndex(a)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}
