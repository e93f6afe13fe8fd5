package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/tami/internal/domain/tree"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Print the folder tree",
	Long: `Prints the folder tree from the root, or from path when it lies under
the root. Hidden entries are skipped and folders sort before files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 1, "levels to list below the starting folder")
}

func runTree(cmd *cobra.Command, args []string) error {
	if treeDepth < 0 {
		return fmt.Errorf("depth must not be negative")
	}

	t := srv.Workspace().Tree()
	node := t.Root()
	if len(args) == 1 {
		if node = t.Reveal(args[0]); node == nil {
			return fmt.Errorf("%s is not under %s", args[0], t.Root().Path())
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, node.Path())
	printTree(out, t, node, "", treeDepth)
	return nil
}

func printTree(w io.Writer, t *tree.Tree, n *tree.Node, prefix string, depth int) {
	if depth == 0 || !t.IsExpandable(n) {
		return
	}
	t.LoadChildren(n)

	children := n.Children()
	for i, c := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		name := c.Name()
		if t.IsExpandable(c) {
			name += "/"
		}
		fmt.Fprintln(w, prefix+branch+name)
		printTree(w, t, c, prefix+indent, depth-1)
	}
}
