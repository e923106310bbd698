package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/pkg/store"
	"github.com/arbortools/arbor/pkg/tree"
)

func NewMoveCmd() *cobra.Command {
	var (
		parentID string
		afterID  string
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a node to a new parent or position",
		Long: `Move a node to a new (parent, left sibling) position.

The move runs through the same validation and pessimistic persistence path
as drag-and-drop in the editor: the destination parent must exist, --after
must name one of its children, the destination may not sit inside the moved
subtree, and nothing is applied until the store acknowledges the save.

Examples:
  # Make ch2 the first child of the root
  arbor move ch2

  # Place ch2 under part1, right after ch1
  arbor move ch2 --parent part1 --after ch1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			root, err := loadTree(cmd.Context(), s)
			if err != nil {
				return err
			}
			node := root.Find(tree.ID(args[0]))
			if node == nil {
				return fmt.Errorf("%w: %s", store.ErrUnknownNode, args[0])
			}

			plan, err := tree.PlanMove(root, node, tree.ID(parentID), tree.ID(afterID))
			if err != nil {
				return err
			}
			if plan == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Already in place, nothing to do")
				return nil
			}
			if err := s.Save(cmd.Context(), plan...); err != nil {
				return fmt.Errorf("move not applied: %w", err)
			}
			if err := tree.Apply(root, plan); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s (%d nodes rewired)\n", node.ID(), len(plan))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "destination parent id (empty means the root)")
	cmd.Flags().StringVar(&afterID, "after", "", "left sibling id (empty means leftmost)")

	return cmd
}
