package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/pkg/store"
	"github.com/arbortools/arbor/pkg/tree"
)

func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a node and its subtree",
		Long: `Remove a node and every descendant. The removed node's right sibling is
spliced onto its former left sibling so the remaining chain stays a total
order.`,
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

			if splice := tree.PlanDetach(node); len(splice) > 0 {
				if err := s.Save(cmd.Context(), splice...); err != nil {
					return fmt.Errorf("removal not applied: %w", err)
				}
				if err := tree.Apply(root, splice); err != nil {
					return err
				}
			}
			if err := s.Delete(cmd.Context(), node.ID()); err != nil {
				return err
			}
			node.Destroy()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	return cmd
}
