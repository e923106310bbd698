package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/pkg/content"
)

func NewTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the tree in visual order",
		Long: `Print every node in visual order, derived from the left-sibling chains.
Content is hydrated through the type registry, so each row shows its resolved
type and title.`,
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
			vctx, _, err := projectTree(root, content.Builtins())
			if err != nil {
				return err
			}
			lines := vctx.RenderLines(100)
			if len(lines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(empty tree)")
				return nil
			}
			for _, ln := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), ln.Text)
			}
			return nil
		},
	}

	return cmd
}
