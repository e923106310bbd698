package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/models"
	"github.com/arbortools/arbor/pkg/tree"
)

func NewAddCmd() *cobra.Command {
	var (
		typeKey  string
		parentID string
		afterID  string
		fields   []string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a node with a typed content payload",
		Long: `Add a node at the given position with a typed content payload.

Fields are passed as key=value pairs and stored on the content payload:

  arbor add intro --type heading --field text=Introduction --field level=1
  arbor add intro-p1 --parent intro --type text --field body="Welcome."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := content.Builtins()
			keys := reg.Keys()
			sort.Strings(keys)
			found := false
			for _, k := range keys {
				if k == typeKey {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %q (known: %s)", content.ErrUnknownType, typeKey, strings.Join(keys, ", "))
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			root, err := loadTree(cmd.Context(), s)
			if err != nil {
				return err
			}
			id := tree.ID(args[0])
			if root.Find(id) != nil {
				return fmt.Errorf("node %s already exists", id)
			}

			parent := root
			if parentID != "" {
				parent = root.Find(tree.ID(parentID))
				if parent == nil {
					return fmt.Errorf("%w: %s", tree.ErrUnknownParent, parentID)
				}
			}
			if afterID != "" && parent.Children().Find(tree.ID(afterID)) == nil {
				return fmt.Errorf("%w: %s not under %q", tree.ErrUnknownLeft, afterID, parentID)
			}

			payload := models.RawContent{models.TypeKeyField: typeKey}
			for _, f := range fields {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("malformed --field %q, want key=value", f)
				}
				payload[k] = v
			}

			// The new node takes the slot after --after; whoever held it
			// is rewired to follow the new node, keeping the left chain a
			// total order.
			var rewire []tree.Change
			for _, sib := range parent.Children().Nodes() {
				if sib.LeftID() == tree.ID(afterID) {
					rewire = append(rewire, tree.Change{
						ID:    sib.ID(),
						Attrs: models.StructuralAttrs{ParentID: parentID, LeftID: string(id)},
					})
				}
			}

			rec := models.NodeRecord{
				ID:       string(id),
				ParentID: parentID,
				LeftID:   afterID,
				Content:  payload,
			}
			if err := s.Insert(cmd.Context(), rec); err != nil {
				return err
			}
			if len(rewire) > 0 {
				if err := s.Save(cmd.Context(), rewire...); err != nil {
					return fmt.Errorf("node added but sibling chain not rewired: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", id, typeKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeKey, "type", "text", "content type key")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent id (empty means the root)")
	cmd.Flags().StringVar(&afterID, "after", "", "left sibling id (empty means leftmost)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "content field as key=value (repeatable)")

	return cmd
}
