package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/internal/tui/editor"
	"github.com/arbortools/arbor/pkg/content"
)

// NewEditCmd creates the `arbor edit` command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Launch the interactive tree editor",
		Long: `Launch the interactive editor. Nodes are reordered by dragging their
handle with the mouse onto one of the insertion targets that appear while a
drag is active. Moves persist before they are applied; a failed save leaves
the tree in its last acknowledged state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("the editor requires an interactive terminal")
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

			m, err := editor.New(root, s, content.Builtins(), Logger)
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("editor exited with error: %w", err)
			}
			return nil
		},
	}

	return cmd
}
