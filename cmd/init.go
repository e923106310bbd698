package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/cmd/config"
	"github.com/arbortools/arbor/pkg/models"
)

func NewInitCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the tree database",
		Long: `Create the tree database, optionally seeding it from a YAML file.

A seed file lists nodes with their content type and fields; sibling order is
taken from list position and converted into left-sibling chains:

  nodes:
    - id: intro
      type: heading
      fields: {text: Introduction, level: 1}
      children:
        - id: intro-p1
          type: text
          fields: {body: Welcome.}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(filepath.Dir(config.DatabasePath()), 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if seedFile == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty tree at %s\n", config.DatabasePath())
				return nil
			}

			data, err := os.ReadFile(seedFile)
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
			seeds, err := models.LoadSeed(data)
			if err != nil {
				return err
			}
			recs, err := models.Records(seeds, "")
			if err != nil {
				return err
			}
			for _, rec := range recs {
				if err := s.Insert(cmd.Context(), rec); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized tree at %s with %d top-level nodes\n",
				config.DatabasePath(), len(recs))
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML file to seed the tree from")

	return cmd
}
