package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arbortools/arbor/cmd"
	"github.com/arbortools/arbor/cmd/config"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "arbor",
		Short:         "An editable content tree with drag-and-drop reordering",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	config.AddGlobalFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		config.InitConfig()
		cmd.Logger.SetOutput(os.Stderr)
		if verbose {
			cmd.Logger.SetLevel(logrus.DebugLevel)
		} else {
			cmd.Logger.SetLevel(logrus.WarnLevel)
		}
	}

	rootCmd.AddCommand(cmd.NewInitCmd())
	rootCmd.AddCommand(cmd.NewTreeCmd())
	rootCmd.AddCommand(cmd.NewAddCmd())
	rootCmd.AddCommand(cmd.NewRemoveCmd())
	rootCmd.AddCommand(cmd.NewMoveCmd())
	rootCmd.AddCommand(cmd.NewEditCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
