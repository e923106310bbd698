// Package config wires viper-backed configuration into the CLI.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// InitConfig loads configuration from the config file and ARBOR_ environment
// variables.
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "arbor")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ARBOR")

	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "arbor"))

	// A missing config file is fine; defaults and env cover local use.
	_ = viper.ReadInConfig()
}

// DatabasePath returns the resolved location of the tree database.
func DatabasePath() string {
	if p := viper.GetString("database"); p != "" {
		return p
	}
	return filepath.Join(viper.GetString("data_dir"), "arbor.db")
}

// AddGlobalFlags attaches the persistent flags shared by every command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/arbor/config.yaml)")
	cmd.PersistentFlags().String("database", "", "path to the tree database (default is <data_dir>/arbor.db)")
	cobra.CheckErr(viper.BindPFlag("database", cmd.PersistentFlags().Lookup("database")))
}
