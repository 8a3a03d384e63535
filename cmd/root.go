package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/listr-birding/listr/cmd/ingest"
	"github.com/listr-birding/listr/cmd/lifelist"
	"github.com/listr-birding/listr/cmd/optimize"
	"github.com/listr-birding/listr/cmd/serve"
	"github.com/listr-birding/listr/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listr",
		Short: "Listr CLI",
		Long:  "Recommend birding hotspots that maximize the expected number of new species for a life list.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		serve.Command(settings),
		ingest.Command(settings),
		lifelist.Command(),
		optimize.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Sync the settings struct with viper so command line arguments
		// take precedence over the config file
		return viper.Unmarshal(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Database.Path, "database", viper.GetString("database.path"), "Path to the SQLite database file")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("error binding debug flag: %w", err)
	}
	if err := viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("database")); err != nil {
		return fmt.Errorf("error binding database flag: %w", err)
	}

	return nil
}
