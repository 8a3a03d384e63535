package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/listr-birding/listr/internal/conf"
	"github.com/listr-birding/listr/internal/datastore"
	"github.com/listr-birding/listr/internal/pipeline"
)

// Command creates the ingest command which builds the frequency database
// from an eBird Basic Dataset export.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [export.txt]",
		Short: "Ingest an eBird Basic Dataset export",
		Long:  "Parse an eBird Basic Dataset export and rebuild the hotspot, daily count and rolling estimate tables.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(settings, args[0])
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().IntVar(&settings.Ingest.MinYearsObserved, "minyears", viper.GetInt("ingest.minyearsobserved"), "Minimum distinct years a species must be seen at a hotspot")
	cmd.Flags().IntVar(&settings.Ingest.BatchSize, "batchsize", viper.GetInt("ingest.batchsize"), "Number of rows per insert batch")

	if err := viper.BindPFlag("ingest.minyearsobserved", cmd.Flags().Lookup("minyears")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("ingest.batchsize", cmd.Flags().Lookup("batchsize")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runIngest(settings *conf.Settings, exportPath string) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer store.Close()

	return pipeline.Run(context.Background(), store, settings, exportPath)
}
