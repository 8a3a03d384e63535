package optimize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	api "github.com/listr-birding/listr/internal/api/v2"
	"github.com/listr-birding/listr/internal/conf"
	"github.com/listr-birding/listr/internal/datastore"
	"github.com/listr-birding/listr/internal/ebird"
	"github.com/listr-birding/listr/internal/optimizer"
)

const dateLayout = "2006-01-02"

// Command creates the optimize command which runs one hotspot optimization
// from the command line and prints the result as JSON.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		startDate    string
		endDate      string
		k            int
		county       string
		state        string
		lifeListPath string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Recommend hotspots for a date range",
		Long:  "Select the hotspots that maximize the expected number of new life list species for a visit window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(settings, startDate, endDate, k, county, state, lifeListPath)
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start of the visit window, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end", "", "End of the visit window, YYYY-MM-DD")
	cmd.Flags().IntVarP(&k, "hotspots", "k", 0, "Number of hotspots to select, defaults to the configured value")
	cmd.Flags().StringVar(&county, "county", "", "Restrict candidates to a county")
	cmd.Flags().StringVar(&state, "state", "", "Restrict candidates to a state")
	cmd.Flags().StringVar(&lifeListPath, "lifelist", "", "Path to a My eBird Data CSV, its species are excluded")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runOptimize(settings *conf.Settings, startDate, endDate string, k int, county, state, lifeListPath string) error {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", endDate)
	}

	var lifeList []string
	if lifeListPath != "" {
		entries, err := ebird.ParseLifeListFile(lifeListPath)
		if err != nil {
			return fmt.Errorf("parsing life list: %w", err)
		}
		lifeList = ebird.SpeciesNames(entries)
	}

	if k <= 0 {
		k = settings.Optimizer.DefaultK
	}
	if maxK := settings.Optimizer.MaxK; maxK > 0 && k > maxK {
		k = maxK
	}

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer store.Close()

	result, err := optimizer.Optimize(context.Background(), store, optimizer.Request{
		LifeList:  lifeList,
		StartDate: start,
		EndDate:   end,
		K:         k,
		County:    county,
		State:     state,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(api.NewOptimizeResponse(result))
}
