package lifelist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/listr-birding/listr/internal/ebird"
)

// Command creates the lifelist command which converts a "My eBird Data"
// CSV export into the species name list the optimize API accepts.
func Command() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "lifelist [MyEBirdData.csv]",
		Short: "Convert a My eBird Data export into a life list",
		Long:  "Extract the distinct species from a personal eBird CSV export as a JSON array of common names.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifeList(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the life list to a file instead of stdout")

	return cmd
}

func runLifeList(inputPath, outputPath string) error {
	entries, err := ebird.ParseLifeListFile(inputPath)
	if err != nil {
		return fmt.Errorf("parsing life list: %w", err)
	}

	data, err := json.MarshalIndent(ebird.SpeciesNames(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding life list: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing life list: %w", err)
	}

	fmt.Printf("Wrote %d species to %s\n", len(entries), outputPath)
	return nil
}
