package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/observability"
	"github.com/jonathan/ats-matcher/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Show the skill taxonomy",
	Long:  "Prints the version, skill categories and term counts of the embedded taxonomy, or of --file after validating it.",
	RunE:  runTaxonomy,
}

var (
	taxonomyFile string
	taxonomyJSON bool
)

func init() {
	taxonomyCmd.Flags().StringVarP(&taxonomyFile, "file", "f", "", "Path to a taxonomy JSON file to validate and show")
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "Print the categories as JSON")

	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomy(_ *cobra.Command, _ []string) error {
	tax := taxonomy.Default()
	if taxonomyFile != "" {
		loaded, err := taxonomy.LoadFile(taxonomyFile)
		if err != nil {
			return err
		}
		tax = loaded
	}

	if taxonomyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"version":    tax.Version(),
			"categories": tax.Categories(),
			"stop_words": len(tax.StopWords()),
		})
	}

	observability.NewPrinter(os.Stdout).PrintTaxonomy(tax)
	return nil
}
