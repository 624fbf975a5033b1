package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/harvest/internal/pricing"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Generate keyword-rule baseline prices for every known category",
	Long: `Matches every category name in categories.csv against the keyword
rule table and writes price_baselines.csv. The convert stage reads the
baselines when estimating record prices; without the file it falls back
to a built-in rule lookup per category name.`,
	RunE: runPrices,
}

func init() {
	rootCmd.AddCommand(pricesCmd)
}

func runPrices(cmd *cobra.Command, _ []string) error {
	table, err := taxonomy.LoadTable(categoriesCSVPath())
	if err != nil {
		return fmt.Errorf("load categories (run \"harvest categories\" first): %w", err)
	}

	path := baselinesCSVPath()
	matched, total, err := pricing.Generate(table, path)
	if err != nil {
		return err
	}
	cmd.Printf("Wrote %d baselines to %s (%d matched a keyword rule)\n", total, path, matched)
	return nil
}
