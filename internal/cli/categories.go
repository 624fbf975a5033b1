package cli

import (
	"compress/gzip"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/feed"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Download the category taxonomy and write categories.csv",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	client := feed.New(cfg.Feed, log, nil)
	table := fetchCategoryTable(cmd.Context(), client)
	if len(table) == 0 {
		return fmt.Errorf("category taxonomy yielded no categories")
	}

	path := categoriesCSVPath()
	if err := taxonomy.SaveTable(path, table); err != nil {
		return err
	}
	cmd.Printf("Wrote %d categories to %s\n", len(table), path)
	return nil
}

// fetchCategoryTable streams and parses the category taxonomy. Failures
// return whatever partial table was parsed; the caller decides whether an
// empty table is fatal for its stage.
func fetchCategoryTable(ctx context.Context, client *feed.Client) map[string]string {
	body, err := client.Stream(ctx, cfg.Feed.CategoriesPath)
	if err != nil {
		log.Warn("category taxonomy download failed", zap.Error(err))
		return map[string]string{}
	}
	defer func() { _ = body.Close() }()

	gz, err := gzip.NewReader(body)
	if err != nil {
		log.Warn("category taxonomy not gzip", zap.Error(err))
		return map[string]string{}
	}
	defer func() { _ = gz.Close() }()

	table, err := taxonomy.ParseCategories(gz, log)
	if err != nil {
		log.Warn("category taxonomy parse failed", zap.Int("partial", len(table)), zap.Error(err))
	}
	return table
}
