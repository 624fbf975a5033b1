package cli

import (
	"compress/gzip"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/harvest/internal/feed"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Download the feature reference list and write features.csv",
	Long: `Downloads the feature reference document and writes an id to English
name table. The convert stage uses it to resolve attribute names for
feature values whose documents carry only a feature id.`,
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, _ []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	client := feed.New(cfg.Feed, log, nil)
	body, err := client.Stream(cmd.Context(), cfg.Feed.FeaturesPath)
	if err != nil {
		return fmt.Errorf("download feature list: %w", err)
	}
	defer func() { _ = body.Close() }()

	gz, err := gzip.NewReader(body)
	if err != nil {
		return fmt.Errorf("feature list not gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	table, err := taxonomy.ParseFeatures(gz, log)
	if err != nil {
		return err
	}

	path := featuresCSVPath()
	if err := taxonomy.SaveTable(path, table); err != nil {
		return err
	}
	cmd.Printf("Wrote %d features to %s\n", len(table), path)
	return nil
}
