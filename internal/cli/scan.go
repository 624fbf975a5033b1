package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/feed"
	"github.com/kailas-cloud/harvest/internal/index"
	"github.com/kailas-cloud/harvest/internal/report"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var scanTop int
var scanMarkdown bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the file index and report per-category document counts",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTop, "top", 20, "number of categories to print")
	scanCmd.Flags().BoolVar(&scanMarkdown, "markdown", false, "also write category_counts.md")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	client := feed.New(cfg.Feed, log, nil)
	indexPath, err := ensureIndex(cmd.Context(), client)
	if err != nil {
		return err
	}

	counts, err := index.NewScanner(indexPath, log).Counts()
	if err != nil {
		return err
	}

	names, err := taxonomy.LoadTable(categoriesCSVPath())
	if err != nil {
		log.Warn("category table unavailable, names will be Unknown", zap.Error(err))
		names = map[string]string{}
	}

	rows := report.SortedRows(counts, names)
	csvPath := dataPath("category_counts.csv")
	if err := report.WriteCSV(csvPath, rows); err != nil {
		return err
	}
	if scanMarkdown {
		if err := report.WriteMarkdown(dataPath("category_counts.md"), rows); err != nil {
			return err
		}
	}

	cmd.Printf("%d categories in index, full counts in %s\n\n", len(rows), csvPath)
	cmd.Print(report.Table(rows, scanTop))
	return nil
}

// ensureIndex returns the path of a plausible local index copy, downloading
// (or re-downloading, when a previous run left a truncated file) as needed.
func ensureIndex(ctx context.Context, client *feed.Client) (string, error) {
	path := indexFilePath()
	minBytes := int64(cfg.Fetch.MinIndexSizeMB) * 1024 * 1024

	if index.PlausibleSize(path, minBytes) {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil {
		log.Warn("index file implausibly small, re-downloading",
			zap.String("path", path), zap.Int64("min_bytes", minBytes))
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("remove truncated index: %w", err)
		}
	}

	if err := requireCredentials(); err != nil {
		return "", err
	}
	if err := client.Download(ctx, cfg.Feed.IndexPath, path); err != nil {
		return "", fmt.Errorf("download index: %w", err)
	}
	return path, nil
}
