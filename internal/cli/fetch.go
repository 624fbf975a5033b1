package cli

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/catalog"
	"github.com/kailas-cloud/harvest/internal/feed"
	"github.com/kailas-cloud/harvest/internal/fetcher"
	"github.com/kailas-cloud/harvest/internal/index"
	"github.com/kailas-cloud/harvest/internal/metrics"
	"github.com/kailas-cloud/harvest/internal/resume"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var fetchLimit int

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Mirror product XML documents for the target categories",
	Long: `Reads the target list, matches it against the category taxonomy,
scans the file index for matching product documents and mirrors them
under data/xml_source/<category>/ with a bounded worker pool. Already
mirrored or already persisted products are skipped without a request,
so an interrupted run can simply be restarted.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0,
		"max documents per category (0 uses fetch.limit_per_category)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}
	ctx := cmd.Context()

	targets, err := taxonomy.LoadTargets(cfg.Paths.TargetsFile)
	if err != nil {
		return fmt.Errorf("load target list (one category-name fragment per line): %w", err)
	}
	if len(targets) == 0 {
		return fmt.Errorf("target list %s is empty", cfg.Paths.TargetsFile)
	}

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	srv := metrics.Serve(cfg.Metrics.Port, reg, log)
	defer metrics.Shutdown(srv)

	client := feed.New(cfg.Feed, log, met)

	catTable, err := ensureCategories(ctx, client)
	if err != nil {
		return err
	}
	targetIDs := taxonomy.Match(catTable, targets)
	if len(targetIDs) == 0 {
		return fmt.Errorf("no category matches any of the %d target fragments", len(targets))
	}
	log.Info("targets resolved",
		zap.Int("fragments", len(targets)),
		zap.Int("categories", len(targetIDs)),
	)

	indexPath, err := ensureIndex(ctx, client)
	if err != nil {
		return err
	}

	seen, err := openSeenSet(ctx)
	if err != nil {
		return err
	}
	defer seen.Close()

	jobs, err := collectJobs(indexPath, targetIDs, catTable, perCategoryLimit())
	if err != nil {
		return err
	}
	log.Info("index scan complete", zap.Int("jobs", len(jobs)))

	tally := fetcher.New(client, seen, cfg.Fetch.Workers, log, met).Run(ctx, jobs)
	cmd.Printf("Downloaded %d, restricted %d, failed %d, skipped %d\n",
		tally.Downloaded, tally.Restricted, tally.Failed, tally.Skipped)
	return ctx.Err()
}

// ensureCategories loads the cached category table, fetching and caching it
// when this is the first run.
func ensureCategories(ctx context.Context, client *feed.Client) (map[string]string, error) {
	path := categoriesCSVPath()
	if table, err := taxonomy.LoadTable(path); err == nil {
		return table, nil
	}

	table := fetchCategoryTable(ctx, client)
	if len(table) == 0 {
		return nil, fmt.Errorf("no cached category table and taxonomy download failed")
	}
	if err := taxonomy.SaveTable(path, table); err != nil {
		return nil, err
	}
	return table, nil
}

// openSeenSet builds the resume driver: a scan of the NDJSON output by
// default, or a shared Valkey set.
func openSeenSet(ctx context.Context) (resume.SeenSet, error) {
	if cfg.Resume.Driver == "valkey" {
		return resume.NewValkeySet(ctx, resume.ValkeyConfig{
			Addrs:     cfg.Resume.Addrs,
			Password:  cfg.Resume.Password,
			KeyPrefix: cfg.Resume.KeyPrefix,
		})
	}
	return resume.ScanSegments(dataPath("json_products"), log)
}

func perCategoryLimit() int {
	if fetchLimit > 0 {
		return fetchLimit
	}
	return cfg.Fetch.LimitPerCategory
}

// collectJobs scans the index for target-category entries, capping each
// category at limit entries (0 = unlimited). The mirror path groups documents
// by sanitized category name.
func collectJobs(indexPath string, targetIDs map[string]bool, names map[string]string, limit int) ([]fetcher.Job, error) {
	mirror := mirrorDirPath()
	perCategory := make(map[string]int)

	var jobs []fetcher.Job
	err := index.NewScanner(indexPath, log).Scan(targetIDs, func(e catalog.IndexEntry) error {
		if limit > 0 && perCategory[e.CategoryID] >= limit {
			return nil
		}
		perCategory[e.CategoryID]++

		name, ok := names[e.CategoryID]
		if !ok {
			name = catalog.UnknownCategory
		}
		jobs = append(jobs, fetcher.Job{
			ProductID: e.ProductID,
			Path:      e.Path,
			LocalPath: filepath.Join(mirror, catalog.SafeName(name), path.Base(e.Path)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
