// Package cli wires the harvest pipeline stages into cobra subcommands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/config"
	logpkg "github.com/kailas-cloud/harvest/internal/logger"
)

var (
	cfg config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Product-catalog feed harvester",
	Long: `harvest pulls a third-party product-catalog feed (category taxonomy,
file index, per-product XML documents), normalizes the XML into NDJSON
records and curates a balanced demo sample from the result.

Typical pipeline:

  harvest categories && harvest features && harvest prices
  harvest fetch
  harvest convert --yes
  harvest combine json_products --yes
  harvest curate --input-path data/products_combined`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		env := config.GetEnv()
		c, err := config.Load(env)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// dataPath joins parts onto the configured data directory.
func dataPath(parts ...string) string {
	return filepath.Join(append([]string{cfg.Paths.DataDir}, parts...)...)
}

func categoriesCSVPath() string { return dataPath("categories.csv") }
func featuresCSVPath() string   { return dataPath("features.csv") }
func baselinesCSVPath() string  { return dataPath("price_baselines.csv") }
func indexFilePath() string     { return dataPath("files.index.xml.gz") }
func mirrorDirPath() string     { return dataPath("xml_source") }

// requireCredentials halts a command early when the upstream credentials are
// not configured, before any network or filesystem work starts.
func requireCredentials() error {
	if !cfg.HasCredentials() {
		return fmt.Errorf("upstream credentials missing: set feed.username/feed.password " +
			"(FEED_USER/FEED_PASS via config expansion)")
	}
	return nil
}

// confirmOverwrite asks the operator before clobbering path. --yes bypasses
// the prompt for unattended runs.
func confirmOverwrite(cmd *cobra.Command, path string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	cmd.Printf("Output directory %s exists. Overwrite? [y/N]: ", path)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
