package cli

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/metrics"
	"github.com/kailas-cloud/harvest/internal/normalize"
	"github.com/kailas-cloud/harvest/internal/pricing"
	"github.com/kailas-cloud/harvest/internal/segment"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var (
	convertOut    string
	convertLimit  int
	convertSample bool
	convertSeed   int64
	convertCap    int
	convertYes    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Normalize mirrored XML documents into NDJSON segments",
	Long: `Walks data/xml_source/ category by category, converts each product
document into a flat record and writes capped NDJSON segment files under
the output directory. Per-document failures are counted, never fatal.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertOut, "out", "json_products",
		"output subdirectory under the data dir")
	convertCmd.Flags().IntVar(&convertLimit, "limit", 0,
		"max documents per category (0 = all)")
	convertCmd.Flags().BoolVar(&convertSample, "sample", false,
		"pick --limit documents at random instead of the first N")
	convertCmd.Flags().Int64Var(&convertSeed, "seed", 0,
		"sampling seed (0 = randomize per run)")
	convertCmd.Flags().IntVar(&convertCap, "cap", segment.DefaultCap,
		"records per segment file")
	convertCmd.Flags().BoolVar(&convertYes, "yes", false,
		"overwrite the output directory without asking")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	outDir := dataPath(convertOut)
	if err := resetDir(cmd, outDir, convertYes); err != nil {
		return err
	}

	features, err := taxonomy.LoadTable(featuresCSVPath())
	if err != nil {
		log.Warn("feature table unavailable, attribute names fall back to ids", zap.Error(err))
		features = map[string]string{}
	}
	baselines, err := pricing.LoadBaselines(baselinesCSVPath())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	srv := metrics.Serve(cfg.Metrics.Port, reg, log)
	defer metrics.Shutdown(srv)

	mirror := mirrorDirPath()
	entries, err := os.ReadDir(mirror)
	if err != nil {
		return fmt.Errorf("read mirror dir (run \"harvest fetch\" first): %w", err)
	}

	seed := convertSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	norm := normalize.New(features, baselines)
	var converted, skipped, errored, written int

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := filepath.Glob(filepath.Join(mirror, entry.Name(), "*.xml"))
		if err != nil {
			return fmt.Errorf("glob %s: %w", entry.Name(), err)
		}
		files = pickFiles(files, convertLimit, convertSample, rng)
		if len(files) == 0 {
			continue
		}

		// The mirror path sanitized the category name; undo the space
		// substitution for the fallback category label.
		fallback := strings.ReplaceAll(entry.Name(), "_", " ")
		w := segment.NewWriter(filepath.Join(outDir, entry.Name()), convertCap)

		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				log.Warn("mirror file unreadable", zap.String("file", file), zap.Error(err))
				errored++
				met.ConvertOutcome("errored")
				continue
			}

			res := norm.Normalize(data, fallback)
			met.ConvertOutcome(res.Outcome.String())
			switch res.Outcome {
			case normalize.Converted:
				if err := w.Write(res.Record); err != nil {
					_ = w.Close()
					return err
				}
				met.RecordWritten()
				converted++
			case normalize.Skipped:
				log.Debug("document skipped",
					zap.String("file", file), zap.String("reason", res.Reason))
				skipped++
			default:
				log.Debug("document unparseable",
					zap.String("file", file), zap.Error(res.Err))
				errored++
			}
		}

		written += w.Written()
		if err := w.Close(); err != nil {
			return err
		}
		log.Info("category converted",
			zap.String("category", entry.Name()),
			zap.Int("documents", len(files)),
			zap.Int("records", w.Written()),
		)
	}

	cmd.Printf("Converted %d, skipped %d, errored %d; %d records in %s\n",
		converted, skipped, errored, written, outDir)
	return nil
}

// resetDir clears path after confirmation when it already holds output.
func resetDir(cmd *cobra.Command, path string, yes bool) error {
	entries, err := os.ReadDir(path)
	if err != nil || len(entries) == 0 {
		return nil
	}

	ok, err := confirmOverwrite(cmd, path, yes)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted, %s left untouched", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("clear %s: %w", path, err)
	}
	return nil
}

// pickFiles applies the per-category document limit, either the first n in
// name order or a random sample.
func pickFiles(files []string, n int, sample bool, rng *rand.Rand) []string {
	if n <= 0 || len(files) <= n {
		return files
	}
	if sample {
		rng.Shuffle(len(files), func(i, j int) {
			files[i], files[j] = files[j], files[i]
		})
	}
	return files[:n]
}
