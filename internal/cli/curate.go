package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/catalog"
	"github.com/kailas-cloud/harvest/internal/curate"
	"github.com/kailas-cloud/harvest/internal/segment"
)

var (
	curateInput    string
	curateLimit    int
	curateKeywords []string
	curateOutput   string
	curateSeed     int64
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Draw a balanced demo sample across categories",
	Long: `Reads combined (or segmented) NDJSON output and draws up to --limit
records per category, preferring an even spread across the keyword
buckets before topping up from the rest. The sample is written as one
NDJSON file.`,
	RunE: runCurate,
}

func init() {
	curateCmd.Flags().StringVar(&curateInput, "input-path", "",
		"directory holding per-category NDJSON output (required)")
	curateCmd.Flags().IntVar(&curateLimit, "limit", 15,
		"max records per category")
	curateCmd.Flags().StringSliceVar(&curateKeywords, "keywords",
		[]string{"iphone", "samsung", "nokia", "macbook"},
		"keyword buckets to balance across")
	curateCmd.Flags().StringVar(&curateOutput, "output", "",
		"output file (default <data-dir>/demo_catalog.ndjson)")
	curateCmd.Flags().Int64Var(&curateSeed, "seed", 0,
		"sampling seed (0 = randomize per run)")
	_ = curateCmd.MarkFlagRequired("input-path")
	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, _ []string) error {
	output := curateOutput
	if output == "" {
		output = dataPath("demo_catalog.ndjson")
	}

	groups, err := recordGroups(curateInput)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return fmt.Errorf("no NDJSON records under %s", curateInput)
	}

	sampler := curate.New(curateKeywords, curateLimit, curateSeed)
	var sample []catalog.Record
	for name, records := range groups {
		picked := sampler.Sample(records)
		sample = append(sample, picked...)
		log.Info("category sampled",
			zap.String("category", name),
			zap.Int("candidates", len(records)),
			zap.Int("picked", len(picked)),
		)
	}

	if err := writeNDJSON(output, sample); err != nil {
		return err
	}
	cmd.Printf("Curated %d records from %d categories into %s\n",
		len(sample), len(groups), output)
	return nil
}

// recordGroups loads per-category record slices from dir. Each subdirectory
// is one category (segmented convert output); each top-level .ndjson file is
// one category (combined output). Both layouts can coexist.
func recordGroups(dir string) (map[string][]catalog.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	groups := make(map[string][]catalog.Record)
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			files, err := filepath.Glob(filepath.Join(dir, entry.Name(), "*.ndjson"))
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", entry.Name(), err)
			}
			for _, file := range files {
				if err := appendRecords(groups, entry.Name(), file); err != nil {
					return nil, err
				}
			}
		case strings.HasSuffix(entry.Name(), ".ndjson"):
			name := strings.TrimSuffix(entry.Name(), ".ndjson")
			if err := appendRecords(groups, name, filepath.Join(dir, entry.Name())); err != nil {
				return nil, err
			}
		}
	}
	return groups, nil
}

func appendRecords(groups map[string][]catalog.Record, name, file string) error {
	_, err := segment.ReadFile(file, func(rec catalog.Record) {
		groups[name] = append(groups[name], rec)
	})
	return err
}

func writeNDJSON(path string, records []catalog.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.ID, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
