package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/catalog"
	"github.com/kailas-cloud/harvest/internal/export"
	"github.com/kailas-cloud/harvest/internal/segment"
)

var (
	combineOut     string
	combineYes     bool
	combineParquet bool
)

var combineCmd = &cobra.Command{
	Use:   "combine [input-subdir]",
	Short: "Merge a category's NDJSON segments into one deduplicated file",
	Long: `Merges each category's segment files, in sequence order and with
duplicate ids dropped, into <category>.ndjson under the output
directory. --parquet additionally writes a columnar copy per category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().StringVar(&combineOut, "output-dir", "products_combined",
		"output subdirectory under the data dir")
	combineCmd.Flags().BoolVar(&combineYes, "yes", false,
		"overwrite the output directory without asking")
	combineCmd.Flags().BoolVar(&combineParquet, "parquet", false,
		"also write a Parquet file per category")
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	inSubdir := "json_products"
	if len(args) == 1 {
		inSubdir = args[0]
	}
	inDir := dataPath(inSubdir)
	outDir := dataPath(combineOut)

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("read %s (run \"harvest convert\" first): %w", inDir, err)
	}
	if err := resetDir(cmd, outDir, combineYes); err != nil {
		return err
	}

	var totalWritten, totalDupes, categories int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		outPath := filepath.Join(outDir, entry.Name()+".ndjson")
		written, dupes, err := segment.Combine(filepath.Join(inDir, entry.Name()), outPath)
		if err != nil {
			return err
		}
		if written == 0 {
			_ = os.Remove(outPath)
			continue
		}
		categories++
		totalWritten += written
		totalDupes += dupes

		if combineParquet {
			if err := writeParquetCopy(outPath); err != nil {
				return err
			}
		}
		log.Info("category combined",
			zap.String("category", entry.Name()),
			zap.Int("records", written),
			zap.Int("duplicates", dupes),
		)
	}

	cmd.Printf("Combined %d categories: %d records (%d duplicates dropped) in %s\n",
		categories, totalWritten, totalDupes, outDir)
	return nil
}

// writeParquetCopy re-reads a combined NDJSON file and writes it next to
// itself with a .parquet extension.
func writeParquetCopy(ndjsonPath string) error {
	var records []catalog.Record
	if _, err := segment.ReadFile(ndjsonPath, func(rec catalog.Record) {
		records = append(records, rec)
	}); err != nil {
		return err
	}

	parquetPath := ndjsonPath[:len(ndjsonPath)-len(".ndjson")] + ".parquet"
	return export.WriteParquet(parquetPath, records)
}
