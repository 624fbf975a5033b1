package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/harvest/internal/catalog"
	"github.com/kailas-cloud/harvest/internal/taxonomy"
)

var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete mirror directories no longer named in the target list",
	Long: `Compares the category directories under data/xml_source/ against the
current target list and deletes the ones whose category is no longer a
target. Lists the candidates and asks before deleting.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanYes, "yes", false, "delete without asking")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	targets, err := taxonomy.LoadTargets(cfg.Paths.TargetsFile)
	if err != nil {
		return fmt.Errorf("load target list: %w", err)
	}

	mirror := mirrorDirPath()
	entries, err := os.ReadDir(mirror)
	if err != nil {
		if os.IsNotExist(err) {
			cmd.Println("Nothing to clean: no mirror directory.")
			return nil
		}
		return fmt.Errorf("read %s: %w", mirror, err)
	}

	var stale []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !dirMatchesTargets(entry.Name(), targets) {
			stale = append(stale, entry.Name())
		}
	}
	if len(stale) == 0 {
		cmd.Println("Nothing to clean: every mirror directory matches a target.")
		return nil
	}

	cmd.Printf("Stale category directories under %s:\n", mirror)
	for _, name := range stale {
		cmd.Printf("  %s\n", name)
	}
	ok, err := confirmOverwrite(cmd, mirror, cleanYes)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted, nothing deleted")
	}

	for _, name := range stale {
		path := filepath.Join(mirror, name)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
		log.Info("mirror directory deleted", zap.String("path", path))
	}
	cmd.Printf("Deleted %d directories\n", len(stale))
	return nil
}

// dirMatchesTargets reports whether a sanitized mirror directory name still
// matches any target fragment. Fragments are compared in sanitized form so
// "Laptop Bags" matches the directory Laptop_Bags.
func dirMatchesTargets(dir string, targets []string) bool {
	dirLower := strings.ToLower(dir)
	for _, t := range targets {
		frag := strings.ToLower(catalog.SafeName(t))
		if frag != "" && strings.Contains(dirLower, frag) {
			return true
		}
	}
	return false
}
