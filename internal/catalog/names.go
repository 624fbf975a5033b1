package catalog

import "strings"

var safeNameReplacer = strings.NewReplacer(
	" ", "_",
	"/", "-",
	"&", "and",
)

// SafeName converts a category display name into a filesystem-safe directory
// name. The mapping must stay stable across commands: fetch writes mirror
// directories with it and convert/clean resolve them the same way.
func SafeName(categoryName string) string {
	return safeNameReplacer.Replace(strings.TrimSpace(categoryName))
}
