package taxonomy

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTargets reads the operator's target list: one category-name fragment
// per line, blank lines and #-comments ignored.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var targets []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read targets %s: %w", path, err)
	}
	return targets, nil
}

// Match returns the set of category IDs whose display name contains any of
// the target fragments, case-insensitively. Substring matching is the
// deliberate policy here: "Laptops" matches both "Laptops" and "Laptop Spare
// Parts". A fragment matching nothing contributes nothing.
func Match(categories map[string]string, fragments []string) map[string]bool {
	ids := make(map[string]bool)
	lowered := make([]string, len(fragments))
	for i, f := range fragments {
		lowered[i] = strings.ToLower(f)
	}

	for id, name := range categories {
		nameLower := strings.ToLower(name)
		for _, frag := range lowered {
			if frag != "" && strings.Contains(nameLower, frag) {
				ids[id] = true
				break
			}
		}
	}
	return ids
}
