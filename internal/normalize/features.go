package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// Boolean-like presentation values are not worth surfacing as specs.
var booleanTokens = map[string]bool{
	"Y": true, "N": true, "Yes": true, "No": true,
}

// Structural separators reserved by downstream consumers; stripped from
// attribute names.
var nameSanitizer = strings.NewReplacer("|", "", ".", "")

// nameStrategy is one step of the feature-name resolution chain.
type nameStrategy func(f *productFeature) string

// nameStrategies builds the ordered resolver chain: the nested name node,
// then the reference table, then a synthesized fallback. The first non-empty
// answer wins.
func (n *Normalizer) nameStrategies() []nameStrategy {
	return []nameStrategy{
		func(f *productFeature) string {
			if f.Feature != nil && f.Feature.Name != nil {
				return f.Feature.Name.Value
			}
			return ""
		},
		func(f *productFeature) string {
			return n.features[f.LocalID]
		},
		func(f *productFeature) string {
			return fmt.Sprintf("Feature_%s", f.LocalID)
		},
	}
}

func (n *Normalizer) resolveFeatureName(f *productFeature) string {
	for _, strategy := range n.nameStrategies() {
		if name := strategy(f); name != "" {
			return name
		}
	}
	return ""
}

// specGroup collects the rendered feature lines of one display group.
type specGroup struct {
	name  string
	order int
	items []string
}

const (
	defaultGroupOrder = 999
	generalGroupOrder = 9999
	generalGroupName  = "General"
)

// extractFeatures walks the product's features, filling the attribute map
// and the grouped spec lines for the description. Duplicate attribute names
// overwrite earlier values; the output shape is a map, not a list.
func (n *Normalizer) extractFeatures(p *productElem) (map[string]string, []*specGroup) {
	groupRefs := groupTable(p)

	attrs := make(map[string]string)
	var groups []*specGroup
	byName := make(map[string]*specGroup)

	for i := range p.Features {
		f := &p.Features[i]
		value := f.PresentationValue
		if value == "" || booleanTokens[value] {
			continue
		}

		name := n.resolveFeatureName(f)
		attrs[nameSanitizer.Replace(name)] = value

		line := fmt.Sprintf("%s: %s", name, value)
		gName, gOrder := generalGroupName, generalGroupOrder
		if ref, ok := groupRefs[f.GroupID]; ok {
			gName, gOrder = ref.name, ref.order
		}

		g, ok := byName[gName]
		if !ok {
			g = &specGroup{name: gName, order: gOrder}
			byName[gName] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, line)
	}

	// Sort by declared display order; encounter order breaks ties.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].order < groups[j].order
	})
	return attrs, groups
}

type groupRef struct {
	name  string
	order int
}

// groupTable maps CategoryFeatureGroup ids to display name and order.
func groupTable(p *productElem) map[string]groupRef {
	table := make(map[string]groupRef, len(p.FeatureGroups))
	for _, g := range p.FeatureGroups {
		if g.ID == "" || g.FeatureGroup == nil || g.FeatureGroup.Name == nil {
			continue
		}
		name := g.FeatureGroup.Name.Value
		if name == "" {
			continue
		}
		order := defaultGroupOrder
		if v, err := parseOrder(g.No); err == nil {
			order = v
		}
		table[g.ID] = groupRef{name: name, order: order}
	}
	return table
}

func parseOrder(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}
