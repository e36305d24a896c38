// Package query filters and sorts cached node lists. Everything here is
// pure: no storage access, no side effects.
package query

import (
	"sort"
	"strings"

	"github.com/desertwifi/wifimarket/db"
)

// Filters are AND-combined; nil/zero fields are not applied.
type Filters struct {
	SearchQuery   string
	MinPriceETH   *float64
	MaxPriceETH   *float64
	MinPriceUSD   *float64
	MaxPriceUSD   *float64
	MinReputation *int
	ActiveOnly    bool
}

type SortOption string

const (
	SortPriceETHAsc     SortOption = "price_eth_asc"
	SortPriceETHDesc    SortOption = "price_eth_desc"
	SortPriceUSDAsc     SortOption = "price_usd_asc"
	SortPriceUSDDesc    SortOption = "price_usd_desc"
	SortReputationDesc  SortOption = "reputation_desc"
	SortConnectionsDesc SortOption = "connections_desc"
	SortNewest          SortOption = "newest"
)

// Search returns the nodes matching filters, ordered by sortBy. Ties keep
// input order. Unknown sort options fall back to reputation_desc.
func Search(nodes []db.WifiNode, filters Filters, sortBy SortOption) []db.WifiNode {
	return Sort(Filter(nodes, filters), sortBy)
}

func Filter(nodes []db.WifiNode, filters Filters) []db.WifiNode {
	matched := make([]db.WifiNode, 0, len(nodes))
	needle := strings.ToLower(filters.SearchQuery)

	for _, node := range nodes {
		if filters.ActiveOnly && !node.IsActive {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(node.Location), needle) {
			continue
		}
		if filters.MinPriceETH != nil && node.PricePerHourETH < *filters.MinPriceETH {
			continue
		}
		if filters.MaxPriceETH != nil && node.PricePerHourETH > *filters.MaxPriceETH {
			continue
		}
		if filters.MinPriceUSD != nil && node.PricePerHourUSD < *filters.MinPriceUSD {
			continue
		}
		if filters.MaxPriceUSD != nil && node.PricePerHourUSD > *filters.MaxPriceUSD {
			continue
		}
		if filters.MinReputation != nil && node.ReputationScore < *filters.MinReputation {
			continue
		}
		matched = append(matched, node)
	}
	return matched
}

func Sort(nodes []db.WifiNode, sortBy SortOption) []db.WifiNode {
	sorted := make([]db.WifiNode, len(nodes))
	copy(sorted, nodes)

	var less func(a, b *db.WifiNode) bool
	switch sortBy {
	case SortPriceETHAsc:
		less = func(a, b *db.WifiNode) bool { return a.PricePerHourETH < b.PricePerHourETH }
	case SortPriceETHDesc:
		less = func(a, b *db.WifiNode) bool { return a.PricePerHourETH > b.PricePerHourETH }
	case SortPriceUSDAsc:
		less = func(a, b *db.WifiNode) bool { return a.PricePerHourUSD < b.PricePerHourUSD }
	case SortPriceUSDDesc:
		less = func(a, b *db.WifiNode) bool { return a.PricePerHourUSD > b.PricePerHourUSD }
	case SortConnectionsDesc:
		less = func(a, b *db.WifiNode) bool { return a.TotalConnections > b.TotalConnections }
	case SortNewest:
		less = func(a, b *db.WifiNode) bool { return a.RegisteredAt.After(b.RegisteredAt) }
	default:
		less = func(a, b *db.WifiNode) bool { return a.ReputationScore > b.ReputationScore }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})
	return sorted
}
