package query_test

import (
	"testing"
	"time"

	"github.com/desertwifi/wifimarket/db"
	"github.com/desertwifi/wifimarket/query"
)

func testNodes() []db.WifiNode {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []db.WifiNode{
		{NodeID: 1, Location: "Downtown Phoenix, AZ", PricePerHourETH: 0.001, PricePerHourUSD: 2.5, ReputationScore: 98, TotalConnections: 1247, IsActive: true, RegisteredAt: base.Add(1 * time.Hour)},
		{NodeID: 2, Location: "Scottsdale Mall, AZ", PricePerHourETH: 0.0008, PricePerHourUSD: 2.0, ReputationScore: 95, TotalConnections: 892, IsActive: true, RegisteredAt: base.Add(4 * time.Hour)},
		{NodeID: 3, Location: "Tempe Beach Park, AZ", PricePerHourETH: 0.0012, PricePerHourUSD: 3.0, ReputationScore: 92, TotalConnections: 654, IsActive: true, RegisteredAt: base.Add(2 * time.Hour)},
		{NodeID: 4, Location: "Mesa Community Center, AZ", PricePerHourETH: 0.0009, PricePerHourUSD: 2.25, ReputationScore: 88, TotalConnections: 421, IsActive: true, RegisteredAt: base.Add(3 * time.Hour)},
		{NodeID: 5, Location: "Chandler Fashion Center, AZ", PricePerHourETH: 0.0015, PricePerHourUSD: 3.75, ReputationScore: 85, TotalConnections: 312, IsActive: false, RegisteredAt: base},
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestFilter_ActiveOnly(t *testing.T) {
	results := query.Filter(testNodes(), query.Filters{ActiveOnly: true})

	for _, node := range results {
		if !node.IsActive {
			t.Errorf("expected only active nodes, got inactive node %d", node.NodeID)
		}
	}
	if len(results) != 4 {
		t.Errorf("expected 4 active nodes, got %d", len(results))
	}
}

func TestFilter_SearchQueryIsCaseInsensitive(t *testing.T) {
	results := query.Filter(testNodes(), query.Filters{SearchQuery: "SCOTTSDALE"})

	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	if results[0].NodeID != 2 {
		t.Errorf("expected node 2, got %d", results[0].NodeID)
	}
}

func TestFilter_PriceBoundsAreInclusive(t *testing.T) {
	results := query.Filter(testNodes(), query.Filters{
		MinPriceETH: floatPtr(0.0008),
		MaxPriceETH: floatPtr(0.0012),
	})

	if len(results) != 4 {
		t.Fatalf("expected 4 nodes inside bounds, got %d", len(results))
	}
	for _, node := range results {
		if node.PricePerHourETH < 0.0008 || node.PricePerHourETH > 0.0012 {
			t.Errorf("node %d price %f outside bounds", node.NodeID, node.PricePerHourETH)
		}
	}
}

func TestFilter_MinPriceUSD(t *testing.T) {
	results := query.Filter(testNodes(), query.Filters{MinPriceUSD: floatPtr(3.0)})

	if len(results) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(results))
	}
	for _, node := range results {
		if node.PricePerHourUSD < 3.0 {
			t.Errorf("node %d below usd bound", node.NodeID)
		}
	}
}

func TestFilter_CombinedFiltersAreANDed(t *testing.T) {
	results := query.Filter(testNodes(), query.Filters{
		ActiveOnly:    true,
		SearchQuery:   "az",
		MinReputation: intPtr(90),
		MaxPriceETH:   floatPtr(0.001),
	})

	for _, node := range results {
		if !node.IsActive || node.ReputationScore < 90 || node.PricePerHourETH > 0.001 {
			t.Errorf("node %d violates filter predicates", node.NodeID)
		}
	}
	if len(results) != 2 {
		t.Errorf("expected nodes 1 and 2, got %d results", len(results))
	}
}

func TestSort_PriceETHAscending(t *testing.T) {
	results := query.Sort(testNodes(), query.SortPriceETHAsc)

	for i := 1; i < len(results); i++ {
		if results[i-1].PricePerHourETH > results[i].PricePerHourETH {
			t.Fatalf("prices not non-decreasing at %d", i)
		}
	}
}

func TestSort_PriceUSDDescending(t *testing.T) {
	results := query.Sort(testNodes(), query.SortPriceUSDDesc)

	for i := 1; i < len(results); i++ {
		if results[i-1].PricePerHourUSD < results[i].PricePerHourUSD {
			t.Fatalf("prices not non-increasing at %d", i)
		}
	}
}

func TestSort_Newest(t *testing.T) {
	results := query.Sort(testNodes(), query.SortNewest)

	if results[0].NodeID != 2 {
		t.Errorf("expected most recently registered node first, got %d", results[0].NodeID)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].RegisteredAt.Before(results[i].RegisteredAt) {
			t.Fatalf("registration times not descending at %d", i)
		}
	}
}

func TestSort_UnknownOptionFallsBackToReputation(t *testing.T) {
	results := query.Sort(testNodes(), query.SortOption("bogus"))

	for i := 1; i < len(results); i++ {
		if results[i-1].ReputationScore < results[i].ReputationScore {
			t.Fatalf("reputation not descending at %d", i)
		}
	}
}

func TestSort_IsStable(t *testing.T) {
	nodes := []db.WifiNode{
		{NodeID: 10, PricePerHourETH: 0.001},
		{NodeID: 11, PricePerHourETH: 0.001},
		{NodeID: 12, PricePerHourETH: 0.001},
	}
	results := query.Sort(nodes, query.SortPriceETHAsc)

	for i, want := range []uint64{10, 11, 12} {
		if results[i].NodeID != want {
			t.Errorf("tie order changed: position %d has node %d", i, results[i].NodeID)
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	nodes := testNodes()
	query.Sort(nodes, query.SortPriceETHAsc)

	if nodes[0].NodeID != 1 {
		t.Error("input slice was reordered")
	}
}

func TestSearch_ActiveHighReputationByPrice(t *testing.T) {
	results := query.Search(testNodes(), query.Filters{
		ActiveOnly:    true,
		MinReputation: intPtr(90),
	}, query.SortPriceETHAsc)

	if len(results) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(results))
	}
	if results[0].PricePerHourETH != 0.0008 {
		t.Errorf("expected cheapest node first, got %f", results[0].PricePerHourETH)
	}
	for i, node := range results {
		if !node.IsActive || node.ReputationScore < 90 {
			t.Errorf("node %d violates filters", node.NodeID)
		}
		if i > 0 && results[i-1].PricePerHourETH > node.PricePerHourETH {
			t.Errorf("results not ascending by eth price at %d", i)
		}
	}
}

func TestSearch_EmptyInput(t *testing.T) {
	results := query.Search(nil, query.Filters{ActiveOnly: true}, query.SortPriceETHAsc)
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
}
