package db

import "time"

// WifiNode is a locally cached view of a marketplace access point. The
// node_id is the contract-side identifier; id is local to the store.
type WifiNode struct {
	ID               string    `json:"id"`
	NodeID           uint64    `json:"node_id"`
	OwnerAddress     string    `json:"owner_address"`
	Location         string    `json:"location"`
	PricePerHourETH  float64   `json:"price_per_hour_eth"`
	PricePerHourUSD  float64   `json:"price_per_hour_usd"`
	ReputationScore  int       `json:"reputation_score"`
	TotalConnections int       `json:"total_connections"`
	IsActive         bool      `json:"is_active"`
	Upvotes          int       `json:"upvotes"`
	Downvotes        int       `json:"downvotes"`
	RegisteredAt     time.Time `json:"registered_at"`
	LastSyncedAt     time.Time `json:"last_synced_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NodePatch is a partial update applied to a stored node. Nil fields are
// left untouched.
type NodePatch struct {
	Location         *string
	PricePerHourETH  *float64
	PricePerHourUSD  *float64
	ReputationScore  *int
	TotalConnections *int
	IsActive         *bool
	Upvotes          *int
	Downvotes        *int
	LastSyncedAt     *time.Time
}

// SyncStatus summarizes the local cache for the status endpoint.
type SyncStatus struct {
	LastSyncedAt time.Time `json:"last_synced_at"`
	TotalNodes   int       `json:"total_nodes"`
}
