package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Node mirrors the DesertWifiNodesV2.Node tuple.
type Node struct {
	Owner             common.Address
	Location          string
	PricePerHourETH   *big.Int
	PricePerHourUSD   *big.Int
	TotalEarningsETH  *big.Int
	TotalEarningsUSDC *big.Int
	TotalEarningsUSDT *big.Int
	IsActive          bool
	RegisteredAt      *big.Int
	ReputationScore   *big.Int
	TotalConnections  *big.Int
	Upvotes           *big.Int
	Downvotes         *big.Int
}

// Payment mirrors the DesertWifiNodesV2.Payment tuple. Immutable once
// observed; display data only.
type Payment struct {
	User        common.Address
	NodeId      *big.Int
	Amount      *big.Int
	Duration    *big.Int
	Timestamp   *big.Int
	PaymentType uint8
}

// NetworkStats is the unpacked getNetworkStats result.
type NetworkStats struct {
	TotalNodes      *big.Int
	ActiveNodes     *big.Int
	TotalVolumeETH  *big.Int
	TotalVolumeUSDC *big.Int
	TotalVolumeUSDT *big.Int
	TotalUsers      *big.Int
}

// ProposalDetails is the unpacked getProposalDetails result.
type ProposalDetails struct {
	Proposer     common.Address
	Description  string
	TargetNodeId *big.Int
	ProposalType uint8
	NewValue     *big.Int
	VotesFor     *big.Int
	VotesAgainst *big.Int
	CreatedAt    *big.Int
	ExpiresAt    *big.Int
	Executed     bool
}
