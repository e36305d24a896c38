package contract

// Chain ids and preset endpoints for the two Scroll deployments.
const (
	ScrollSepoliaChainID uint64 = 534351
	ScrollMainnetChainID uint64 = 534352

	ScrollSepoliaRPC = "https://sepolia-rpc.scroll.io"
	ScrollMainnetRPC = "https://rpc.scroll.io"

	ScrollSepoliaExplorer = "https://sepolia.scrollscan.com/"
	ScrollMainnetExplorer = "https://scrollscan.com/"
)

// Network bundles the per-chain endpoints.
type Network struct {
	ChainID       uint64
	Name          string
	RPCUrl        string
	BlockExplorer string
}

// NetworkForChainID selects the preset endpoints for a chain id. Anything
// other than mainnet falls back to Sepolia, matching the deployment config.
func NetworkForChainID(chainID uint64, name string) Network {
	if chainID == ScrollMainnetChainID {
		if name == "" {
			name = "Scroll Mainnet"
		}
		return Network{
			ChainID:       ScrollMainnetChainID,
			Name:          name,
			RPCUrl:        ScrollMainnetRPC,
			BlockExplorer: ScrollMainnetExplorer,
		}
	}
	if name == "" {
		name = "Scroll Sepolia"
	}
	return Network{
		ChainID:       ScrollSepoliaChainID,
		Name:          name,
		RPCUrl:        ScrollSepoliaRPC,
		BlockExplorer: ScrollSepoliaExplorer,
	}
}

// PaymentType tags how a payment was settled.
type PaymentType uint8

const (
	PaymentETH PaymentType = iota
	PaymentUSDC
	PaymentUSDT
)

func (p PaymentType) String() string {
	switch p {
	case PaymentETH:
		return "ETH"
	case PaymentUSDC:
		return "USDC"
	case PaymentUSDT:
		return "USDT"
	}
	return "unknown"
}

// ProposalType tags governance proposals.
type ProposalType uint8

const (
	ProposalUpdateTreasuryFee ProposalType = iota
	ProposalRemoveNode
	ProposalUpdateMinReputation
	ProposalTreasuryWithdrawal
)
