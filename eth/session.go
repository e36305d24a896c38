package eth

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/contract"
)

// The deployed V2 contract settles every payment against node index 1
// regardless of the requested node. Callers still pass the node id they
// mean so the signatures survive a contract-side fix; do not forward it
// without checking the contract's node indexing first.
const settlementNodeIndex = 1

type Config struct {
	RPCUrl          string `yaml:"RPCUrl" env:"ETH_RPC_URL" env-description:"Ethereum RPC URL"`
	ContractAddress string `yaml:"ContractAddress" env:"CONTRACT_V2_ADDRESS" env-description:"Marketplace contract address"`
	USDCAddress     string `yaml:"USDCAddress" env:"USDC_ADDRESS" env-description:"USDC token address"`
	USDTAddress     string `yaml:"USDTAddress" env:"USDT_ADDRESS" env-description:"USDT token address"`
	ChainID         uint64 `yaml:"ChainID" env:"NETWORK_CHAIN_ID" env-description:"Target chain id" env-default:"534352"`
	NetworkName     string `yaml:"NetworkName" env:"NETWORK_NAME" env-description:"Network display name"`
	PrivateKey      string `yaml:"PrivateKey" env:"ETH_PRIVATE_KEY" env-description:"Hex signing key for write calls"`
}

var (
	marketABI abi.ABI
	erc20ABI  abi.ABI
)

func init() {
	var err error
	marketABI, err = abi.JSON(strings.NewReader(contract.MarketplaceABI))
	if err != nil {
		panic(err)
	}
	erc20ABI, err = abi.JSON(strings.NewReader(contract.ERC20ABI))
	if err != nil {
		panic(err)
	}
}

// invoker is the slice of bind.BoundContract the session uses; tests
// substitute fakes.
type invoker interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// Session is the explicit wallet/contract handle. Construct one, Connect
// it, pass it around; nothing here is process-global. Busy and LastError
// mirror the state an operation toggles around each external call.
type Session struct {
	config *Config
	logger *zap.Logger

	mu        sync.Mutex
	client    *ethclient.Client
	signer    *bind.TransactOpts
	account   common.Address
	market    invoker
	usdc      invoker
	usdt      invoker
	busy      bool
	lastError error

	// waitMined and dialer are swapped out in tests
	waitMined func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	dialer    func(ctx context.Context) (*ethclient.Client, error)
}

func NewSession(config *Config, logger *zap.Logger) *Session {
	s := &Session{config: config, logger: logger}
	s.dialer = s.dial
	return s
}

// Connect requires a configured signing key, dials the RPC endpoint,
// repairs a chain mismatch through SwitchNetwork and binds the contract
// handles to the keyed transactor.
func (s *Session) Connect(ctx context.Context) error {
	if s.config.PrivateKey == "" {
		err := walletAbsent("no signing key configured, set ETH_PRIVATE_KEY to enable write calls")
		s.setLastError(err)
		return err
	}

	s.setBusy(true)
	defer s.setBusy(false)

	key, err := crypto.HexToECDSA(strings.TrimPrefix(s.config.PrivateKey, "0x"))
	if err != nil {
		cerr := walletAbsent("signing key is not a valid hex private key")
		cerr.Err = err
		s.setLastError(cerr)
		return cerr
	}

	client, err := s.dialer(ctx)
	if err != nil {
		cerr := classify(err)
		s.setLastError(cerr)
		return cerr
	}

	chainID := new(big.Int).SetUint64(s.config.ChainID)
	signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		cerr := classify(err)
		s.setLastError(cerr)
		return cerr
	}

	s.mu.Lock()
	s.bindHandles(client)
	s.signer = signer
	s.account = crypto.PubkeyToAddress(key.PublicKey)
	s.lastError = nil
	s.mu.Unlock()

	s.logger.Info("wallet session connected",
		zap.String("account", s.account.Hex()),
		zap.Uint64("chain_id", s.config.ChainID),
	)
	return nil
}

// dial connects to the configured endpoint and falls back to the preset
// endpoint for the target chain when the endpoint reports a different
// chain id. This is the headless analog of a wallet network switch.
func (s *Session) dial(ctx context.Context) (*ethclient.Client, error) {
	network := contract.NetworkForChainID(s.config.ChainID, s.config.NetworkName)
	rpcURL := s.config.RPCUrl
	if rpcURL == "" {
		rpcURL = network.RPCUrl
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial rpc endpoint")
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to read chain id")
	}
	if chainID.Uint64() == s.config.ChainID {
		return client, nil
	}

	s.logger.Warn("rpc endpoint is on the wrong chain, switching to preset",
		zap.Uint64("got", chainID.Uint64()),
		zap.Uint64("want", s.config.ChainID),
		zap.String("preset", network.RPCUrl),
	)
	client.Close()

	client, err = ethclient.DialContext(ctx, network.RPCUrl)
	if err != nil {
		return nil, networkMismatch("failed to reach the preset endpoint for the target chain", err)
	}
	chainID, err = client.ChainID(ctx)
	if err != nil || chainID.Uint64() != s.config.ChainID {
		client.Close()
		return nil, networkMismatch("connected endpoint does not serve the target chain", err)
	}
	return client, nil
}

// bindHandles points the client, the bound contracts and the receipt
// wait at one endpoint. Anything still holding the previous handles is
// stale; every rebind must come through here. Callers hold s.mu.
func (s *Session) bindHandles(client *ethclient.Client) {
	s.client = client
	s.market = bind.NewBoundContract(common.HexToAddress(s.config.ContractAddress), marketABI, client, client, client)
	s.usdc = bind.NewBoundContract(common.HexToAddress(s.config.USDCAddress), erc20ABI, client, client, client)
	s.usdt = bind.NewBoundContract(common.HexToAddress(s.config.USDTAddress), erc20ABI, client, client, client)
	s.waitMined = func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
		return bind.WaitMined(ctx, client, tx)
	}
}

// SwitchNetwork re-dials so the session ends up on the configured chain
// and rebinds the contract handles to the new connection.
func (s *Session) SwitchNetwork(ctx context.Context) error {
	client, err := s.dialer(ctx)
	if err != nil {
		cerr := classify(err)
		s.setLastError(cerr)
		return cerr
	}
	s.mu.Lock()
	if s.client != nil {
		s.client.Close()
	}
	s.bindHandles(client)
	s.lastError = nil
	s.mu.Unlock()
	return nil
}

// Disconnect clears the whole session state.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
	}
	s.client = nil
	s.signer = nil
	s.account = common.Address{}
	s.market = nil
	s.usdc = nil
	s.usdt = nil
	s.waitMined = nil
	s.busy = false
	s.lastError = nil
}

func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market != nil
}

func (s *Session) Account() common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Session) setBusy(busy bool) {
	s.mu.Lock()
	s.busy = busy
	s.mu.Unlock()
}

func (s *Session) setLastError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
}

// transact submits one write call, waits for the receipt and records the
// classified outcome. value may be nil for non-payable methods.
func (s *Session) transact(ctx context.Context, target invoker, method string, value *big.Int, params ...interface{}) error {
	s.mu.Lock()
	if target == nil || s.signer == nil {
		s.mu.Unlock()
		err := walletAbsent("wallet session is not connected")
		s.setLastError(err)
		return err
	}
	opts := *s.signer
	opts.Context = ctx
	opts.Value = value
	wait := s.waitMined
	s.busy = true
	s.lastError = nil
	s.mu.Unlock()

	tx, err := target.Transact(&opts, method, params...)
	if err == nil {
		_, err = wait(ctx, tx)
	}

	var cerr error
	if err != nil {
		cerr = classify(err)
		s.logger.Error("transaction failed", zap.String("method", method), zap.Error(err))
	}

	s.mu.Lock()
	s.busy = false
	s.lastError = cerr
	s.mu.Unlock()
	return cerr
}

func (s *Session) marketHandle() invoker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market
}

// tokenHandle picks the bound token contract for an approval. Anything
// that is not the configured USDC address is treated as USDT.
func (s *Session) tokenHandle(token common.Address) invoker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == common.HexToAddress(s.config.USDCAddress) {
		return s.usdc
	}
	return s.usdt
}

// MakePaymentETH submits a native-currency payment and waits for it to be
// mined. amountWei carries the value of the transaction.
func (s *Session) MakePaymentETH(ctx context.Context, nodeID uint64, duration uint64, amountWei *big.Int) error {
	_ = nodeID // see settlementNodeIndex
	return s.transact(ctx, s.marketHandle(), "makePaymentETH", amountWei,
		big.NewInt(settlementNodeIndex), new(big.Int).SetUint64(duration))
}

// ApproveStablecoin grants the marketplace a token allowance. Must be
// mined before MakePaymentStablecoin is worth submitting.
func (s *Session) ApproveStablecoin(ctx context.Context, token common.Address, amount *big.Int) error {
	return s.transact(ctx, s.tokenHandle(token), "approve", nil,
		common.HexToAddress(s.config.ContractAddress), amount)
}

func (s *Session) MakePaymentStablecoin(ctx context.Context, nodeID uint64, duration uint64, amount *big.Int, method contract.PaymentType) error {
	_ = nodeID // see settlementNodeIndex
	return s.transact(ctx, s.marketHandle(), "makePaymentStablecoin", nil,
		big.NewInt(settlementNodeIndex), new(big.Int).SetUint64(duration), amount, uint8(method))
}

func (s *Session) RegisterNode(ctx context.Context, location string, priceWeiETH, priceUnitsUSD *big.Int) error {
	return s.transact(ctx, s.marketHandle(), "registerNode", nil, location, priceWeiETH, priceUnitsUSD)
}

func (s *Session) UpdateNodePrice(ctx context.Context, nodeID uint64, newPriceETH, newPriceUSD *big.Int) error {
	return s.transact(ctx, s.marketHandle(), "updateNodePrice", nil,
		new(big.Int).SetUint64(nodeID), newPriceETH, newPriceUSD)
}

func (s *Session) WithdrawEarnings(ctx context.Context, nodeID uint64) error {
	return s.transact(ctx, s.marketHandle(), "withdrawEarnings", nil, new(big.Int).SetUint64(nodeID))
}

func (s *Session) RateNode(ctx context.Context, nodeID uint64, isPositive bool) error {
	return s.transact(ctx, s.marketHandle(), "rateNode", nil, new(big.Int).SetUint64(nodeID), isPositive)
}

func (s *Session) CreateProposal(ctx context.Context, description string, proposalType contract.ProposalType, targetNodeID uint64, newValue *big.Int) error {
	return s.transact(ctx, s.marketHandle(), "createProposal", nil,
		description, uint8(proposalType), new(big.Int).SetUint64(targetNodeID), newValue)
}

func (s *Session) VoteOnProposal(ctx context.Context, proposalID uint64, support bool) error {
	return s.transact(ctx, s.marketHandle(), "voteOnProposal", nil, new(big.Int).SetUint64(proposalID), support)
}

func (s *Session) ExecuteProposal(ctx context.Context, proposalID uint64) error {
	return s.transact(ctx, s.marketHandle(), "executeProposal", nil, new(big.Int).SetUint64(proposalID))
}

// Read accessors back display data, so they swallow failures and return
// neutral results instead of propagating.

func (s *Session) GetUserPayments(ctx context.Context) []contract.Payment {
	market := s.marketHandle()
	if market == nil {
		return nil
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "getUserPayments", s.Account())
	if err != nil || len(out) == 0 {
		s.logger.Warn("failed to fetch user payments", zap.Error(err))
		return nil
	}
	return *abi.ConvertType(out[0], new([]contract.Payment)).(*[]contract.Payment)
}

func (s *Session) GetNodePayments(ctx context.Context, nodeID uint64) []contract.Payment {
	market := s.marketHandle()
	if market == nil {
		return nil
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "getNodePayments", new(big.Int).SetUint64(nodeID))
	if err != nil || len(out) == 0 {
		s.logger.Warn("failed to fetch node payments", zap.Uint64("node_id", nodeID), zap.Error(err))
		return nil
	}
	return *abi.ConvertType(out[0], new([]contract.Payment)).(*[]contract.Payment)
}

func (s *Session) GetNetworkStats(ctx context.Context) *contract.NetworkStats {
	market := s.marketHandle()
	if market == nil {
		return nil
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "getNetworkStats")
	if err != nil || len(out) < 6 {
		s.logger.Warn("failed to fetch network stats", zap.Error(err))
		return nil
	}
	return &contract.NetworkStats{
		TotalNodes:      *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		ActiveNodes:     *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		TotalVolumeETH:  *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		TotalVolumeUSDC: *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		TotalVolumeUSDT: *abi.ConvertType(out[4], new(*big.Int)).(**big.Int),
		TotalUsers:      *abi.ConvertType(out[5], new(*big.Int)).(**big.Int),
	}
}

func (s *Session) GetUserReputation(ctx context.Context, user common.Address) *big.Int {
	market := s.marketHandle()
	if market == nil {
		return big.NewInt(0)
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "getUserReputation", user)
	if err != nil || len(out) == 0 {
		s.logger.Warn("failed to fetch user reputation", zap.Error(err))
		return big.NewInt(0)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
}

func (s *Session) GetNode(ctx context.Context, nodeID uint64) *contract.Node {
	market := s.marketHandle()
	if market == nil {
		return nil
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "getNode", new(big.Int).SetUint64(nodeID))
	if err != nil || len(out) == 0 {
		s.logger.Warn("failed to fetch node", zap.Uint64("node_id", nodeID), zap.Error(err))
		return nil
	}
	return abi.ConvertType(out[0], new(contract.Node)).(*contract.Node)
}

func (s *Session) GetProposalDetails(ctx context.Context, proposalID uint64) *contract.ProposalDetails {
	market := s.marketHandle()
	if market == nil {
		return nil
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "getProposalDetails", new(big.Int).SetUint64(proposalID))
	if err != nil || len(out) < 10 {
		s.logger.Warn("failed to fetch proposal", zap.Uint64("proposal_id", proposalID), zap.Error(err))
		return nil
	}
	return &contract.ProposalDetails{
		Proposer:     *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Description:  *abi.ConvertType(out[1], new(string)).(*string),
		TargetNodeId: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		ProposalType: *abi.ConvertType(out[3], new(uint8)).(*uint8),
		NewValue:     *abi.ConvertType(out[4], new(*big.Int)).(**big.Int),
		VotesFor:     *abi.ConvertType(out[5], new(*big.Int)).(**big.Int),
		VotesAgainst: *abi.ConvertType(out[6], new(*big.Int)).(**big.Int),
		CreatedAt:    *abi.ConvertType(out[7], new(*big.Int)).(**big.Int),
		ExpiresAt:    *abi.ConvertType(out[8], new(*big.Int)).(**big.Int),
		Executed:     *abi.ConvertType(out[9], new(bool)).(*bool),
	}
}

func (s *Session) CanParticipateInGovernance(ctx context.Context, user common.Address) bool {
	market := s.marketHandle()
	if market == nil {
		return false
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "canParticipateInGovernance", user)
	if err != nil || len(out) == 0 {
		s.logger.Warn("failed to check governance eligibility", zap.Error(err))
		return false
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool)
}

func (s *Session) TreasuryFeePercent(ctx context.Context) *big.Int {
	market := s.marketHandle()
	if market == nil {
		return big.NewInt(0)
	}
	var out []interface{}
	err := market.Call(&bind.CallOpts{Context: ctx}, &out, "treasuryFeePercent")
	if err != nil || len(out) == 0 {
		s.logger.Warn("failed to fetch treasury fee", zap.Error(err))
		return big.NewInt(0)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
}
