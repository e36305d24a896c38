package api

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/contract"
	"github.com/desertwifi/wifimarket/db"
	"github.com/desertwifi/wifimarket/eth"
	"github.com/desertwifi/wifimarket/query"
	"github.com/desertwifi/wifimarket/utils"
)

type Api struct {
	db      *db.BoltDB
	session *eth.Session
	logger  *zap.Logger
	addr    string
}

func New(logger *zap.Logger, db *db.BoltDB, session *eth.Session, addr string) *Api {
	return &Api{
		db:      db,
		session: session,
		logger:  logger,
		addr:    addr,
	}
}

func (api *Api) Start() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// create a rate limiter
	rate := limiter.Rate{
		Limit:  60,
		Period: time.Minute,
	}
	store := memory.NewStore()
	limit := limiter.New(store, rate)

	// use the rate limiter middleware
	router.Use(ginlimiter.NewMiddleware(limit))

	// add cache middleware
	cacheStore := persistence.NewInMemoryStore(time.Minute)

	router.GET("/api/nodes", api.SearchNodes)
	router.GET("/api/nodes/:nodeid", api.GetNode)
	router.GET("/api/stats", cache.CachePage(cacheStore, time.Minute, api.GetStats))
	router.GET("/api/payments", api.GetPayments)
	router.GET("/api/proposals/:proposalid", api.GetProposal)
	router.GET("/api/sync", api.GetSyncStatus)

	api.logger.Info("Starting server", zap.String("addr", api.addr))
	err := router.Run(api.addr)
	if err != nil {
		api.logger.Fatal("Error starting server", zap.Error(err))
	}
}

// SearchNodes runs the cached node list through the query layer. All
// filter params are optional.
func (api *Api) SearchNodes(c *gin.Context) {
	nodes, err := api.db.ListNodes()
	if err != nil {
		api.logger.Error("Error listing nodes", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := query.Search(nodes, filters, query.SortOption(c.DefaultQuery("sort", string(query.SortReputationDesc))))
	c.JSON(http.StatusOK, gin.H{
		"nodes": results,
		"metadata": gin.H{
			"count": len(results),
		},
	})
}

func parseFilters(c *gin.Context) (query.Filters, error) {
	filters := query.Filters{
		SearchQuery: c.Query("q"),
		ActiveOnly:  c.Query("active") == "true",
	}

	floatParams := map[string]**float64{
		"min_price_eth": &filters.MinPriceETH,
		"max_price_eth": &filters.MaxPriceETH,
		"min_price_usd": &filters.MinPriceUSD,
		"max_price_usd": &filters.MaxPriceUSD,
	}
	for name, target := range floatParams {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, errors.Errorf("invalid %s", name)
		}
		*target = &value
	}

	if raw := c.Query("min_reputation"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return filters, errors.Errorf("invalid min_reputation")
		}
		filters.MinReputation = &value
	}
	return filters, nil
}

func (api *Api) GetNode(c *gin.Context) {
	nodeID, err := utils.StringToUint64(c.Param("nodeid"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "nodeid must be a number"})
		return
	}

	node, err := api.db.GetNode(nodeID)
	if err == db.ErrNotFound {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}
	if err != nil {
		api.logger.Error("Error getting node", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, node)
}

// GetStats proxies the contract's network statistics. A disconnected
// session or failed call degrades to zeros, never an error.
func (api *Api) GetStats(c *gin.Context) {
	stats := api.session.GetNetworkStats(c.Request.Context())
	if stats == nil {
		stats = &contract.NetworkStats{
			TotalNodes:      big.NewInt(0),
			ActiveNodes:     big.NewInt(0),
			TotalVolumeETH:  big.NewInt(0),
			TotalVolumeUSDC: big.NewInt(0),
			TotalVolumeUSDT: big.NewInt(0),
			TotalUsers:      big.NewInt(0),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"total_nodes":       stats.TotalNodes.String(),
		"active_nodes":      stats.ActiveNodes.String(),
		"total_volume_eth":  utils.FormatUnits(stats.TotalVolumeETH, utils.EtherDecimals),
		"total_volume_usdc": utils.FormatUnits(stats.TotalVolumeUSDC, utils.StablecoinDecimals),
		"total_volume_usdt": utils.FormatUnits(stats.TotalVolumeUSDT, utils.StablecoinDecimals),
		"total_users":       stats.TotalUsers.String(),
	})
}

type paymentView struct {
	User      string `json:"user"`
	NodeID    string `json:"node_id"`
	Amount    string `json:"amount"`
	Duration  string `json:"duration"`
	Timestamp string `json:"timestamp"`
	Method    string `json:"method"`
}

// GetPayments returns the session account's payment history; empty when
// the session is disconnected.
func (api *Api) GetPayments(c *gin.Context) {
	payments := api.session.GetUserPayments(c.Request.Context())

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		method := contract.PaymentType(p.PaymentType)
		decimals := utils.StablecoinDecimals
		if method == contract.PaymentETH {
			decimals = utils.EtherDecimals
		}
		views = append(views, paymentView{
			User:      p.User.Hex(),
			NodeID:    p.NodeId.String(),
			Amount:    utils.FormatUnits(p.Amount, decimals),
			Duration:  p.Duration.String(),
			Timestamp: p.Timestamp.String(),
			Method:    method.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"payments": views,
		"metadata": gin.H{
			"count": len(views),
		},
	})
}

func (api *Api) GetProposal(c *gin.Context) {
	proposalID, err := utils.StringToUint64(c.Param("proposalid"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "proposalid must be a number"})
		return
	}

	proposal := api.session.GetProposalDetails(c.Request.Context(), proposalID)
	if proposal == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"proposer":       proposal.Proposer.Hex(),
		"description":    proposal.Description,
		"target_node_id": proposal.TargetNodeId.String(),
		"proposal_type":  proposal.ProposalType,
		"new_value":      proposal.NewValue.String(),
		"votes_for":      proposal.VotesFor.String(),
		"votes_against":  proposal.VotesAgainst.String(),
		"created_at":     proposal.CreatedAt.String(),
		"expires_at":     proposal.ExpiresAt.String(),
		"executed":       proposal.Executed,
	})
}

func (api *Api) GetSyncStatus(c *gin.Context) {
	status, err := api.db.SyncStatus()
	if err != nil {
		api.logger.Error("Error getting sync status", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, status)
}
