package bybit

import (
	"net/url"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

// -----------------------------
// RESPONSE STRUCTURES
// -----------------------------

type OrderAck struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

type CoinBalance struct {
	Coin                string `json:"coin"`
	WalletBalance       string `json:"walletBalance"`
	AvailableToWithdraw string `json:"availableToWithdraw"`
	Locked              string `json:"locked"`
}

type WalletAccount struct {
	AccountType string        `json:"accountType"`
	TotalEquity string        `json:"totalEquity"`
	Coin        []CoinBalance `json:"coin"`
}

type WalletBalanceResult struct {
	List []WalletAccount `json:"list"`
}

type OrderDetail struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	OrderType   string `json:"orderType"`
	OrderStatus string `json:"orderStatus"`
	Qty         string `json:"qty"`
	Price       string `json:"price"`
	AvgPrice    string `json:"avgPrice"`
	CumExecQty  string `json:"cumExecQty"`
	CumExecFee  string `json:"cumExecFee"`
}

type OrderListResult struct {
	List []OrderDetail `json:"list"`
}

type LotSizeFilter struct {
	BasePrecision  string `json:"basePrecision"`
	QuotePrecision string `json:"quotePrecision"`
	MinOrderQty    string `json:"minOrderQty"`
	MaxOrderQty    string `json:"maxOrderQty"`
	MinOrderAmt    string `json:"minOrderAmt"`
	MaxOrderAmt    string `json:"maxOrderAmt"`
}

type PriceFilter struct {
	TickSize string `json:"tickSize"`
}

type Instrument struct {
	Symbol        string        `json:"symbol"`
	BaseCoin      string        `json:"baseCoin"`
	QuoteCoin     string        `json:"quoteCoin"`
	Status        string        `json:"status"`
	LotSizeFilter LotSizeFilter `json:"lotSizeFilter"`
	PriceFilter   PriceFilter   `json:"priceFilter"`
}

type InstrumentsResult struct {
	Category Category     `json:"category"`
	List     []Instrument `json:"list"`
}

type Ticker struct {
	Symbol       string `json:"symbol"`
	LastPrice    string `json:"lastPrice"`
	Bid1Price    string `json:"bid1Price"`
	Ask1Price    string `json:"ask1Price"`
	Volume24h    string `json:"volume24h"`
	Turnover24h  string `json:"turnover24h"`
	HighPrice24h string `json:"highPrice24h"`
	LowPrice24h  string `json:"lowPrice24h"`
}

type TickersResult struct {
	Category Category `json:"category"`
	List     []Ticker `json:"list"`
}

// -----------------------------
// TRADING METHODS
// -----------------------------

// PlaceOrder submits an order and returns the exchange acknowledgement.
// An orderLinkId is generated when the caller did not set one, so every
// order stays traceable on the exchange side.
func (c *Client) PlaceOrder(req PlaceOrderRequest) (*OrderAck, error) {
	if req.OrderLinkID == "" {
		req.OrderLinkID = uuid.NewString()
	}

	logger.WithFields(map[string]interface{}{
		"category":    req.Category,
		"symbol":      req.Symbol,
		"side":        req.Side,
		"orderType":   req.OrderType,
		"qty":         req.Qty,
		"price":       req.Price,
		"orderLinkId": req.OrderLinkID,
	}).Info("placing order")

	var ack OrderAck
	if err := c.post("/v5/order/create", req.payload(), &ack); err != nil {
		logger.WithError(err).WithField("symbol", req.Symbol).Error("failed to place order")
		return nil, err
	}

	logger.WithField("orderId", ack.OrderID).Info("order placed successfully")
	return &ack, nil
}

// SetTradingStop sets take profit / stop loss / trailing stop on an open
// position (linear and inverse categories only).
func (c *Client) SetTradingStop(req SetTradingStopRequest) error {
	logger.WithFields(map[string]interface{}{
		"category":   req.Category,
		"symbol":     req.Symbol,
		"takeProfit": req.TakeProfit,
		"stopLoss":   req.StopLoss,
	}).Info("setting trading stop")

	if err := c.post("/v5/position/trading-stop", req.payload(), nil); err != nil {
		logger.WithError(err).WithField("symbol", req.Symbol).Error("failed to set trading stop")
		return err
	}
	return nil
}

// -----------------------------
// ACCOUNT METHODS
// -----------------------------

func (c *Client) GetWalletBalance(accountType AccountType, coin string) (*WalletBalanceResult, error) {
	query := url.Values{}
	query.Set("accountType", string(accountType))
	if coin != "" {
		query.Set("coin", coin)
	}

	var result WalletBalanceResult
	if err := c.get("/v5/account/wallet-balance", query, &result); err != nil {
		logger.WithError(err).WithField("coin", coin).Error("failed to fetch wallet balance")
		return nil, err
	}
	return &result, nil
}

// -----------------------------
// ORDER QUERY METHODS
// -----------------------------

// GetOrderByID queries real-time information about a single order.
func (c *Client) GetOrderByID(category Category, orderID string) (*OrderListResult, error) {
	query := url.Values{}
	query.Set("category", string(category))
	query.Set("orderId", orderID)

	var result OrderListResult
	if err := c.get("/v5/order/realtime", query, &result); err != nil {
		logger.WithError(err).WithField("orderId", orderID).Error("failed to fetch order")
		return nil, err
	}
	return &result, nil
}

// -----------------------------
// MARKET DATA METHODS
// -----------------------------

func (c *Client) GetInstrumentsInfo(category Category, symbol string) (*InstrumentsResult, error) {
	query := url.Values{}
	query.Set("category", string(category))
	if symbol != "" {
		query.Set("symbol", symbol)
	}

	var result InstrumentsResult
	if err := c.get("/v5/market/instruments-info", query, &result); err != nil {
		logger.WithError(err).WithField("symbol", symbol).Error("failed to fetch instrument info")
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetTickers(category Category, symbol string) (*TickersResult, error) {
	query := url.Values{}
	query.Set("category", string(category))
	if symbol != "" {
		query.Set("symbol", symbol)
	}

	var result TickersResult
	if err := c.get("/v5/market/tickers", query, &result); err != nil {
		logger.WithError(err).WithField("symbol", symbol).Error("failed to fetch tickers")
		return nil, err
	}
	return &result, nil
}
