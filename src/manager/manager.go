package manager

import (
	"fmt"

	"bybitmanager/src/bybit"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// Gateway is the slice of the exchange client the manager consumes. All
// calls are synchronous and non-idempotent mutations are never retried
// here; whatever the gateway reports bubbles up unchanged.
type Gateway interface {
	PlaceOrder(req bybit.PlaceOrderRequest) (*bybit.OrderAck, error)
	GetWalletBalance(accountType bybit.AccountType, coin string) (*bybit.WalletBalanceResult, error)
	GetOrderByID(category bybit.Category, orderID string) (*bybit.OrderListResult, error)
	GetInstrumentsInfo(category bybit.Category, symbol string) (*bybit.InstrumentsResult, error)
	SetTradingStop(req bybit.SetTradingStopRequest) error
}

type Manager struct {
	gw Gateway
}

func New(gw Gateway) *Manager {
	return &Manager{gw: gw}
}

// Execution summarizes one completed order flow.
type Execution struct {
	OrderID  string          `json:"order_id"`
	Symbol   string          `json:"symbol"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	Quantity decimal.Decimal `json:"quantity"`

	TakeProfitPrice   *decimal.Decimal `json:"take_profit_price,omitempty"`
	TakeProfitOrderID string           `json:"take_profit_order_id,omitempty"`
	StopLossPrice     *decimal.Decimal `json:"stop_loss_price,omitempty"`
	StopLossOrderID   string           `json:"stop_loss_order_id,omitempty"`
}

// PlaceMarketOrderSpotToUSDT places a spot market order for coin against
// USDT, sized as a percentage of the available USDT balance, then attaches
// a stop-loss and/or take-profit leg derived from the average fill price.
//
// The market order is quote-denominated (marketUnit=quoteCoin); the base
// quantity for the exit legs is re-derived from the post-trade base-coin
// balance, floored to the symbol's quantity precision, because quote-sized
// market buys do not report an exact base fill quantity synchronously.
//
// Caller hazard: each exit leg is placed for the FULL quantity. When both
// percentages are supplied the combined sell exposure is double the held
// amount, and nothing here cancels the surviving leg once the other fills.
// Already-placed orders are never rolled back on later failures.
func (m *Manager) PlaceMarketOrderSpotToUSDT(
	coin string,
	side bybit.Side,
	percentOfBalance float64,
	tpPercentage float64,
	slPercentage float64,
) (*Execution, error) {

	symbol := coin + "USDT"

	orderID, err := m.executeMarketOrder(symbol, side, percentOfBalance)
	if err != nil {
		return nil, err
	}

	avgPrice, err := m.averageFillPrice(bybit.CategorySpot, orderID)
	if err != nil {
		logger.WithError(err).WithField("orderId", orderID).Error("failed to resolve average fill price")
		return nil, err
	}

	qty, err := m.formattedBalance(coin, symbol)
	if err != nil {
		logger.WithError(err).WithField("coin", coin).Error("failed to resolve post-trade balance")
		return nil, err
	}

	exec := &Execution{
		OrderID:  orderID,
		Symbol:   symbol,
		AvgPrice: avgPrice,
		Quantity: qty,
	}

	if slPercentage > 0 {
		slPrice, slOrderID, err := m.setStopLoss(avgPrice, qty, symbol, slPercentage)
		if err != nil {
			return nil, err
		}
		exec.StopLossPrice = &slPrice
		exec.StopLossOrderID = slOrderID
	}

	if tpPercentage > 0 {
		tpPrice, tpOrderID, err := m.setTakeProfit(avgPrice, qty, symbol, tpPercentage)
		if err != nil {
			return nil, err
		}
		exec.TakeProfitPrice = &tpPrice
		exec.TakeProfitOrderID = tpOrderID
	}

	return exec, nil
}

// executeMarketOrder sizes and submits the entry order, returning its ID.
func (m *Manager) executeMarketOrder(symbol string, side bybit.Side, percentOfBalance float64) (string, error) {
	qty, err := m.calculateOrderQty(symbol, percentOfBalance)
	if err != nil {
		return "", err
	}

	logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"side":    side,
		"qty":     qty,
		"percent": percentOfBalance,
	}).Info("executing market order")

	ack, err := m.gw.PlaceOrder(bybit.PlaceOrderRequest{
		Category:   bybit.CategorySpot,
		Symbol:     symbol,
		Side:       side,
		OrderType:  bybit.OrderTypeMarket,
		Qty:        qty.String(),
		MarketUnit: bybit.MarketUnitQuoteCoin,
	})
	if err != nil {
		return "", err
	}

	return ack.OrderID, nil
}

// calculateOrderQty converts a percentage of the available USDT balance
// into a quote-denominated order quantity, rounded to whole USDT.
func (m *Manager) calculateOrderQty(symbol string, percentOfBalance float64) (decimal.Decimal, error) {
	usdtBalance, err := m.Balance("USDT")
	if err != nil {
		return decimal.Zero, err
	}

	pct := decimal.NewFromFloat(percentOfBalance).Div(decimal.NewFromInt(100))
	qty := usdtBalance.Mul(pct).Round(0)

	logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"qty":    qty,
	}).Info("calculated order quantity")

	return qty, nil
}

// Balance returns the available amount of a coin on the unified account.
// Fetched fresh on every call, never cached.
func (m *Manager) Balance(coin string) (decimal.Decimal, error) {
	logger.WithField("coin", coin).Info("fetching balance")

	result, err := m.gw.GetWalletBalance(bybit.AccountTypeUnified, coin)
	if err != nil {
		return decimal.Zero, err
	}
	if len(result.List) == 0 || len(result.List[0].Coin) == 0 {
		return decimal.Zero, fmt.Errorf("no balance entry returned for %s", coin)
	}

	available, err := decimal.NewFromString(result.List[0].Coin[0].AvailableToWithdraw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid available balance for %s: %w", coin, err)
	}

	logger.WithFields(map[string]interface{}{
		"coin":      coin,
		"available": available,
	}).Info("balance fetched")

	return available, nil
}

// formattedBalance fetches the coin balance and floors it to the symbol's
// quantity precision, making it submittable as an order quantity.
func (m *Manager) formattedBalance(coin, symbol string) (decimal.Decimal, error) {
	balance, err := m.Balance(coin)
	if err != nil {
		return decimal.Zero, err
	}

	precision, err := m.qtyPrecision(bybit.CategorySpot, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return roundToPrecision(balance, precision), nil
}

// averageFillPrice reads back the volume-weighted fill price of an order.
func (m *Manager) averageFillPrice(category bybit.Category, orderID string) (decimal.Decimal, error) {
	result, err := m.gw.GetOrderByID(category, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(result.List) == 0 {
		return decimal.Zero, fmt.Errorf("order %s not returned by exchange: %w", orderID, ErrOrderNotFilled)
	}

	raw := result.List[0].AvgPrice
	if raw == "" {
		return decimal.Zero, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFilled)
	}

	avg, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("order %s has invalid avgPrice %q: %w", orderID, raw, err)
	}
	if avg.IsZero() {
		return decimal.Zero, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFilled)
	}

	return avg, nil
}

// qtyPrecision resolves the quantity precision from the lot size filter.
func (m *Manager) qtyPrecision(category bybit.Category, symbol string) (int32, error) {
	info, err := m.gw.GetInstrumentsInfo(category, symbol)
	if err != nil {
		return 0, err
	}
	if len(info.List) == 0 {
		return 0, fmt.Errorf("%s/%s: %w", category, symbol, ErrInstrumentNotFound)
	}

	return countDecimalPlaces(info.List[0].LotSizeFilter.BasePrecision), nil
}

// pricePrecision resolves the price precision from the tick size filter.
func (m *Manager) pricePrecision(category bybit.Category, symbol string) (int32, error) {
	info, err := m.gw.GetInstrumentsInfo(category, symbol)
	if err != nil {
		return 0, err
	}
	if len(info.List) == 0 {
		return 0, fmt.Errorf("%s/%s: %w", category, symbol, ErrInstrumentNotFound)
	}

	return countDecimalPlaces(info.List[0].PriceFilter.TickSize), nil
}

// targetPrice derives the TP/SL trigger price from the average fill price,
// rounded to the symbol's price precision.
func (m *Manager) targetPrice(symbol string, avgPrice decimal.Decimal, percentage float64, takeProfit bool) (decimal.Decimal, error) {
	pct := decimal.NewFromFloat(percentage).Div(decimal.NewFromInt(100))

	multiplier := decimal.NewFromInt(1)
	if takeProfit {
		multiplier = multiplier.Add(pct)
	} else {
		multiplier = multiplier.Sub(pct)
	}

	precision, err := m.pricePrecision(bybit.CategorySpot, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return avgPrice.Mul(multiplier).Round(precision), nil
}

// setTakeProfit places a GTC limit sell at the target price above entry.
func (m *Manager) setTakeProfit(avgPrice, qty decimal.Decimal, symbol string, tpPercentage float64) (decimal.Decimal, string, error) {
	tpPrice, err := m.targetPrice(symbol, avgPrice, tpPercentage, true)
	if err != nil {
		return decimal.Zero, "", err
	}

	orderID, err := m.placeLimitOrder(symbol, qty, tpPrice, bybit.SideSell)
	if err != nil {
		return decimal.Zero, "", err
	}

	return tpPrice, orderID, nil
}

// setStopLoss places a conditional market sell triggered below entry.
func (m *Manager) setStopLoss(avgPrice, qty decimal.Decimal, symbol string, slPercentage float64) (decimal.Decimal, string, error) {
	slPrice, err := m.targetPrice(symbol, avgPrice, slPercentage, false)
	if err != nil {
		return decimal.Zero, "", err
	}

	orderID, err := m.placeStopLoss(symbol, qty, slPrice)
	if err != nil {
		return decimal.Zero, "", err
	}

	return slPrice, orderID, nil
}

func (m *Manager) placeLimitOrder(symbol string, qty, price decimal.Decimal, side bybit.Side) (string, error) {
	logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"side":   side,
		"qty":    qty,
		"price":  price,
	}).Info("placing limit order")

	ack, err := m.gw.PlaceOrder(bybit.PlaceOrderRequest{
		Category:    bybit.CategorySpot,
		Symbol:      symbol,
		Side:        side,
		OrderType:   bybit.OrderTypeLimit,
		Qty:         qty.String(),
		Price:       price.String(),
		TimeInForce: bybit.TimeInForceGTC,
	})
	if err != nil {
		return "", err
	}

	logger.WithField("orderId", ack.OrderID).Info("limit order placed successfully")
	return ack.OrderID, nil
}

func (m *Manager) placeStopLoss(symbol string, qty, triggerPrice decimal.Decimal) (string, error) {
	logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"qty":          qty,
		"triggerPrice": triggerPrice,
	}).Info("setting stop-loss")

	ack, err := m.gw.PlaceOrder(bybit.PlaceOrderRequest{
		Category:     bybit.CategorySpot,
		Symbol:       symbol,
		Side:         bybit.SideSell,
		OrderType:    bybit.OrderTypeMarket,
		Qty:          qty.String(),
		TriggerPrice: triggerPrice.String(),
		OrderFilter:  bybit.OrderFilterStopOrder,
	})
	if err != nil {
		return "", err
	}

	logger.WithField("orderId", ack.OrderID).Info("stop-loss order placed successfully")
	return ack.OrderID, nil
}

// SetTakeProfitFull sets a full-position take profit on an open derivatives
// position via the trading-stop endpoint, priced from the order's average
// fill. The partial (tpslMode=Partial) variant is deliberately not offered.
func (m *Manager) SetTakeProfitFull(symbol string, category bybit.Category, orderID string, tpPercentage float64) error {
	avgPrice, err := m.averageFillPrice(category, orderID)
	if err != nil {
		return err
	}

	pct := decimal.NewFromFloat(tpPercentage).Div(decimal.NewFromInt(100))
	tpPrice := avgPrice.Mul(decimal.NewFromInt(1).Add(pct))

	logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"tpPrice": tpPrice,
		"mode":    bybit.TpSlModeFull,
	}).Info("setting full take profit")

	return m.gw.SetTradingStop(bybit.SetTradingStopRequest{
		Category:   bybit.CategoryLinear,
		Symbol:     symbol,
		TakeProfit: tpPrice.String(),
		TpSlMode:   bybit.TpSlModeFull,
	})
}
