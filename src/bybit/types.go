package bybit

import "fmt"

// Closed sets of wire values accepted by the v5 API. Keeping them typed
// stops free-form strings from reaching the exchange.

type Category string

const (
	CategorySpot    Category = "spot"
	CategoryLinear  Category = "linear"
	CategoryInverse Category = "inverse"
	CategoryOption  Category = "option"
)

type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// ParseSide maps user input ("buy", "Sell", ...) onto a wire side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "Buy", "buy", "BUY":
		return SideBuy, nil
	case "Sell", "sell", "SELL":
		return SideSell, nil
	default:
		return "", fmt.Errorf("invalid side %q, must be Buy or Sell", s)
	}
}

// Opposite returns the closing side for a position opened with s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

type TimeInForce string

const (
	TimeInForceGTC      TimeInForce = "GTC"
	TimeInForceIOC      TimeInForce = "IOC"
	TimeInForceFOK      TimeInForce = "FOK"
	TimeInForcePostOnly TimeInForce = "PostOnly"
)

type AccountType string

const (
	AccountTypeSpot     AccountType = "SPOT"
	AccountTypeContract AccountType = "CONTRACT"
	AccountTypeUnified  AccountType = "UNIFIED"
)

// TriggerDirection is numeric on the wire: 1 triggers when the market
// price rises to triggerPrice, 2 when it falls to it.
type TriggerDirection int

const (
	TriggerDirectionRisesTo TriggerDirection = 1
	TriggerDirectionFallsTo TriggerDirection = 2
)

type TriggerBy string

const (
	TriggerByLastPrice  TriggerBy = "LastPrice"
	TriggerByIndexPrice TriggerBy = "IndexPrice"
	TriggerByMarkPrice  TriggerBy = "MarkPrice"
)

type OrderFilter string

const (
	OrderFilterOrder     OrderFilter = "Order"
	OrderFilterTpSlOrder OrderFilter = "tpslOrder"
	OrderFilterStopOrder OrderFilter = "StopOrder"
)

type TpSlMode string

const (
	TpSlModeFull    TpSlMode = "Full"
	TpSlModePartial TpSlMode = "Partial"
)

type TpSlOrderType string

const (
	TpSlOrderTypeMarket TpSlOrderType = "Market"
	TpSlOrderTypeLimit  TpSlOrderType = "Limit"
)

// MarketUnitQuoteCoin denominates a spot market order quantity in the
// quote currency ("spend this much USDT") instead of the base asset.
const (
	MarketUnitBaseCoin  = "baseCoin"
	MarketUnitQuoteCoin = "quoteCoin"
)
