package bybit

// PlaceOrderRequest mirrors POST /v5/order/create. Optional fields left at
// their zero value are omitted from the outbound payload entirely; the API
// distinguishes an absent key from a null one.
type PlaceOrderRequest struct {
	Category  Category
	Symbol    string
	Side      Side
	OrderType OrderType
	Qty       string

	Price       string
	TimeInForce TimeInForce // defaults to IOC
	OrderLinkID string
	IsLeverage  int
	OrderFilter OrderFilter // defaults to Order

	// MarketUnit selects base/quote denomination for spot market orders.
	MarketUnit string

	TriggerPrice     string
	TriggerDirection TriggerDirection
	TriggerBy        TriggerBy

	TakeProfit  string
	StopLoss    string
	TpTriggerBy TriggerBy
	SlTriggerBy TriggerBy

	ReduceOnly     *bool
	CloseOnTrigger *bool

	TpSlMode     TpSlMode
	TpLimitPrice string
	SlLimitPrice string
	TpOrderType  TpSlOrderType
	SlOrderType  TpSlOrderType
}

func (r PlaceOrderRequest) payload() map[string]interface{} {
	tif := r.TimeInForce
	if tif == "" {
		tif = TimeInForceIOC
	}
	filter := r.OrderFilter
	if filter == "" {
		filter = OrderFilterOrder
	}

	body := map[string]interface{}{
		"category":    string(r.Category),
		"symbol":      r.Symbol,
		"side":        string(r.Side),
		"orderType":   string(r.OrderType),
		"qty":         r.Qty,
		"timeInForce": string(tif),
		"isLeverage":  r.IsLeverage,
		"orderFilter": string(filter),
	}

	if r.Price != "" {
		body["price"] = r.Price
	}
	if r.OrderLinkID != "" {
		body["orderLinkId"] = r.OrderLinkID
	}
	if r.MarketUnit != "" {
		body["marketUnit"] = r.MarketUnit
	}
	if r.TriggerPrice != "" {
		body["triggerPrice"] = r.TriggerPrice
	}
	if r.TriggerDirection != 0 {
		body["triggerDirection"] = int(r.TriggerDirection)
	}
	if r.TriggerBy != "" {
		body["triggerBy"] = string(r.TriggerBy)
	}
	if r.TakeProfit != "" {
		body["takeProfit"] = r.TakeProfit
	}
	if r.StopLoss != "" {
		body["stopLoss"] = r.StopLoss
	}
	if r.TpTriggerBy != "" {
		body["tpTriggerBy"] = string(r.TpTriggerBy)
	}
	if r.SlTriggerBy != "" {
		body["slTriggerBy"] = string(r.SlTriggerBy)
	}
	if r.ReduceOnly != nil {
		body["reduceOnly"] = *r.ReduceOnly
	}
	if r.CloseOnTrigger != nil {
		body["closeOnTrigger"] = *r.CloseOnTrigger
	}
	if r.TpSlMode != "" {
		body["tpslMode"] = string(r.TpSlMode)
	}
	if r.TpLimitPrice != "" {
		body["tpLimitPrice"] = r.TpLimitPrice
	}
	if r.SlLimitPrice != "" {
		body["slLimitPrice"] = r.SlLimitPrice
	}
	if r.TpOrderType != "" {
		body["tpOrderType"] = string(r.TpOrderType)
	}
	if r.SlOrderType != "" {
		body["slOrderType"] = string(r.SlOrderType)
	}

	return body
}

// SetTradingStopRequest mirrors POST /v5/position/trading-stop. Same
// omission rule as PlaceOrderRequest.
type SetTradingStopRequest struct {
	Category Category
	Symbol   string

	TakeProfit   string
	StopLoss     string
	TrailingStop string

	TpTriggerBy TriggerBy
	SlTriggerBy TriggerBy
	ActivePrice string

	TpSlMode TpSlMode // defaults to Full
	TpSize   string
	SlSize   string

	TpLimitPrice string
	SlLimitPrice string
	TpOrderType  TpSlOrderType // defaults to Market
	SlOrderType  TpSlOrderType // defaults to Market

	// PositionIdx: 0 one-way, 1 hedge Buy, 2 hedge Sell.
	PositionIdx int
}

func (r SetTradingStopRequest) payload() map[string]interface{} {
	mode := r.TpSlMode
	if mode == "" {
		mode = TpSlModeFull
	}
	tpType := r.TpOrderType
	if tpType == "" {
		tpType = TpSlOrderTypeMarket
	}
	slType := r.SlOrderType
	if slType == "" {
		slType = TpSlOrderTypeMarket
	}

	body := map[string]interface{}{
		"category":    string(r.Category),
		"symbol":      r.Symbol,
		"tpslMode":    string(mode),
		"positionIdx": r.PositionIdx,
		"tpOrderType": string(tpType),
		"slOrderType": string(slType),
	}

	if r.TakeProfit != "" {
		body["takeProfit"] = r.TakeProfit
	}
	if r.StopLoss != "" {
		body["stopLoss"] = r.StopLoss
	}
	if r.TrailingStop != "" {
		body["trailingStop"] = r.TrailingStop
	}
	if r.TpTriggerBy != "" {
		body["tpTriggerBy"] = string(r.TpTriggerBy)
	}
	if r.SlTriggerBy != "" {
		body["slTriggerBy"] = string(r.SlTriggerBy)
	}
	if r.ActivePrice != "" {
		body["activePrice"] = r.ActivePrice
	}
	if r.TpSize != "" {
		body["tpSize"] = r.TpSize
	}
	if r.SlSize != "" {
		body["slSize"] = r.SlSize
	}
	if r.TpLimitPrice != "" {
		body["tpLimitPrice"] = r.TpLimitPrice
	}
	if r.SlLimitPrice != "" {
		body["slLimitPrice"] = r.SlLimitPrice
	}

	return body
}
