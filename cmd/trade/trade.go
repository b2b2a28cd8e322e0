package trade

import (
	"errors"

	"bybitmanager/src/bybit"
	"bybitmanager/src/manager"

	logger "github.com/sirupsen/logrus"
)

// Trade runs one order flow: a percent-of-balance spot market order against
// USDT with optional take-profit and stop-loss legs.
type Trade struct {
	Coin             string
	Side             string
	PercentOfBalance float64
	TakeProfitPct    float64
	StopLossPct      float64
}

func (t *Trade) Start() error {
	side, err := bybit.ParseSide(t.Side)
	if err != nil {
		return err
	}

	if t.PercentOfBalance <= 0 || t.PercentOfBalance > 100 {
		return errors.New("percent of balance must be in (0, 100]")
	}
	if t.TakeProfitPct < 0 || t.StopLossPct < 0 {
		return errors.New("take profit and stop loss percentages must not be negative")
	}

	cfg := bybit.GetConfig()
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return errors.New("BYBIT_API_KEY and BYBIT_API_SECRET must be set")
	}

	client := bybit.NewClient(cfg.APIKey, cfg.APISecret, cfg.BaseURL)
	mgr := manager.New(client)

	exec, err := mgr.PlaceMarketOrderSpotToUSDT(t.Coin, side, t.PercentOfBalance, t.TakeProfitPct, t.StopLossPct)
	if err != nil {
		logger.WithError(err).Error("order flow failed")
		return err
	}

	fields := map[string]interface{}{
		"orderId":  exec.OrderID,
		"symbol":   exec.Symbol,
		"avgPrice": exec.AvgPrice,
		"qty":      exec.Quantity,
	}
	if exec.TakeProfitPrice != nil {
		fields["takeProfitPrice"] = *exec.TakeProfitPrice
		fields["takeProfitOrderId"] = exec.TakeProfitOrderID
	}
	if exec.StopLossPrice != nil {
		fields["stopLossPrice"] = *exec.StopLossPrice
		fields["stopLossOrderId"] = exec.StopLossOrderID
	}
	logger.WithFields(fields).Info("order flow completed")

	return nil
}
