package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bybitmanager/src/bybit"
	"bybitmanager/src/manager"

	logger "github.com/sirupsen/logrus"
)

type orderPlacer interface {
	PlaceMarketOrderSpotToUSDT(coin string, side bybit.Side, percentOfBalance, tpPercentage, slPercentage float64) (*manager.Execution, error)
}

type marketOrderRequest struct {
	Coin             string  `json:"coin"`
	Side             string  `json:"side"`
	PercentOfBalance float64 `json:"percent_of_balance"`
	TakeProfitPct    float64 `json:"take_profit_pct"`
	StopLossPct      float64 `json:"stop_loss_pct"`
}

// PlaceMarketOrderHandler returns a handler that runs the full order flow:
// percent-of-balance spot market order plus optional TP/SL legs.
func PlaceMarketOrderHandler(m orderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req marketOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.Coin == "" {
			http.Error(w, "coin is required", http.StatusBadRequest)
			return
		}

		side, err := bybit.ParseSide(req.Side)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.PercentOfBalance <= 0 || req.PercentOfBalance > 100 {
			http.Error(w, "percent_of_balance must be in (0, 100]", http.StatusBadRequest)
			return
		}
		if req.TakeProfitPct < 0 || req.StopLossPct < 0 {
			http.Error(w, "take_profit_pct and stop_loss_pct must not be negative", http.StatusBadRequest)
			return
		}

		exec, err := m.PlaceMarketOrderSpotToUSDT(req.Coin, side, req.PercentOfBalance, req.TakeProfitPct, req.StopLossPct)
		if err != nil {
			logger.WithError(err).WithFields(map[string]interface{}{
				"coin": req.Coin,
				"side": side,
			}).Error("order flow failed")

			status := http.StatusInternalServerError
			if errors.Is(err, manager.ErrOrderNotFilled) || errors.Is(err, manager.ErrInstrumentNotFound) {
				status = http.StatusBadGateway
			}
			var apiErr *bybit.APIError
			if errors.As(err, &apiErr) {
				status = http.StatusBadGateway
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(exec); err != nil {
			logger.WithError(err).Error("failed to encode execution response")
		}
	}
}
