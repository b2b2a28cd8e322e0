package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bybitmanager/src/bybit"
	"bybitmanager/src/manager"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mockOrderPlacer struct {
	exec *manager.Execution
	err  error

	coin        string
	side        bybit.Side
	percent     float64
	tpPct       float64
	slPct       float64
	calledCount int
}

func (m *mockOrderPlacer) PlaceMarketOrderSpotToUSDT(coin string, side bybit.Side, percentOfBalance, tpPercentage, slPercentage float64) (*manager.Execution, error) {
	m.calledCount++
	m.coin = coin
	m.side = side
	m.percent = percentOfBalance
	m.tpPct = tpPercentage
	m.slPct = slPercentage
	return m.exec, m.err
}

func postOrder(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders/market", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPlaceMarketOrderHandler_InvalidBody(t *testing.T) {
	mock := &mockOrderPlacer{}
	rr := postOrder(t, PlaceMarketOrderHandler(mock), "{not json")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	assert.Equal(t, 0, mock.calledCount)
}

func TestPlaceMarketOrderHandler_InvalidSide(t *testing.T) {
	mock := &mockOrderPlacer{}
	rr := postOrder(t, PlaceMarketOrderHandler(mock),
		`{"coin":"BTC","side":"hold","percent_of_balance":10}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	assert.Equal(t, 0, mock.calledCount)
}

func TestPlaceMarketOrderHandler_PercentOutOfRange(t *testing.T) {
	mock := &mockOrderPlacer{}
	h := PlaceMarketOrderHandler(mock)

	for _, body := range []string{
		`{"coin":"BTC","side":"Buy","percent_of_balance":0}`,
		`{"coin":"BTC","side":"Buy","percent_of_balance":101}`,
		`{"coin":"BTC","side":"Buy","percent_of_balance":10,"stop_loss_pct":-1}`,
	} {
		rr := postOrder(t, h, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400 for %s, got %d", body, rr.Code)
		}
	}
	assert.Equal(t, 0, mock.calledCount)
}

func TestPlaceMarketOrderHandler_Success(t *testing.T) {
	tpPrice := decimal.RequireFromString("110")
	mock := &mockOrderPlacer{
		exec: &manager.Execution{
			OrderID:           "order-1",
			Symbol:            "BTCUSDT",
			AvgPrice:          decimal.RequireFromString("100"),
			Quantity:          decimal.RequireFromString("0.0023"),
			TakeProfitPrice:   &tpPrice,
			TakeProfitOrderID: "order-2",
		},
	}

	rr := postOrder(t, PlaceMarketOrderHandler(mock),
		`{"coin":"BTC","side":"buy","percent_of_balance":10,"take_profit_pct":10,"stop_loss_pct":5}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	assert.Equal(t, 1, mock.calledCount)
	assert.Equal(t, "BTC", mock.coin)
	assert.Equal(t, bybit.SideBuy, mock.side)
	assert.Equal(t, 10.0, mock.percent)
	assert.Equal(t, 10.0, mock.tpPct)
	assert.Equal(t, 5.0, mock.slPct)

	var resp map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	assert.Equal(t, "order-1", resp["order_id"])
	assert.Equal(t, "110", resp["take_profit_price"])
}

func TestPlaceMarketOrderHandler_OrderNotFilledMapsToBadGateway(t *testing.T) {
	mock := &mockOrderPlacer{err: manager.ErrOrderNotFilled}

	rr := postOrder(t, PlaceMarketOrderHandler(mock),
		`{"coin":"BTC","side":"Buy","percent_of_balance":10}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	assert.Contains(t, resp["error"], "average fill price")
}
