package bybit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const (
	testAPIKey    = "test-key"
	testAPISecret = "test-secret"
)

func okEnvelope(result string) string {
	return `{"retCode":0,"retMsg":"OK","result":` + result + `,"time":1700000000000}`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(testAPIKey, testAPISecret, srv.URL), srv
}

func TestPlaceOrder_SignsRequestAndParsesAck(t *testing.T) {
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v5/order/create" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}

		if r.Header.Get("X-BAPI-API-KEY") != testAPIKey {
			t.Fatalf("missing api key header")
		}
		ts := r.Header.Get("X-BAPI-TIMESTAMP")
		recv := r.Header.Get("X-BAPI-RECV-WINDOW")
		if ts == "" || recv == "" {
			t.Fatalf("missing timestamp/recvWindow headers")
		}

		expected := signRequest(ts, testAPIKey, recv, string(body), testAPISecret)
		if got := r.Header.Get("X-BAPI-SIGN"); got != expected {
			t.Fatalf("signature mismatch: got %s want %s", got, expected)
		}

		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Fatalf("body is not valid JSON: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okEnvelope(`{"orderId":"1321003749386327552","orderLinkId":"my-link-id"}`)))
	})

	ack, err := client.PlaceOrder(PlaceOrderRequest{
		Category:   CategorySpot,
		Symbol:     "BTCUSDT",
		Side:       SideBuy,
		OrderType:  OrderTypeMarket,
		Qty:        "100",
		MarketUnit: MarketUnitQuoteCoin,
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if ack.OrderID != "1321003749386327552" {
		t.Fatalf("unexpected order id: %s", ack.OrderID)
	}
	if gotBody["symbol"] != "BTCUSDT" {
		t.Fatalf("unexpected symbol in payload: %v", gotBody["symbol"])
	}
	if linkID, _ := gotBody["orderLinkId"].(string); linkID == "" {
		t.Fatalf("expected a generated orderLinkId in the payload")
	}
}

func TestGetWalletBalance_SignsQueryAndParses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/account/wallet-balance" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		q := r.URL.Query()
		if q.Get("accountType") != "UNIFIED" || q.Get("coin") != "BTC" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}

		ts := r.Header.Get("X-BAPI-TIMESTAMP")
		expected := signRequest(ts, testAPIKey, r.Header.Get("X-BAPI-RECV-WINDOW"), r.URL.RawQuery, testAPISecret)
		if got := r.Header.Get("X-BAPI-SIGN"); got != expected {
			t.Fatalf("signature mismatch: got %s want %s", got, expected)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okEnvelope(`{"list":[{"accountType":"UNIFIED","coin":[{"coin":"BTC","walletBalance":"0.00239","availableToWithdraw":"0.00239"}]}]}`)))
	})

	result, err := client.GetWalletBalance(AccountTypeUnified, "BTC")
	if err != nil {
		t.Fatalf("GetWalletBalance failed: %v", err)
	}

	if len(result.List) != 1 || len(result.List[0].Coin) != 1 {
		t.Fatalf("unexpected result shape: %+v", result)
	}
	if result.List[0].Coin[0].AvailableToWithdraw != "0.00239" {
		t.Fatalf("unexpected available balance: %s", result.List[0].Coin[0].AvailableToWithdraw)
	}
}

func TestGetOrderByID_ParsesAvgPrice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/order/realtime" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("orderId") != "abc123" {
			t.Fatalf("unexpected orderId: %s", r.URL.Query().Get("orderId"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okEnvelope(`{"list":[{"orderId":"abc123","symbol":"BTCUSDT","orderStatus":"Filled","avgPrice":"26123.45"}]}`)))
	})

	result, err := client.GetOrderByID(CategorySpot, "abc123")
	if err != nil {
		t.Fatalf("GetOrderByID failed: %v", err)
	}

	if len(result.List) != 1 {
		t.Fatalf("expected one order, got %d", len(result.List))
	}
	if result.List[0].AvgPrice != "26123.45" {
		t.Fatalf("unexpected avgPrice: %s", result.List[0].AvgPrice)
	}
}

func TestGetInstrumentsInfo_ParsesFilters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okEnvelope(`{"category":"spot","list":[{"symbol":"BTCUSDT","baseCoin":"BTC","quoteCoin":"USDT","lotSizeFilter":{"basePrecision":"0.000001","minOrderQty":"0.000048"},"priceFilter":{"tickSize":"0.01"}}]}`)))
	})

	result, err := client.GetInstrumentsInfo(CategorySpot, "BTCUSDT")
	if err != nil {
		t.Fatalf("GetInstrumentsInfo failed: %v", err)
	}

	if len(result.List) != 1 {
		t.Fatalf("expected one instrument, got %d", len(result.List))
	}
	inst := result.List[0]
	if inst.LotSizeFilter.BasePrecision != "0.000001" {
		t.Fatalf("unexpected basePrecision: %s", inst.LotSizeFilter.BasePrecision)
	}
	if inst.PriceFilter.TickSize != "0.01" {
		t.Fatalf("unexpected tickSize: %s", inst.PriceFilter.TickSize)
	}
}

func TestNonZeroRetCodeIsAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"retCode":170131,"retMsg":"Insufficient balance.","result":{}}`))
	})

	_, err := client.PlaceOrder(PlaceOrderRequest{
		Category:  CategorySpot,
		Symbol:    "BTCUSDT",
		Side:      SideBuy,
		OrderType: OrderTypeMarket,
		Qty:       "100",
	})
	if err == nil {
		t.Fatalf("expected an error for non-zero retCode")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != 170131 {
		t.Fatalf("unexpected error code: %d", apiErr.Code)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var attempts atomic.Int32

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okEnvelope(`{"category":"spot","list":[]}`)))
	})

	if _, err := client.GetTickers(CategorySpot, "BTCUSDT"); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}
