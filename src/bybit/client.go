// REST API CLIENT FOR BYBIT V5 UNIFIED TRADING
// RESTY ONLY + INTERNAL RETRY
package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultRetryAttempts   = 5
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second

	defaultRecvWindow = "5000"
)

// APIResponse is the v5 envelope every endpoint returns.
type APIResponse struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
	Time    int64           `json:"time"`
}

// APIError is a non-zero retCode returned by the exchange.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bybit API error %d: %s", e.Code, e.Msg)
}

// Client is an authenticated Bybit v5 REST client. Transport failures and
// retryable HTTP statuses are retried by resty with the same body, so a
// replayed order create carries the same orderLinkId and the exchange
// rejects the duplicate instead of filling twice.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	recvWindow string
	http       *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

func NewClient(apiKey, apiSecret, baseURL string) *Client {
	retryCount := defaultRetryAttempts - 1

	if baseURL == "" {
		baseURL = "https://api-demo.bybit.com"
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &Client{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    baseURL,
		recvWindow: defaultRecvWindow,
		http:       httpClient,
	}
}

// signRequest builds the v5 signature:
// hex(HMAC_SHA256(timestamp + apiKey + recvWindow + payload)) where payload
// is the query string for GET and the JSON body for POST.
func signRequest(timestamp, apiKey, recvWindow, payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + apiKey + recvWindow + payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) doRequest(method, path, query string, body []byte) (*APIResponse, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	payload := query
	if body != nil {
		payload = string(body)
	}
	sig := signRequest(timestamp, c.apiKey, c.recvWindow, payload, c.apiSecret)

	req := c.http.R().
		SetHeader("X-BAPI-API-KEY", c.apiKey).
		SetHeader("X-BAPI-TIMESTAMP", timestamp).
		SetHeader("X-BAPI-RECV-WINDOW", c.recvWindow).
		SetHeader("X-BAPI-SIGN", sig).
		SetHeader("X-BAPI-SIGN-TYPE", "2")

	if query != "" {
		req = req.SetQueryString(query)
	}
	if body != nil {
		req = req.SetBody(body).SetHeader("Content-Type", "application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}

	raw := resp.Body()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), string(raw))
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, err
	}

	if apiResp.RetCode != 0 {
		return nil, &APIError{Code: apiResp.RetCode, Msg: apiResp.RetMsg}
	}

	return &apiResp, nil
}

func (c *Client) get(path string, query url.Values, out interface{}) error {
	resp, err := c.doRequest("GET", path, query.Encode(), nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}

func (c *Client) post(path string, payload map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.doRequest("POST", path, "", body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}
