package alpaca

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		trading: resty.New().SetBaseURL(srv.URL),
		data:    resty.New().SetBaseURL(srv.URL),
		paper:   true,
	}
}

func TestGetAccountInfo_ParsesMoneyStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account", r.URL.Path)
		w.Write([]byte(`{"cash":"25000.50","portfolio_value":"50000","buying_power":"100000","equity":"50000"}`))
	}))
	defer srv.Close()

	info, err := testClient(srv).GetAccountInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25000.50, info.Cash)
	assert.Equal(t, 50000.0, info.PortfolioValue)
	assert.Equal(t, 100000.0, info.BuyingPower)
	assert.Equal(t, 24999.50, info.Exposure())
}

func TestGetAccountInfo_BlockedAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cash":"1000","portfolio_value":"1000","trading_blocked":true}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetAccountInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestGetPositions_ShortQuantityNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/positions", r.URL.Path)
		w.Write([]byte(`[
			{"symbol":"AAPL","qty":"20","side":"long","avg_entry_price":"150","current_price":"155","unrealized_pl":"100","unrealized_plpc":"0.0333"},
			{"symbol":"TSLA","qty":"-10","side":"short","avg_entry_price":"200","current_price":"190","unrealized_pl":"100","unrealized_plpc":"0.05"}
		]`))
	}))
	defer srv.Close()

	positions, err := testClient(srv).GetPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, broker.PositionSideLong, positions[0].Side)
	assert.Equal(t, 20.0, positions[0].Quantity)

	assert.Equal(t, broker.PositionSideShort, positions[1].Side)
	assert.Equal(t, 10.0, positions[1].Quantity, "short qty reported negative by the API is stored non-negative")
}

func TestGetLatestQuote_NoQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"ZZZZ","quote":{"ap":0,"bp":0}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetLatestQuote(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote available")
}

func TestPlaceMarketOrder_RejectsNonPositiveQty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	_, err := testClient(srv).PlaceMarketOrder(context.Background(), "AAPL", broker.OrderSideBuy, 0)
	require.Error(t, err)
}

func TestParseAPIError(t *testing.T) {
	err := parseAPIError(403, []byte(`{"code":40310000,"message":"insufficient buying power"}`))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Equal(t, ErrCodeInsufficientBuyingPower, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "insufficient buying power")
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsRetryableError(&APIError{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, IsRetryableError(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsRetryableError(context.DeadlineExceeded))
}

func TestRetry_GivesUpOnNonRetryable(t *testing.T) {
	calls := 0
	c := &Client{}
	err := c.Retry(context.Background(), func() error {
		calls++
		return &APIError{StatusCode: http.StatusForbidden, Message: "forbidden"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
