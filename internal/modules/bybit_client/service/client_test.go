package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"signal_gate/internal/engine"
	"signal_gate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds() models.Credentials {
	return models.Credentials{AccountRef: "acc", APIKey: "key", APISecret: "secret"}
}

func TestFormatQuantity(t *testing.T) {
	var metaCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/instruments-info", r.URL.Path)
		metaCalls.Add(1)
		_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
			{"symbol":"BTCUSDT","lotSizeFilter":{"qtyStep":"0.001","minOrderQty":"0.001","maxOrderQty":"100"}}
		]}}`))
	}))
	defer srv.Close()

	f := NewFactory(srv.URL, "5000")
	c := f.NewClient(testCreds())
	ctx := context.Background()

	got, err := c.FormatQuantity(ctx, "BTCUSDT", 0.0523)
	require.NoError(t, err)
	assert.Equal(t, "0.052", got)

	// второй вызов идёт из кэша
	got, err = c.FormatQuantity(ctx, "BTCUSDT", 1.0)
	require.NoError(t, err)
	assert.Equal(t, "1.000", got)
	assert.Equal(t, int32(1), metaCalls.Load())

	// ниже минимального размера — ошибка, а не нулевой ордер
	_, err = c.FormatQuantity(ctx, "BTCUSDT", 0.0004)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minOrderQty")
}

func TestPlaceOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/order/create", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-BAPI-API-KEY"))
		assert.NotEmpty(t, r.Header.Get("X-BAPI-SIGN"))
		assert.NotEmpty(t, r.Header.Get("X-BAPI-TIMESTAMP"))
		assert.Equal(t, "5000", r.Header.Get("X-BAPI-RECV-WINDOW"))
		_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"orderId":"ord-123","orderLinkId":""}}`))
	}))
	defer srv.Close()

	f := NewFactory(srv.URL, "5000")
	c := f.NewClient(testCreds())

	id, err := c.PlaceOrder(context.Background(), engine.PlaceOrderRequest{
		Symbol:      "BTCUSDT",
		Side:        models.SideBuy,
		OrderType:   engine.OrderTypeLimit,
		Qty:         "0.05",
		Price:       45000,
		TimeInForce: engine.TifGTC,
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-123", id)
}

func TestPlaceOrderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retCode":110007,"retMsg":"insufficient balance","result":{}}`))
	}))
	defer srv.Close()

	f := NewFactory(srv.URL, "5000")
	c := f.NewClient(testCreds())

	_, err := c.PlaceOrder(context.Background(), engine.PlaceOrderRequest{
		Symbol: "BTCUSDT", Side: models.SideSell, OrderType: engine.OrderTypeMarket, Qty: "1", TimeInForce: engine.TifGTC,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestStepDecimals(t *testing.T) {
	assert.Equal(t, 3, stepDecimals("0.001"))
	assert.Equal(t, 1, stepDecimals("0.100"))
	assert.Equal(t, 0, stepDecimals("1"))
	assert.Equal(t, 0, stepDecimals("10"))
}
