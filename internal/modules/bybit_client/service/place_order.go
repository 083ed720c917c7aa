package service

import (
	"context"
	"fmt"
	"strconv"

	"signal_gate/internal/engine"
	"signal_gate/internal/models"
)

// PlaceOrder отправляет ордер на /v5/order/create.
// Условный стоп (TriggerPx > 0) у Bybit — это Market-ордер с triggerPrice
// и triggerDirection: 2 — срабатывание на падении (стоп лонга),
// 1 — на росте (стоп шорта).
func (c *Client) PlaceOrder(ctx context.Context, req engine.PlaceOrderRequest) (string, error) {
	body := map[string]string{
		"category":    categoryLinear,
		"symbol":      req.Symbol,
		"side":        bybitSide(req.Side),
		"orderType":   req.OrderType,
		"qty":         req.Qty,
		"timeInForce": req.TimeInForce,
	}
	if req.Price > 0 {
		body["price"] = strconv.FormatFloat(req.Price, 'f', -1, 64)
	}
	if req.TriggerPx > 0 {
		body["triggerPrice"] = strconv.FormatFloat(req.TriggerPx, 'f', -1, 64)
		if req.Side == models.SideSell {
			body["triggerDirection"] = "2"
		} else {
			body["triggerDirection"] = "1"
		}
	}
	if req.ReduceOnly {
		body["reduceOnly"] = "true"
	}

	var resp OrderCreateResponse
	if err := c.doPost(ctx, "/v5/order/create", body, &resp); err != nil {
		return "", err
	}
	if resp.RetCode != 0 {
		return "", fmt.Errorf("bybit order error: code=%d msg=%s", resp.RetCode, resp.RetMsg)
	}
	if resp.Result.OrderID == "" {
		return "", fmt.Errorf("bybit order: empty orderId in response")
	}
	return resp.Result.OrderID, nil
}

// bybitSide: внутренние "BUY"/"SELL" -> "Buy"/"Sell" как ждёт API.
func bybitSide(s models.Side) string {
	if s == models.SideBuy {
		return "Buy"
	}
	return "Sell"
}
