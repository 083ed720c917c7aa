package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type instrumentMeta struct {
	qtyStep float64
	minQty  float64
	// знаков после запятой в qtyStep — для форматирования
	decimals int
}

// FormatQuantity приводит сырой размер к шагу лота инструмента.
// Округляем вниз: перебор размера хуже недобора.
func (c *Client) FormatQuantity(ctx context.Context, symbol string, rawQty float64) (string, error) {
	meta, err := c.f.instrumentMeta(ctx, symbol)
	if err != nil {
		return "", err
	}

	steps := math.Floor(rawQty/meta.qtyStep + 1e-9)
	qty := steps * meta.qtyStep
	if qty < meta.minQty {
		return "", fmt.Errorf("qty %.8f below minOrderQty %.8f for %s", qty, meta.minQty, symbol)
	}
	return strconv.FormatFloat(qty, 'f', meta.decimals, 64), nil
}

func (f *Factory) instrumentMeta(ctx context.Context, symbol string) (instrumentMeta, error) {
	f.metaMu.RLock()
	m, ok := f.meta[symbol]
	f.metaMu.RUnlock()
	if ok {
		return m, nil
	}

	var resp InstrumentsInfoResponse
	query := "category=" + categoryLinear + "&symbol=" + symbol
	if err := f.doGet(ctx, "/v5/market/instruments-info", query, &resp); err != nil {
		return instrumentMeta{}, err
	}
	if resp.RetCode != 0 {
		return instrumentMeta{}, fmt.Errorf("bybit instruments error: code=%d msg=%s", resp.RetCode, resp.RetMsg)
	}
	if len(resp.Result.List) == 0 {
		return instrumentMeta{}, fmt.Errorf("no instrument info for %s", symbol)
	}

	lot := resp.Result.List[0].LotSizeFilter
	step, err := strconv.ParseFloat(lot.QtyStep, 64)
	if err != nil || step <= 0 {
		return instrumentMeta{}, fmt.Errorf("bad qtyStep %q for %s", lot.QtyStep, symbol)
	}
	minQty, _ := strconv.ParseFloat(lot.MinOrderQty, 64)

	m = instrumentMeta{
		qtyStep:  step,
		minQty:   minQty,
		decimals: stepDecimals(lot.QtyStep),
	}

	f.metaMu.Lock()
	f.meta[symbol] = m
	f.metaMu.Unlock()
	return m, nil
}

func stepDecimals(step string) int {
	if i := strings.IndexByte(step, '.'); i >= 0 {
		return len(strings.TrimRight(step[i+1:], "0"))
	}
	return 0
}
