package engine

import (
	"context"
	"fmt"
	"time"

	"signal_gate/internal/models"
	"signal_gate/pkg/logger"
)

// DispatcherConfig — паузы между шагами исполнения.
type DispatcherConfig struct {
	// Пауза между учётками. Рейт-лимиты биржи считаются на учётку,
	// но последовательный проход с паузой держит и общий поток в рамках.
	InterAccountDelay time.Duration
	// Пауза между входом и защитными ордерами, чтобы вход успел
	// зарегистрироваться на бирже.
	SettleDelay time.Duration
}

// Dispatcher исполняет сигнал по всем включённым учёткам стратегии:
// вход -> пауза -> стоп -> тейк. Ошибки одной учётки не трогают остальные.
type Dispatcher struct {
	cfg     DispatcherConfig
	creds   CredentialStore
	factory ExchangeFactory
	sizer   *Sizer
}

func NewDispatcher(cfg DispatcherConfig, creds CredentialStore, factory ExchangeFactory, sizer *Sizer) *Dispatcher {
	return &Dispatcher{cfg: cfg, creds: creds, factory: factory, sizer: sizer}
}

// Dispatch проходит учётки последовательно. Ретраев нет ни на одном шаге.
// Возвращает ровно по одному результату на включённую учётку.
func (d *Dispatcher) Dispatch(ctx context.Context, strat *models.Strategy, side models.Side, sig models.TradeSignal) []models.ExecutionResult {
	accounts := strat.EnabledAccounts()
	results := make([]models.ExecutionResult, 0, len(accounts))

	for i, acc := range accounts {
		if i > 0 {
			select {
			case <-ctx.Done():
				// таймаут сигнала: оставшиеся учётки помечаем, а не молчим
				for _, rest := range accounts[i:] {
					results = append(results, failure(rest.AccountRef, ctx.Err()))
				}
				return results
			case <-time.After(d.cfg.InterAccountDelay):
			}
		}
		results = append(results, d.executeAccount(ctx, strat, acc, side, sig))
	}
	return results
}

func (d *Dispatcher) executeAccount(ctx context.Context, strat *models.Strategy, acc models.AccountConfig, side models.Side, sig models.TradeSignal) models.ExecutionResult {
	// 1. Ключи учётки
	creds, err := d.creds.Get(ctx, strat.UserID, acc.AccountRef)
	if err != nil {
		logger.Error("[%s/%s] ключи не найдены: %v", sig.Symbol, acc.AccountRef, err)
		return failure(acc.AccountRef, fmt.Errorf("%w: %s", ErrMissingCredentials, acc.AccountRef))
	}
	ex := d.factory.ClientFor(creds)

	// 2. Размер позиции из damage cost
	sized, err := d.sizer.Size(ctx, ex, sig.Symbol, acc.DamageCost, sig.Entry, sig.StopLoss)
	if err != nil {
		return failure(acc.AccountRef, err)
	}

	intent := models.OrderIntent{
		AccountRef: acc.AccountRef,
		Symbol:     sig.Symbol,
		Side:       side,
		Quantity:   sized.Quantity,
		QtyStr:     sized.QtyStr,
		Entry:      sig.Entry,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		DamageCost: acc.DamageCost,
	}

	// 3. Входной лимитный ордер — его ошибка терминальна для учётки
	orderID, err := ex.PlaceOrder(ctx, PlaceOrderRequest{
		Symbol:      intent.Symbol,
		Side:        intent.Side,
		OrderType:   OrderTypeLimit,
		Qty:         intent.QtyStr,
		Price:       intent.Entry,
		TimeInForce: TifGTC,
	})
	if err != nil {
		logger.Error("[%s/%s] вход не размещён: %v", intent.Symbol, acc.AccountRef, err)
		return failure(acc.AccountRef, err)
	}

	res := models.ExecutionResult{
		AccountRef:    acc.AccountRef,
		Success:       true,
		OrderID:       orderID,
		Quantity:      sized.Quantity,
		PositionValue: sized.PositionValue,
		Protected:     true,
	}

	// 4. Даём входу зарегистрироваться перед защитными ордерами
	select {
	case <-ctx.Done():
		// вход уже на бирже — это «утёкшая» позиция, нужна ручная сверка
		logger.Error("[%s/%s] отмена после входа %s: позиция без стопа, нужна ручная сверка",
			intent.Symbol, acc.AccountRef, orderID)
		res.Protected = false
		return res
	case <-time.After(d.cfg.SettleDelay):
	}

	// 5. Стоп (reduce-only, противоположная сторона). Ошибка НЕ отменяет
	// успех входа, но позиция помечается незащищённой.
	if _, err := ex.PlaceOrder(ctx, PlaceOrderRequest{
		Symbol:      intent.Symbol,
		Side:        intent.Side.Opposite(),
		OrderType:   OrderTypeMarket,
		Qty:         intent.QtyStr,
		TriggerPx:   intent.StopLoss,
		ReduceOnly:  true,
		TimeInForce: TifGTC,
	}); err != nil {
		logger.Error("[%s/%s] стоп не выставлен: %v", intent.Symbol, acc.AccountRef, err)
		res.Protected = false
	}

	// 6. Тейк, если задан — с тем же правилом
	if intent.TakeProfit > 0 {
		if _, err := ex.PlaceOrder(ctx, PlaceOrderRequest{
			Symbol:      intent.Symbol,
			Side:        intent.Side.Opposite(),
			OrderType:   OrderTypeLimit,
			Qty:         intent.QtyStr,
			Price:       intent.TakeProfit,
			ReduceOnly:  true,
			TimeInForce: TifGTC,
		}); err != nil {
			logger.Error("[%s/%s] тейк не выставлен: %v", intent.Symbol, acc.AccountRef, err)
			res.Protected = false
		}
	}

	return res
}

func failure(accountRef string, err error) models.ExecutionResult {
	return models.ExecutionResult{AccountRef: accountRef, Success: false, Error: err.Error()}
}
