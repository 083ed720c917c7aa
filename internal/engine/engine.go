package engine

import (
	"context"
	"fmt"
	"time"

	"signal_gate/internal/models"
	"signal_gate/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// Engine — полный конвейер одного сигнала:
// снапшот стратегий -> матчинг -> диспатч по учёткам -> агрегация.
// Состояния сам не держит, всё приходит через порты.
type Engine struct {
	strategies StrategyStore
	matcher    *Matcher
	dispatcher *Dispatcher
	aggregator *Aggregator
	notifier   Notifier

	signalTimeout time.Duration
}

func New(strategies StrategyStore, matcher *Matcher, dispatcher *Dispatcher, aggregator *Aggregator, notifier Notifier, signalTimeout time.Duration) *Engine {
	if signalTimeout <= 0 {
		signalTimeout = 30 * time.Second
	}
	return &Engine{
		strategies:    strategies,
		matcher:       matcher,
		dispatcher:    dispatcher,
		aggregator:    aggregator,
		notifier:      notifier,
		signalTimeout: signalTimeout,
	}
}

// ProcessSignal обрабатывает один вебхук от начала до конца. Всегда
// заканчивается записью в журнал алертов — либо с результатами по
// учёткам, либо error-записью об отказе до диспатча.
func (e *Engine) ProcessSignal(ctx context.Context, sig models.TradeSignal) *models.ExecutionSummary {
	span, ctx := opentracing.StartSpanFromContext(ctx, "engine.process_signal")
	defer span.Finish()
	span.SetTag("strategy", sig.StrategyName)
	span.SetTag("symbol", sig.Symbol)

	ctx, cancel := context.WithTimeout(ctx, e.signalTimeout)
	defer cancel()

	// снапшот конфигурации: правки стратегии во время диспатча
	// не влияют на уже летящий сигнал
	strategies, err := e.strategies.Load(ctx, sig.UserID)
	if err != nil {
		logger.Error("strategies load failed for user %s: %v", sig.UserID, err)
		return e.Reject(ctx, sig, nil, fmt.Errorf("load strategies: %w", err))
	}

	strat, side, err := e.matcher.Match(strategies, sig)
	if err != nil {
		return e.Reject(ctx, sig, nil, err)
	}

	if len(strat.EnabledAccounts()) == 0 {
		return e.Reject(ctx, sig, strat, fmt.Errorf("%w: strategy %q", ErrNoEnabledAccounts, strat.Name))
	}

	logger.Info("[%s] %s %s @ %v: диспатч по %d учёткам",
		sig.Symbol, strat.Name, side, sig.Entry, len(strat.EnabledAccounts()))

	results := e.dispatcher.Dispatch(ctx, strat, side, sig)

	summary, err := e.aggregator.Aggregate(ctx, strat, sig, side, results)
	if err != nil {
		logger.Error("aggregate failed: %v", err)
		return &models.ExecutionSummary{Success: false, Status: models.AlertError, Message: err.Error(), Results: results}
	}

	span.SetTag("status", string(summary.Status))
	e.report(strat.Name, sig, summary)
	return summary
}

func (e *Engine) Reject(ctx context.Context, sig models.TradeSignal, strat *models.Strategy, cause error) *models.ExecutionSummary {
	logger.Error("[%s] сигнал отбит: %v", sig.Symbol, cause)
	summary := e.aggregator.RecordRejection(ctx, sig, strat, cause)
	if e.notifier != nil {
		e.notifier.Sendf("⛔️ [%s] %s: %v", sig.Symbol, sig.StrategyName, cause)
	}
	return summary
}

func (e *Engine) report(strategyName string, sig models.TradeSignal, summary *models.ExecutionSummary) {
	if e.notifier == nil {
		return
	}
	unprotected := 0
	for _, r := range summary.Results {
		if r.Success && !r.Protected {
			unprotected++
		}
	}
	icon := "✅"
	switch summary.Status {
	case models.AlertPartial:
		icon = "⚠️"
	case models.AlertError:
		icon = "❌"
	}
	msg := fmt.Sprintf("%s [%s] %s | %s | %s", icon, sig.Symbol, strategyName, summary.Status, summary.Message)
	if unprotected > 0 {
		msg += fmt.Sprintf(" | %d позиций БЕЗ защиты", unprotected)
	}
	e.notifier.Sendf("%s", msg)
}
