package engine

import (
	"context"
	"fmt"
	"time"

	"signal_gate/internal/models"
	"signal_gate/pkg/logger"
)

// Aggregator сводит результаты по учёткам в итоговый статус
// и пишет append-only запись в журнал алертов.
type Aggregator struct {
	alerts     AlertStore
	strategies StrategyStore
}

func NewAggregator(alerts AlertStore, strategies StrategyStore) *Aggregator {
	return &Aggregator{alerts: alerts, strategies: strategies}
}

// StatusOf: success — все учётки прошли, partial — часть, error — ни одной.
func StatusOf(results []models.ExecutionResult) models.AlertStatus {
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	switch {
	case len(results) > 0 && succeeded == len(results):
		return models.AlertSuccess
	case succeeded > 0:
		return models.AlertPartial
	default:
		return models.AlertError
	}
}

// Aggregate строит AlertRecord, сохраняет его и инкрементит счётчик
// алертов стратегии. Входные results не мутируются.
func (a *Aggregator) Aggregate(ctx context.Context, strat *models.Strategy, sig models.TradeSignal, side models.Side, results []models.ExecutionResult) (*models.ExecutionSummary, error) {
	status := StatusOf(results)
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	msg := fmt.Sprintf("%d/%d accounts executed", succeeded, len(results))

	rec := &models.AlertRecord{
		UserID:       sig.UserID,
		StrategyID:   strat.ID,
		StrategyName: strat.Name,
		Symbol:       sig.Symbol,
		Action:       string(side),
		Status:       status,
		Message:      msg,
		AlertID:      sig.AlertID,
		Results:      append([]models.ExecutionResult(nil), results...),
		CreatedAt:    time.Now().UTC(),
	}

	// журнал пишем на отцеплённом контексте: запись должна пережить
	// таймаут сигнала, иначе позиция без стопа останется без следа
	jctx := context.WithoutCancel(ctx)
	if err := a.alerts.Append(jctx, rec); err != nil {
		// исполнение уже случилось, поэтому ошибку журнала не превращаем
		// в ошибку сигнала — только логируем
		logger.Error("alert append failed: %v", err)
	}
	if err := a.strategies.IncrementAlertCount(jctx, strat.ID); err != nil {
		logger.Error("alerts_count increment failed: %v", err)
	}

	return &models.ExecutionSummary{
		Success: succeeded > 0,
		Status:  status,
		Message: msg,
		Results: rec.Results,
	}, nil
}

// RecordRejection пишет error-запись для сигнала, отбитого до диспатча
// (валидация, матчер, нет учёток). Results пустой.
func (a *Aggregator) RecordRejection(ctx context.Context, sig models.TradeSignal, strat *models.Strategy, cause error) *models.ExecutionSummary {
	rec := &models.AlertRecord{
		UserID:       sig.UserID,
		StrategyName: sig.StrategyName,
		Symbol:       sig.Symbol,
		Action:       sig.Action,
		Status:       models.AlertError,
		Message:      cause.Error(),
		AlertID:      sig.AlertID,
		Results:      []models.ExecutionResult{},
		CreatedAt:    time.Now().UTC(),
	}
	if strat != nil {
		rec.StrategyID = strat.ID
		rec.StrategyName = strat.Name
	}

	if err := a.alerts.Append(context.WithoutCancel(ctx), rec); err != nil {
		logger.Error("alert append failed: %v", err)
	}

	return &models.ExecutionSummary{
		Success: false,
		Status:  models.AlertError,
		Message: cause.Error(),
		Results: rec.Results,
	}
}
