package engine

import (
	"fmt"
	"strings"

	"signal_gate/internal/models"
)

// ParseAction нормализует текст алерта в сторону сделки.
// TradingView шлёт что угодно: "buy", "BUY long", "strategy.close short" —
// поэтому ищем подстроки, но результат строго двухзначный.
func ParseAction(raw string) (models.Side, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "buy"), strings.Contains(s, "long"):
		return models.SideBuy, nil
	case strings.Contains(s, "sell"), strings.Contains(s, "short"):
		return models.SideSell, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
}

// Matcher резолвит сигнал в стратегию. Чистый lookup, без побочных эффектов.
type Matcher struct{}

func NewMatcher() *Matcher { return &Matcher{} }

// Match ищет включённую стратегию с точным (case-sensitive) совпадением имени,
// затем парсит action и проверяет совместимость направления со стороной сигнала.
// Порядок важен: неизвестная стратегия отбивается раньше кривого action.
func (m *Matcher) Match(strategies []models.Strategy, sig models.TradeSignal) (*models.Strategy, models.Side, error) {
	var found *models.Strategy
	for i := range strategies {
		if strategies[i].Enabled && strategies[i].Name == sig.StrategyName {
			found = &strategies[i]
			break
		}
	}
	if found == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrStrategyNotFound, sig.StrategyName)
	}

	side, err := ParseAction(sig.Action)
	if err != nil {
		return nil, "", err
	}

	if !found.Direction.Allows(side) {
		return nil, "", fmt.Errorf("%w: strategy %q is %s-only, signal is %s",
			ErrDirectionMismatch, found.Name, found.Direction, side)
	}

	return found, side, nil
}
