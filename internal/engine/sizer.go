package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"signal_gate/pkg/logger"
)

// Sizer переводит денежный риск (damage cost) в размер позиции.
type Sizer struct{}

func NewSizer() *Sizer { return &Sizer{} }

// SizedQuantity — сырой и квантованный размер плюс нотионал для отчёта.
type SizedQuantity struct {
	Quantity      float64
	QtyStr        string
	PositionValue float64
}

// Size считает qty = damageCost / |entry - stop| и приводит к шагу
// инструмента через биржевой клиент. Если биржа не отдала шаг —
// откатываемся на округление до 6 знаков, сделку из-за этого не роняем.
func (s *Sizer) Size(ctx context.Context, ex ExchangeClient, symbol string, damageCost, entry, stop float64) (SizedQuantity, error) {
	if err := validateRisk(damageCost, entry, stop); err != nil {
		return SizedQuantity{}, err
	}

	raw := damageCost / math.Abs(entry-stop)

	qtyStr, err := ex.FormatQuantity(ctx, symbol, raw)
	if err != nil {
		logger.Error("[%s] формат количества не удался, откат на округление: %v", symbol, err)
		qtyStr = strconv.FormatFloat(round6(raw), 'f', -1, 64)
	}

	qty, err := strconv.ParseFloat(qtyStr, 64)
	if err != nil || qty <= 0 {
		return SizedQuantity{}, fmt.Errorf("%w: quantized qty %q", ErrInvalidRiskParams, qtyStr)
	}

	return SizedQuantity{
		Quantity:      qty,
		QtyStr:        qtyStr,
		PositionValue: qty * entry,
	}, nil
}

func validateRisk(damageCost, entry, stop float64) error {
	for name, v := range map[string]float64{"damage cost": damageCost, "entry": entry, "stop loss": stop} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidRiskParams, name, v)
		}
	}
	if entry == stop {
		return fmt.Errorf("%w: entry == stop loss (%v)", ErrInvalidRiskParams, entry)
	}
	return nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
