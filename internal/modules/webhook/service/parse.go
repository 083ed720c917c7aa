package service

import (
	"bytes"
	"fmt"
	"strconv"

	"signal_gate/internal/engine"
	"signal_gate/internal/models"

	"github.com/bytedance/sonic"
)

// FlexFloat: TradingView шлёт цены то числом, то строкой ("45000.5").
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("bad number %q: %w", string(b), err)
	}
	*f = FlexFloat(v)
	return nil
}

// WebhookPayload — тело алерта как его настраивают в TradingView.
type WebhookPayload struct {
	Strategy string    `json:"strategy"`
	Symbol   string    `json:"symbol"`
	Action   string    `json:"action"`
	Entry    FlexFloat `json:"entry"`
	SL       FlexFloat `json:"sl"`
	TP       FlexFloat `json:"tp"`
	UserID   string    `json:"userId"`
	AlertID  string    `json:"alertId"`
}

// ParseSignal валидирует вебхук до любых обращений к базе.
// userID из query-параметра главнее, чем из тела.
func ParseSignal(body []byte, userID string) (models.TradeSignal, error) {
	var p WebhookPayload
	if err := sonic.Unmarshal(body, &p); err != nil {
		return models.TradeSignal{}, fmt.Errorf("%w: %v", engine.ErrValidation, err)
	}

	if userID == "" {
		userID = p.UserID
	}

	sig := models.TradeSignal{
		UserID:       userID,
		StrategyName: p.Strategy,
		Symbol:       p.Symbol,
		Action:       p.Action,
		Entry:        float64(p.Entry),
		StopLoss:     float64(p.SL),
		TakeProfit:   float64(p.TP),
		AlertID:      p.AlertID,
	}

	switch {
	case sig.UserID == "":
		return sig, fmt.Errorf("%w: userId is required", engine.ErrValidation)
	case sig.StrategyName == "":
		return sig, fmt.Errorf("%w: strategy is required", engine.ErrValidation)
	case sig.Symbol == "":
		return sig, fmt.Errorf("%w: symbol is required", engine.ErrValidation)
	case sig.Action == "":
		return sig, fmt.Errorf("%w: action is required", engine.ErrValidation)
	case sig.Entry == 0:
		return sig, fmt.Errorf("%w: entry is required", engine.ErrValidation)
	case sig.StopLoss == 0:
		return sig, fmt.Errorf("%w: sl is required", engine.ErrValidation)
	}
	return sig, nil
}
