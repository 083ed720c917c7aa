package models

import "time"

// Side как в раннере: "BUY"/"SELL".
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite — сторона закрывающего (reduce-only) ордера.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// TradeSignal — разобранный вебхук. Живёт только на время обработки,
// в базу попадает уже производный AlertRecord.
type TradeSignal struct {
	UserID       string
	StrategyName string
	Symbol       string
	Action       string // сырой текст алерта, нормализуется матчером
	Entry        float64
	StopLoss     float64
	TakeProfit   float64 // 0 => тейк не ставим
	AlertID      string  // опциональный ключ от отправителя, только для аудита
}

// OrderIntent — что именно исполняем на одной учётке.
type OrderIntent struct {
	AccountRef string
	Symbol     string
	Side       Side
	Quantity   float64
	QtyStr     string // квантованное значение для биржи
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	DamageCost float64
}

// ExecutionResult — исход по одной учётке.
// Protected=false значит вход есть, а стоп/тейк не встали —
// позиция осталась без защиты, это видно в отчёте.
type ExecutionResult struct {
	AccountRef    string  `json:"account_ref"`
	Success       bool    `json:"success"`
	OrderID       string  `json:"order_id,omitempty"`
	Error         string  `json:"error,omitempty"`
	Quantity      float64 `json:"quantity,omitempty"`
	PositionValue float64 `json:"position_value,omitempty"`
	Protected     bool    `json:"protected"`
}

// AlertStatus — трёхзначный итог по всем учёткам.
type AlertStatus string

const (
	AlertSuccess AlertStatus = "success"
	AlertPartial AlertStatus = "partial"
	AlertError   AlertStatus = "error"
)

// AlertRecord — append-only запись об обработанном сигнале.
type AlertRecord struct {
	ID           int64             `json:"id"`
	UserID       string            `json:"user_id"`
	StrategyID   int64             `json:"strategy_id"`
	StrategyName string            `json:"strategy_name"`
	Symbol       string            `json:"symbol"`
	Action       string            `json:"action"`
	Status       AlertStatus       `json:"status"`
	Message      string            `json:"message,omitempty"`
	AlertID      string            `json:"alert_id,omitempty"`
	Results      []ExecutionResult `json:"results"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ExecutionSummary возвращается вызывающей стороне (вебхук-хендлеру).
type ExecutionSummary struct {
	Success bool              `json:"success"`
	Status  AlertStatus       `json:"status"`
	Message string            `json:"message"`
	Results []ExecutionResult `json:"results"`
}
