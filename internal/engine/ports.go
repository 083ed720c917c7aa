package engine

import (
	"context"

	"signal_gate/internal/models"
)

// OrderType и TimeInForce в терминах Bybit v5.
const (
	OrderTypeLimit  = "Limit"
	OrderTypeMarket = "Market"
	TifGTC          = "GTC"
)

// PlaceOrderRequest — заявка в формате, который понимает биржевой клиент.
type PlaceOrderRequest struct {
	Symbol      string
	Side        models.Side
	OrderType   string
	Qty         string
	Price       float64 // 0 => без цены (market)
	TriggerPx   float64 // 0 => обычный ордер, иначе условный стоп
	ReduceOnly  bool
	TimeInForce string
}

// ExchangeClient — подписанные вызовы к бирже от имени одной учётки.
type ExchangeClient interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (orderID string, err error)
	FormatQuantity(ctx context.Context, symbol string, rawQty float64) (string, error)
}

// ExchangeFactory строит клиент под ключи конкретной учётки:
// у каждой учётки своя подпись и свой рейт-лимит.
type ExchangeFactory interface {
	ClientFor(creds models.Credentials) ExchangeClient
}

// StrategyStore — снапшот стратегий пользователя на момент начала обработки
// сигнала плюс инкремент счётчика алертов.
type StrategyStore interface {
	Load(ctx context.Context, userID string) ([]models.Strategy, error)
	IncrementAlertCount(ctx context.Context, strategyID int64) error
}

// AlertStore — append-only журнал обработанных сигналов.
type AlertStore interface {
	Append(ctx context.Context, rec *models.AlertRecord) error
}

// CredentialStore отдаёт API-ключи учётки. Шифрование — на стороне стора.
type CredentialStore interface {
	Get(ctx context.Context, userID, accountRef string) (models.Credentials, error)
}

// Notifier — отчёт пользователю после агрегации (Telegram или stdout).
type Notifier interface {
	Sendf(format string, args ...any)
}
