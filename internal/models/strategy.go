package models

// Direction ограничивает, какие сигналы стратегия готова исполнять.
type Direction string

const (
	DirectionBoth  Direction = "both"
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Allows проверяет совместимость направления стратегии со стороной сигнала.
func (d Direction) Allows(side Side) bool {
	switch d {
	case DirectionLong:
		return side == SideBuy
	case DirectionShort:
		return side == SideSell
	default:
		return true
	}
}

// AccountConfig — привязка стратегии к одной торговой учётке.
// DamageCost — максимальный убыток в USDT между входом и стопом,
// из него считается размер позиции.
type AccountConfig struct {
	AccountRef string  `json:"account_ref"`
	Enabled    bool    `json:"enabled"`
	DamageCost float64 `json:"damage_cost"`
}

// Strategy — пользовательская стратегия. Name — уникальный ключ,
// по которому матчатся входящие вебхуки.
type Strategy struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Direction   Direction       `json:"direction"`
	Enabled     bool            `json:"enabled"`
	Accounts    []AccountConfig `json:"accounts"`
	AlertsCount int             `json:"alerts_count"`
}

// EnabledAccounts возвращает только включённые учётки.
func (s *Strategy) EnabledAccounts() []AccountConfig {
	out := make([]AccountConfig, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}

// Credentials — API-ключи одной учётки. Шифрование на хранении —
// забота стора, сюда приходят уже расшифрованные значения.
type Credentials struct {
	AccountRef string
	APIKey     string
	APISecret  string
}
