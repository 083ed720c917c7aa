package engine

import "errors"

var (
	// ErrValidation — неполный или кривой вебхук, до поиска стратегии не доходим
	ErrValidation = errors.New("validation error")

	// ErrStrategyNotFound — нет включённой стратегии с таким именем
	ErrStrategyNotFound = errors.New("strategy not found")

	// ErrInvalidAction — action алерта не распознан как buy/sell
	ErrInvalidAction = errors.New("invalid action")

	// ErrDirectionMismatch — направление стратегии запрещает сторону сигнала
	ErrDirectionMismatch = errors.New("direction mismatch")

	// ErrInvalidRiskParams — некорректная комбинация damage cost / entry / stop
	ErrInvalidRiskParams = errors.New("invalid risk parameters")

	// ErrNoEnabledAccounts — у стратегии ни одной включённой учётки
	ErrNoEnabledAccounts = errors.New("no enabled accounts")

	// ErrMissingCredentials — у учётки нет рабочего API-ключа
	ErrMissingCredentials = errors.New("API key not found")
)
