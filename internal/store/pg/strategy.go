package pg

import (
	"context"
	"fmt"

	"signal_gate/internal/models"
	"signal_gate/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// StrategyStore implement db store
type StrategyStore struct {
	tm db.TxManager
}

func NewStrategyStore(tm db.TxManager) *StrategyStore {
	return &StrategyStore{tm: tm}
}

// Load отдаёт снапшот стратегий пользователя. Accounts лежат в JSONB.
func (s *StrategyStore) Load(ctx context.Context, userID string) (strategies []models.Strategy, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("StrategyStore.Load: %w", err)
		}
	}()

	rows, err := s.tm.Conn().Query(ctx,
		`SELECT id, user_id, name, direction, enabled, accounts, alerts_count
		   FROM strategies
		  WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st       models.Strategy
			accounts []byte
		)
		if err = rows.Scan(&st.ID, &st.UserID, &st.Name, &st.Direction, &st.Enabled, &accounts, &st.AlertsCount); err != nil {
			return nil, err
		}
		if len(accounts) > 0 {
			if err = sonic.Unmarshal(accounts, &st.Accounts); err != nil {
				return nil, err
			}
		}
		strategies = append(strategies, st)
	}
	return strategies, rows.Err()
}

// IncrementAlertCount — счётчик обработанных алертов стратегии.
func (s *StrategyStore) IncrementAlertCount(ctx context.Context, strategyID int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("StrategyStore.IncrementAlertCount: %w", err)
		}
	}()

	return s.tm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`UPDATE strategies SET alerts_count = alerts_count + 1 WHERE id = $1`,
			strategyID,
		)
		return err
	})
}
