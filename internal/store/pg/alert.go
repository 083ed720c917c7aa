package pg

import (
	"context"
	"fmt"

	"signal_gate/internal/models"
	"signal_gate/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// AlertStore — append-only журнал обработанных сигналов.
// Ни update, ни delete у записей нет.
type AlertStore struct {
	tm db.TxManager
}

func NewAlertStore(tm db.TxManager) *AlertStore {
	return &AlertStore{tm: tm}
}

func (s *AlertStore) Append(ctx context.Context, rec *models.AlertRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("AlertStore.Append: %w", err)
		}
	}()

	var results []byte
	results, err = sonic.Marshal(rec.Results)
	if err != nil {
		return err
	}

	return s.tm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctxTx,
			`INSERT INTO alerts (user_id, strategy_id, strategy_name, symbol, action, status, message, alert_id, results, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id`,
			rec.UserID, rec.StrategyID, rec.StrategyName, rec.Symbol, rec.Action,
			string(rec.Status), rec.Message, rec.AlertID, results, rec.CreatedAt,
		).Scan(&rec.ID)
	})
}
