package pg

import (
	"context"
	"fmt"

	"signal_gate/internal/models"
	"signal_gate/pkg/db"
)

// CredentialStore отдаёт API-ключи учётки. Шифрование значений на
// хранении — забота внешнего слоя, здесь только узкий порт чтения.
type CredentialStore struct {
	tm db.TxManager
}

func NewCredentialStore(tm db.TxManager) *CredentialStore {
	return &CredentialStore{tm: tm}
}

func (s *CredentialStore) Get(ctx context.Context, userID, accountRef string) (creds models.Credentials, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("CredentialStore.Get: %w", err)
		}
	}()

	creds.AccountRef = accountRef
	err = s.tm.Conn().QueryRow(ctx,
		`SELECT api_key, api_secret
		   FROM account_credentials
		  WHERE user_id = $1 AND account_ref = $2`,
		userID, accountRef,
	).Scan(&creds.APIKey, &creds.APISecret)
	if err != nil {
		return models.Credentials{}, err
	}
	if creds.APIKey == "" {
		return models.Credentials{}, fmt.Errorf("empty api key for %s/%s", userID, accountRef)
	}
	return creds, nil
}
