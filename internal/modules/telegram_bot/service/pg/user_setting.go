package pg

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"bybit_bot/internal/models"
	"bybit_bot/pkg/db"
)

// User — репозиторий пользовательских настроек. Настройки лежат в jsonb:
// схема настроек меняется чаще, чем хочется гонять миграции. Поверх PG
// висит кэш на чтение — настройки дёргаются на каждое сообщение.
type User struct {
	db *db.PgTxManager

	mu   sync.RWMutex
	data map[int64]*models.UserSettings
}

// NewUser instance
func NewUser(txm *db.PgTxManager) *User {
	return &User{
		db:   txm,
		data: make(map[int64]*models.UserSettings),
	}
}

// Create in db
func (u *User) Create(
	ctx context.Context,
	user *models.UserSettings,
) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "pg.CreateUserSettings")
		}
	}()

	blob, err := sonic.Marshal(user.TradingSettings)
	if err != nil {
		return err
	}

	err = u.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctxTx,
				`INSERT INTO user_settings (chat_id, name, step, settings)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (chat_id) DO UPDATE SET settings = EXCLUDED.settings
				 RETURNING id`,
				user.UserID, user.Name, user.Step, blob,
			).Scan(&user.ID)
		})
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.data[user.UserID] = user
	return nil
}

// Update in db
func (u *User) Update(
	ctx context.Context,
	user *models.UserSettings,
) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "pg.UpdateUserSettings")
		}
	}()

	blob, err := sonic.Marshal(user.TradingSettings)
	if err != nil {
		return err
	}

	err = u.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctxTx,
				`UPDATE user_settings SET name = $2, step = $3, settings = $4 WHERE chat_id = $1`,
				user.UserID, user.Name, user.Step, blob,
			)
			return err
		})
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.data[user.UserID] = user
	return nil
}

// Get from db (сначала кэш)
func (u *User) Get(
	ctx context.Context,
	userID int64,
) (user *models.UserSettings, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "pg.GetUserSettings")
		}
	}()

	u.mu.RLock()
	if cached, ok := u.data[userID]; ok {
		u.mu.RUnlock()
		return cached, nil
	}
	u.mu.RUnlock()

	user = &models.UserSettings{UserID: userID}
	var blob []byte
	err = u.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctxTx,
				`SELECT id, name, step, settings FROM user_settings WHERE chat_id = $1`,
				userID,
			).Scan(&user.ID, &user.Name, &user.Step, &blob)
		})
	if err != nil {
		return nil, err
	}

	if err := sonic.Unmarshal(blob, &user.TradingSettings); err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.data[userID] = user
	u.mu.Unlock()

	return user, nil
}

// Delete from db
func (u *User) Delete(
	ctx context.Context,
	user *models.UserSettings,
) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "pg.DeleteUserSettings")
		}
	}()

	err = u.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctxTx,
				`DELETE FROM user_settings WHERE chat_id = $1`, user.UserID)
			return err
		})
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.data, user.UserID)

	return nil
}
