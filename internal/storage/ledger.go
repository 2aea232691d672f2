package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/lib/money"
)

var ErrEmptyMirror = errors.New("ledger mirror is empty")

// LedgerStorage описывает методы локального зеркала леджера. Зеркало — кэш
// последней успешно загруженной страницы леджера, а не учетная книга: сверка
// по нему идет только когда внешний источник недоступен.
type LedgerStorage interface {
	// SaveTransactions дописывает записи леджера в зеркало; уже известные id пропускаются.
	SaveTransactions(ctx context.Context, txs []models.Transaction) error
	// GetTransactions возвращает до limit записей, новые первыми.
	GetTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) LedgerStorage {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	// леджер append-only, конфликт по id означает уже сохраненную запись
	query := `INSERT INTO ledger_transactions (id, user_id, category_tag, amount, description, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO NOTHING`
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, tx := range txs {
		// сумма кладется строкой в NUMERIC, float64 в этом пути не появляется
		if _, err := dbTx.ExecContext(ctx, query,
			tx.ID, tx.UserID, tx.CategoryTag, tx.Amount.String(), tx.Description, tx.CreatedAt,
		); err != nil {
			if rbErr := dbTx.Rollback(); rbErr != nil {
				return fmt.Errorf("failed to save ledger transaction: %w (rollback failed: %v)", err, rbErr)
			}
			return fmt.Errorf("failed to save ledger transaction: %w", err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger batch: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, category_tag, amount, description, created_at
		FROM ledger_transactions
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger mirror: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var amount string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.CategoryTag, &amount, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction: %w", err)
		}
		tx.Amount = money.Normalize(amount)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, ErrEmptyMirror
	}
	return txs, nil
}
