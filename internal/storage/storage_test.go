package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/storage"
)

func TestGetTransactions_Success(t *testing.T) {
	// Создаем sqlmock для эмуляции базы данных.
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewLedgerRepository(db)
	ctx := context.Background()

	createdAt := time.Unix(200, 0).UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "category_tag", "amount", "description", "created_at"}).
		AddRow("pay-1", int64(7), "asset_withdrawal", "1500.000000", "Withdrawal: ZED to wallet", createdAt).
		AddRow("sys-1", nil, "fee", "12.300000", "monthly fee", createdAt)

	mock.ExpectQuery("SELECT id, user_id, category_tag, amount, description, created_at").
		WithArgs(100).WillReturnRows(rows)

	txs, err := repo.GetTransactions(ctx, 100)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	// сумма восстановлена из NUMERIC-строки без потери точности
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, int64(7), *txs[0].UserID)
	assert.Nil(t, txs[1].UserID, "system entry has no user")
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("12.3")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactions_EmptyMirror(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewLedgerRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "category_tag", "amount", "description", "created_at"})
	mock.ExpectQuery("SELECT id, user_id, category_tag, amount, description, created_at").
		WithArgs(100).WillReturnRows(rows)

	txs, err := repo.GetTransactions(context.Background(), 100)
	assert.ErrorIs(t, err, storage.ErrEmptyMirror)
	assert.Nil(t, txs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactions_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewLedgerRepository(db)

	mock.ExpectQuery("SELECT id, user_id, category_tag, amount, description, created_at").
		WithArgs(100).WillReturnError(errors.New("connection refused"))

	_, err = repo.GetTransactions(context.Background(), 100)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransactions_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewLedgerRepository(db)
	uid := int64(7)
	txs := []models.Transaction{
		{
			ID:          "pay-1",
			UserID:      &uid,
			CategoryTag: "asset_withdrawal",
			Amount:      decimal.NewFromInt(1500),
			Description: "Withdrawal: ZED to wallet",
			CreatedAt:   time.Unix(200, 0).UTC(),
		},
	}

	insertRe := regexp.QuoteMeta("INSERT INTO ledger_transactions")
	mock.ExpectBegin()
	mock.ExpectExec(insertRe).
		WithArgs("pay-1", uid, "asset_withdrawal", "1500", "Withdrawal: ZED to wallet", txs[0].CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.SaveTransactions(context.Background(), txs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransactions_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewLedgerRepository(db)
	txs := []models.Transaction{
		{ID: "pay-1", CategoryTag: "fee", Amount: decimal.NewFromInt(1), CreatedAt: time.Unix(1, 0)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_transactions")).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	assert.Error(t, repo.SaveTransactions(context.Background(), txs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTransactions_NoopOnEmptyBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewLedgerRepository(db)
	assert.NoError(t, repo.SaveTransactions(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
