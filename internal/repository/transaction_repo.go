package repository

import (
	"context"
	"encoding/json"

	"comic_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only coin ledger. Rows are written
// inside the same database transaction as the balance change they describe.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTx appends a ledger entry using the caller's transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, dbTx pgx.Tx, tx *domain.CoinTransaction) error {
	metaJSON, err := json.Marshal(tx.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return dbTx.QueryRow(ctx,
		`INSERT INTO coin_transactions (user_id, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		tx.UserID, tx.Type, tx.Amount, metaJSON,
	).Scan(&tx.ID, &tx.CreatedAt)
}

// GetByUserID returns recent ledger entries for a user, newest first.
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.CoinTransaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, meta, created_at
		 FROM coin_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByUserIDAndType filters the ledger by transaction type.
func (r *TransactionRepository) GetByUserIDAndType(ctx context.Context, userID int64, txType string, limit int) ([]*domain.CoinTransaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, meta, created_at
		 FROM coin_transactions
		 WHERE user_id = $1 AND type = $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3`,
		userID, txType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*domain.CoinTransaction, error) {
	var result []*domain.CoinTransaction
	for rows.Next() {
		var (
			tx       domain.CoinTransaction
			metaJSON []byte
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &metaJSON, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &tx.Meta)
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}
