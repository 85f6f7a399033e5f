package repository

import (
	"context"
	"errors"

	"comic_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAccountNotFound is returned when no economy row exists for the user.
var ErrAccountNotFound = errors.New("account not found")

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `user_id, balance, level, exp, last_claim_at, streak_length, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.UserID, &a.Balance, &a.Level, &a.Exp,
		&a.LastClaimAt, &a.StreakLength, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByUserID reads the account without locking it (read-only callers).
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`,
		userID,
	)
	return scanAccount(row)
}

// LockTx reads the account under an exclusive row lock. The lock is held
// until tx commits or rolls back, serializing all economy mutations for the
// user.
func (r *AccountRepository) LockTx(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Account, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 FOR UPDATE`,
		userID,
	)
	return scanAccount(row)
}

// UpdateTx writes the mutable economy fields back inside the transaction
// that locked the row.
func (r *AccountRepository) UpdateTx(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	_, err := tx.Exec(ctx,
		`UPDATE accounts
		 SET balance = $2, level = $3, exp = $4,
		     last_claim_at = $5, streak_length = $6, updated_at = now()
		 WHERE user_id = $1`,
		a.UserID, a.Balance, a.Level, a.Exp, a.LastClaimAt, a.StreakLength,
	)
	return err
}

// CreateTx inserts a fresh account at level 1 with the signup bonus balance.
func (r *AccountRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID, signupBonus int64) (*domain.Account, error) {
	row := tx.QueryRow(ctx,
		`INSERT INTO accounts (user_id, balance, level, exp, streak_length)
		 VALUES ($1, $2, 1, 0, 0)
		 RETURNING `+accountColumns,
		userID, signupBonus,
	)
	return scanAccount(row)
}

// Exists reports whether the user already has an economy row.
func (r *AccountRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	return exists, err
}
