package service

import (
	"context"
	"errors"
	"fmt"

	"comic_platform/internal/domain"
	"comic_platform/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountService owns the account lifecycle and read paths. All mutations of
// an existing account go through EconomyService; this service only creates
// accounts and serves reads.
type AccountService struct {
	db           *pgxpool.Pool
	accounts     *repository.AccountRepository
	grants       *repository.GrantRepository
	transactions *repository.TransactionRepository
	signupBonus  int64
}

func NewAccountService(db *pgxpool.Pool, signupBonus int64) *AccountService {
	return &AccountService{
		db:           db,
		accounts:     repository.NewAccountRepository(db),
		grants:       repository.NewGrantRepository(db),
		transactions: repository.NewTransactionRepository(db),
		signupBonus:  signupBonus,
	}
}

// CreateAccount provisions the economy row at registration: level 1, zero
// exp, signup bonus balance, plus the matching ledger entry. Calling it for
// an existing user returns the current account unchanged.
func (s *AccountService) CreateAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	if existing, err := s.accounts.GetByUserID(ctx, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := s.accounts.CreateTx(ctx, tx, userID, s.signupBonus)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if s.signupBonus > 0 {
		if err := s.transactions.CreateTx(ctx, tx, &domain.CoinTransaction{
			UserID: userID,
			Type:   domain.TxTypeSignupBonus,
			Amount: s.signupBonus,
		}); err != nil {
			return nil, fmt.Errorf("write ledger: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return account, nil
}

// GetAccount returns the current economy state.
func (s *AccountService) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	return s.accounts.GetByUserID(ctx, userID)
}

// GetHistory returns recent coin ledger entries.
func (s *AccountService) GetHistory(ctx context.Context, userID int64, limit int) ([]*domain.CoinTransaction, error) {
	return s.transactions.GetByUserID(ctx, userID, limit)
}

// GetUnlocks returns the user's unlocked chapters.
func (s *AccountService) GetUnlocks(ctx context.Context, userID int64) ([]*domain.UnlockGrant, error) {
	return s.grants.ListByUser(ctx, userID)
}
