package service

import (
	"context"
	"fmt"
	"time"

	"comic_platform/internal/domain"
	"comic_platform/internal/logger"
	"comic_platform/internal/progression"
	"comic_platform/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventSink receives progression events for realtime push. Nil disables push.
type EventSink interface {
	Publish(userID int64, event any)
}

// ProgressResult is the outcome of any coin or page event.
type ProgressResult struct {
	Level     int     `json:"level"`
	Exp       float64 `json:"exp"`
	Balance   int64   `json:"balance"`
	LeveledUp bool    `json:"leveled_up"`
}

// UnlockResult extends ProgressResult with the idempotent no-op flag: a
// repeated unlock succeeds without touching the balance.
type UnlockResult struct {
	ProgressResult
	AlreadyUnlocked bool `json:"already_unlocked"`
}

// ClaimResult is the outcome of a daily reward claim.
type ClaimResult struct {
	Balance      int64  `json:"balance"`
	StreakDay    int    `json:"streak_day"`
	RewardAmount int64  `json:"reward_amount"`
	StreakReset  bool   `json:"streak_reset"`
	Message      string `json:"message"`
}

// EconomyService is the single owner of account mutations: recharge credits,
// chapter-unlock debits, page-read experience and daily claims. Every
// operation locks the user's account row for the duration of one database
// transaction, so concurrent requests against the same user serialize and a
// stale balance can never be written back.
type EconomyService struct {
	db           *pgxpool.Pool
	accounts     *repository.AccountRepository
	grants       *repository.GrantRepository
	chapters     *repository.ChapterRepository
	transactions *repository.TransactionRepository
	rates        progression.Rates
	rewards      progression.RewardTable
	events       EventSink
	now          func() time.Time
}

func NewEconomyService(db *pgxpool.Pool, rates progression.Rates, rewards progression.RewardTable) *EconomyService {
	return &EconomyService{
		db:           db,
		accounts:     repository.NewAccountRepository(db),
		grants:       repository.NewGrantRepository(db),
		chapters:     repository.NewChapterRepository(db),
		transactions: repository.NewTransactionRepository(db),
		rates:        rates,
		rewards:      rewards,
		now:          time.Now,
	}
}

// SetEventSink attaches a realtime event sink (the websocket hub).
func (s *EconomyService) SetEventSink(sink EventSink) {
	s.events = sink
}

// GrantRecharge credits purchased coins and converts the full amount into
// experience at the per-coin rate.
func (s *EconomyService) GrantRecharge(ctx context.Context, userID, coinsAdded int64) (*ProgressResult, error) {
	if coinsAdded <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := s.accounts.LockTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	res := s.rates.ApplyFuel(account.Level, account.Exp, float64(coinsAdded), progression.PolicyPerCoin)
	account.Balance += coinsAdded
	account.Level = res.Level
	account.Exp = res.Exp

	if err := s.accounts.UpdateTx(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := s.transactions.CreateTx(ctx, tx, &domain.CoinTransaction{
		UserID: userID,
		Type:   domain.TxTypeRecharge,
		Amount: coinsAdded,
	}); err != nil {
		return nil, fmt.Errorf("write ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	result := &ProgressResult{Level: account.Level, Exp: account.Exp, Balance: account.Balance, LeveledUp: res.LeveledUp}
	s.publishProgress(userID, result)
	return result, nil
}

// UnlockChapter debits the chapter price and records the grant. A chapter
// already unlocked is a success, not an error: the current state comes back
// unchanged with AlreadyUnlocked set.
func (s *EconomyService) UnlockChapter(ctx context.Context, userID, chapterID int64) (*UnlockResult, error) {
	if chapterID <= 0 {
		return nil, ErrInvalidAmount
	}

	// Price lookup needs no lock; the catalog is not part of the contended
	// state.
	price, err := s.chapters.GetPrice(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := s.accounts.LockTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Idempotency check before any debit. The row lock above serializes this
	// against a concurrent unlock of the same chapter.
	unlocked, err := s.grants.ExistsTx(ctx, tx, userID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("check grant: %w", err)
	}
	if unlocked {
		return &UnlockResult{
			ProgressResult:  ProgressResult{Level: account.Level, Exp: account.Exp, Balance: account.Balance},
			AlreadyUnlocked: true,
		}, nil
	}

	if !account.CanAfford(price) {
		return nil, ErrInsufficientBalance
	}

	res := s.rates.ApplyFuel(account.Level, account.Exp, float64(price), progression.PolicyPerCoin)
	account.Balance -= price
	account.Level = res.Level
	account.Exp = res.Exp

	if err := s.accounts.UpdateTx(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := s.grants.InsertTx(ctx, tx, &domain.UnlockGrant{
		UserID:    userID,
		ChapterID: chapterID,
		PricePaid: price,
	}); err != nil {
		return nil, fmt.Errorf("insert grant: %w", err)
	}
	if err := s.transactions.CreateTx(ctx, tx, &domain.CoinTransaction{
		UserID: userID,
		Type:   domain.TxTypeChapterUnlock,
		Amount: -price,
		Meta:   map[string]interface{}{"chapter_id": chapterID},
	}); err != nil {
		return nil, fmt.Errorf("write ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	result := &UnlockResult{
		ProgressResult: ProgressResult{Level: account.Level, Exp: account.Exp, Balance: account.Balance, LeveledUp: res.LeveledUp},
	}
	s.publishProgress(userID, &result.ProgressResult)
	return result, nil
}

// RecordPagesRead converts a finished reading session into experience at the
// flat per-page rate. The balance is untouched, but the account row is still
// locked so concurrent sessions cannot lose an exp update.
func (s *EconomyService) RecordPagesRead(ctx context.Context, userID int64, pageCount int) (*ProgressResult, error) {
	if pageCount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := s.accounts.LockTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	res := s.rates.ApplyFuel(account.Level, account.Exp, float64(pageCount), progression.PolicyPerPage)
	account.Level = res.Level
	account.Exp = res.Exp

	if err := s.accounts.UpdateTx(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	result := &ProgressResult{Level: account.Level, Exp: account.Exp, Balance: account.Balance, LeveledUp: res.LeveledUp}
	s.publishProgress(userID, result)
	return result, nil
}

// ClaimDailyReward credits today's streak reward. Idempotency comes from the
// calendar check: a second claim on the same day is rejected, so no separate
// ledger guard row is needed.
func (s *EconomyService) ClaimDailyReward(ctx context.Context, userID int64) (*ClaimResult, error) {
	today := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := s.accounts.LockTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	eval := progression.EvaluateClaim(account.LastClaimAt, account.StreakLength, today)
	if eval.AlreadyClaimedToday {
		return nil, ErrAlreadyClaimed
	}

	reward, err := s.rewards.AmountFor(eval.NextStreakDay)
	if err != nil {
		return nil, err
	}

	account.Balance += reward
	account.StreakLength = eval.NextStreakDay
	account.LastClaimAt = &today

	if err := s.accounts.UpdateTx(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := s.transactions.CreateTx(ctx, tx, &domain.CoinTransaction{
		UserID: userID,
		Type:   domain.TxTypeDailyReward,
		Amount: reward,
		Meta:   map[string]interface{}{"streak_day": eval.NextStreakDay},
	}); err != nil {
		return nil, fmt.Errorf("write ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	message := fmt.Sprintf("Day %d reward claimed: %d coins", eval.NextStreakDay, reward)
	if eval.Reset {
		message = fmt.Sprintf("Streak reset. Day 1 reward claimed: %d coins", reward)
	}

	if s.events != nil {
		s.events.Publish(userID, map[string]interface{}{
			"type":       "daily_claim",
			"streak_day": eval.NextStreakDay,
			"reward":     reward,
			"balance":    account.Balance,
		})
	}

	return &ClaimResult{
		Balance:      account.Balance,
		StreakDay:    eval.NextStreakDay,
		RewardAmount: reward,
		StreakReset:  eval.Reset,
		Message:      message,
	}, nil
}

func (s *EconomyService) publishProgress(userID int64, res *ProgressResult) {
	if res.LeveledUp {
		logger.Info("level up", "user_id", userID, "level", res.Level)
	}
	if s.events == nil {
		return
	}
	s.events.Publish(userID, map[string]interface{}{
		"type":       "progress",
		"level":      res.Level,
		"exp":        res.Exp,
		"balance":    res.Balance,
		"leveled_up": res.LeveledUp,
	})
}
