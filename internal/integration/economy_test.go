package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"comic_platform/internal/domain"
	"comic_platform/internal/progression"
	"comic_platform/internal/repository"
	"comic_platform/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testRates = progression.Rates{
	BaseExpPerCoin:  0.2,
	BaseExpPerPage:  2.0,
	ReductionFactor: 0.5,
	MinExpRate:      0.01,
}

var testRewards = progression.RewardTable{10, 20, 30, 40, 50, 60, 70}

func connectDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// newAccount provisions a fresh account with the given balance. User ids are
// time-based so reruns against the same database do not collide.
func newAccount(t *testing.T, db *pgxpool.Pool, balance int64) int64 {
	t.Helper()
	userID := time.Now().UnixNano()
	accounts := service.NewAccountService(db, balance)
	if _, err := accounts.CreateAccount(context.Background(), userID); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return userID
}

func newChapter(t *testing.T, db *pgxpool.Pool, price int64) int64 {
	t.Helper()
	repo := repository.NewChapterRepository(db)
	c := &domain.Chapter{ComicID: 1, Title: "test chapter", Price: price}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return c.ID
}

func TestUnlockChapter_ConservationAndIdempotence(t *testing.T) {
	db := connectDB(t)
	econ := service.NewEconomyService(db, testRates, testRewards)

	userID := newAccount(t, db, 500)
	chapterID := newChapter(t, db, 120)
	ctx := context.Background()

	res, err := econ.UnlockChapter(ctx, userID, chapterID)
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if res.AlreadyUnlocked {
		t.Fatal("first unlock reported as duplicate")
	}
	if res.Balance != 380 {
		t.Fatalf("balance = %d; want 380", res.Balance)
	}

	// Repeating the call is a no-op success with the same state.
	res2, err := econ.UnlockChapter(ctx, userID, chapterID)
	if err != nil {
		t.Fatalf("second unlock: %v", err)
	}
	if !res2.AlreadyUnlocked {
		t.Fatal("second unlock not reported as duplicate")
	}
	if res2.Balance != 380 {
		t.Fatalf("second unlock mutated balance: %d", res2.Balance)
	}

	var grantCount int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM unlock_grants WHERE user_id = $1 AND chapter_id = $2`,
		userID, chapterID,
	).Scan(&grantCount); err != nil {
		t.Fatalf("count grants: %v", err)
	}
	if grantCount != 1 {
		t.Fatalf("grant count = %d; want 1", grantCount)
	}
}

func TestUnlockChapter_InsufficientBalance(t *testing.T) {
	db := connectDB(t)
	econ := service.NewEconomyService(db, testRates, testRewards)

	userID := newAccount(t, db, 50)
	chapterID := newChapter(t, db, 120)

	_, err := econ.UnlockChapter(context.Background(), userID, chapterID)
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// The rejected attempt must leave no trace.
	account, err := service.NewAccountService(db, 0).GetAccount(context.Background(), userID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Balance != 50 {
		t.Fatalf("balance changed on rejected unlock: %d", account.Balance)
	}
}

// Two simultaneous unlocks of the same chapter with balance == price must
// produce exactly one debit; the loser observes "already unlocked".
func TestUnlockChapter_ConcurrentDoubleSpend(t *testing.T) {
	db := connectDB(t)
	econ := service.NewEconomyService(db, testRates, testRewards)

	price := int64(200)
	userID := newAccount(t, db, price)
	chapterID := newChapter(t, db, price)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*service.UnlockResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = econ.UnlockChapter(ctx, userID, chapterID)
		}(i)
	}
	wg.Wait()

	duplicates := 0
	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("unlock %d failed: %v", i, errs[i])
		}
		if results[i].AlreadyUnlocked {
			duplicates++
		}
		if results[i].Balance != 0 {
			t.Fatalf("unlock %d: balance = %d; want 0", i, results[i].Balance)
		}
	}
	if duplicates != 1 {
		t.Fatalf("expected exactly one duplicate observation, got %d", duplicates)
	}

	var grantCount int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM unlock_grants WHERE user_id = $1 AND chapter_id = $2`,
		userID, chapterID,
	).Scan(&grantCount); err != nil {
		t.Fatalf("count grants: %v", err)
	}
	if grantCount != 1 {
		t.Fatalf("grant count = %d; want 1", grantCount)
	}
}

func TestGrantRecharge_LevelUp(t *testing.T) {
	db := connectDB(t)
	econ := service.NewEconomyService(db, testRates, testRewards)

	userID := newAccount(t, db, 1000)
	ctx := context.Background()

	// At 0.2 exp/coin with factor 0.5: level 1 takes 500 coins, the
	// remaining 500 earn 50 exp at level 2's halved rate.
	res, err := econ.GrantRecharge(ctx, userID, 1000)
	if err != nil {
		t.Fatalf("recharge: %v", err)
	}
	if res.Level != 2 || res.Exp != 50 || !res.LeveledUp {
		t.Fatalf("unexpected progression: %+v", res)
	}
	if res.Balance != 2000 {
		t.Fatalf("balance = %d; want 2000", res.Balance)
	}

	// Ledger row written in the same transaction.
	txs, err := repository.NewTransactionRepository(db).GetByUserIDAndType(ctx, userID, domain.TxTypeRecharge, 10)
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != 1000 {
		t.Fatalf("unexpected ledger entries: %+v", txs)
	}
}

func TestRecordPagesRead(t *testing.T) {
	db := connectDB(t)
	econ := service.NewEconomyService(db, testRates, testRewards)

	userID := newAccount(t, db, 0)
	ctx := context.Background()

	res, err := econ.RecordPagesRead(ctx, userID, 10)
	if err != nil {
		t.Fatalf("read pages: %v", err)
	}
	if res.Level != 1 || res.Exp != 20 || res.LeveledUp {
		t.Fatalf("unexpected progression: %+v", res)
	}
	if res.Balance != 0 {
		t.Fatalf("reading must not touch the balance, got %d", res.Balance)
	}
}

func TestClaimDailyReward_StreakFlow(t *testing.T) {
	db := connectDB(t)
	econ := service.NewEconomyService(db, testRates, testRewards)

	userID := newAccount(t, db, 0)
	ctx := context.Background()

	res, err := econ.ClaimDailyReward(ctx, userID)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if res.StreakDay != 1 || res.RewardAmount != 10 {
		t.Fatalf("first claim: %+v", res)
	}

	// Second claim on the same day is rejected.
	if _, err := econ.ClaimDailyReward(ctx, userID); !errors.Is(err, service.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	// Backdate the claim to yesterday with a 6-day streak: today is day 7.
	if _, err := db.Exec(ctx,
		`UPDATE accounts SET last_claim_at = now() - interval '1 day', streak_length = 6 WHERE user_id = $1`,
		userID,
	); err != nil {
		t.Fatalf("backdate claim: %v", err)
	}
	res, err = econ.ClaimDailyReward(ctx, userID)
	if err != nil {
		t.Fatalf("day seven claim: %v", err)
	}
	if res.StreakDay != 7 || res.RewardAmount != 70 || res.StreakReset {
		t.Fatalf("day seven claim: %+v", res)
	}

	// A three-day gap resets the streak to day 1.
	if _, err := db.Exec(ctx,
		`UPDATE accounts SET last_claim_at = now() - interval '3 days' WHERE user_id = $1`,
		userID,
	); err != nil {
		t.Fatalf("backdate claim: %v", err)
	}
	res, err = econ.ClaimDailyReward(ctx, userID)
	if err != nil {
		t.Fatalf("reset claim: %v", err)
	}
	if res.StreakDay != 1 || !res.StreakReset || res.RewardAmount != 10 {
		t.Fatalf("reset claim: %+v", res)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	db := connectDB(t)
	accounts := service.NewAccountService(db, 300)

	userID := time.Now().UnixNano()
	ctx := context.Background()

	first, err := accounts.CreateAccount(ctx, userID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Balance != 300 || first.Level != 1 || first.Exp != 0 {
		t.Fatalf("unexpected fresh account: %+v", first)
	}

	second, err := accounts.CreateAccount(ctx, userID)
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if second.Balance != 300 {
		t.Fatalf("repeat create changed balance: %d", second.Balance)
	}

	// Exactly one signup bonus in the ledger.
	txs, err := repository.NewTransactionRepository(db).GetByUserIDAndType(ctx, userID, domain.TxTypeSignupBonus, 10)
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("signup bonus count = %d; want 1", len(txs))
	}
}
