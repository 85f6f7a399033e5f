package domain

import "time"

// Coin transaction types. Every balance mutation writes exactly one row
// with one of these, inside the same database transaction as the mutation.
const (
	TxTypeRecharge      = "recharge"
	TxTypeChapterUnlock = "chapter_unlock"
	TxTypeDailyReward   = "daily_reward"
	TxTypeSignupBonus   = "signup_bonus"
)

// CoinTransaction is one entry in the per-user coin ledger. Amount is signed:
// credits positive, debits negative.
type CoinTransaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
