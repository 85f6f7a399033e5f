package domain

import "time"

// Account is the per-user economy row: coin balance plus reading progression.
// Exp is a percentage in [0,100); crossing 100 bumps Level.
type Account struct {
	UserID       int64      `db:"user_id" json:"user_id"`
	Balance      int64      `db:"balance" json:"balance"`
	Level        int        `db:"level" json:"level"`
	Exp          float64    `db:"exp" json:"exp"`
	LastClaimAt  *time.Time `db:"last_claim_at" json:"last_claim_at,omitempty"`
	StreakLength int        `db:"streak_length" json:"streak_length"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CanAfford reports whether the account covers a debit of price coins.
func (a *Account) CanAfford(price int64) bool {
	return a.Balance >= price
}
