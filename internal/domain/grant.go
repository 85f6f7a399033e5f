package domain

import "time"

// UnlockGrant records that a user has paid for a chapter. At most one row
// exists per (user, chapter); its presence is the sole source of truth for
// "already unlocked".
type UnlockGrant struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ChapterID  int64     `db:"chapter_id" json:"chapter_id"`
	PricePaid  int64     `db:"price_paid" json:"price_paid"`
	UnlockedAt time.Time `db:"unlocked_at" json:"unlocked_at"`
}
