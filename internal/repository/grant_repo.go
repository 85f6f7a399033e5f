package repository

import (
	"context"

	"comic_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GrantRepository is the unlock ledger: one row per (user, chapter) the user
// has paid for. The existence check and the insert both run inside the
// caller's transaction so a retried unlock can never debit twice.
type GrantRepository struct {
	db *pgxpool.Pool
}

func NewGrantRepository(db *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{db: db}
}

// ExistsTx reports whether the chapter is already unlocked for the user.
func (r *GrantRepository) ExistsTx(ctx context.Context, tx pgx.Tx, userID, chapterID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM unlock_grants WHERE user_id = $1 AND chapter_id = $2)`,
		userID, chapterID,
	).Scan(&exists)
	return exists, err
}

// InsertTx records the unlock. The unique (user_id, chapter_id) constraint
// backs up the ExistsTx check against anything that slips past the row lock.
func (r *GrantRepository) InsertTx(ctx context.Context, tx pgx.Tx, g *domain.UnlockGrant) error {
	return tx.QueryRow(ctx,
		`INSERT INTO unlock_grants (user_id, chapter_id, price_paid)
		 VALUES ($1, $2, $3)
		 RETURNING id, unlocked_at`,
		g.UserID, g.ChapterID, g.PricePaid,
	).Scan(&g.ID, &g.UnlockedAt)
}

// ListByUser returns the user's unlocked chapters, newest first.
func (r *GrantRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.UnlockGrant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, chapter_id, price_paid, unlocked_at
		 FROM unlock_grants
		 WHERE user_id = $1
		 ORDER BY unlocked_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.UnlockGrant
	for rows.Next() {
		var g domain.UnlockGrant
		if err := rows.Scan(&g.ID, &g.UserID, &g.ChapterID, &g.PricePaid, &g.UnlockedAt); err != nil {
			return nil, err
		}
		result = append(result, &g)
	}
	return result, rows.Err()
}

// Exists checks the grant outside a transaction (read-only callers, e.g. the
// reader deciding whether to show a paywall).
func (r *GrantRepository) Exists(ctx context.Context, userID, chapterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM unlock_grants WHERE user_id = $1 AND chapter_id = $2)`,
		userID, chapterID,
	).Scan(&exists)
	return exists, err
}
