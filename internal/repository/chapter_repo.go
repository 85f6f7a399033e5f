package repository

import (
	"context"
	"errors"

	"comic_platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrChapterNotFound is returned for price lookups on unknown chapters.
var ErrChapterNotFound = errors.New("chapter not found")

// ChapterRepository is the catalog surface the economy engine consumes:
// chapter identity and price. The catalog service owns everything else.
type ChapterRepository struct {
	db *pgxpool.Pool
}

func NewChapterRepository(db *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// GetPrice returns the unlock price in coins for a chapter.
func (r *ChapterRepository) GetPrice(ctx context.Context, chapterID int64) (int64, error) {
	var price int64
	err := r.db.QueryRow(ctx,
		`SELECT price FROM chapters WHERE id = $1`,
		chapterID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrChapterNotFound
		}
		return 0, err
	}
	return price, nil
}

// GetByID returns the full chapter row.
func (r *ChapterRepository) GetByID(ctx context.Context, chapterID int64) (*domain.Chapter, error) {
	var c domain.Chapter
	err := r.db.QueryRow(ctx,
		`SELECT id, comic_id, title, price, created_at FROM chapters WHERE id = $1`,
		chapterID,
	).Scan(&c.ID, &c.ComicID, &c.Title, &c.Price, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a chapter (used by seeding and tests; the real catalog
// service owns chapter CRUD).
func (r *ChapterRepository) Create(ctx context.Context, c *domain.Chapter) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO chapters (comic_id, title, price)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.ComicID, c.Title, c.Price,
	).Scan(&c.ID, &c.CreatedAt)
}
