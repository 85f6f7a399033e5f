package domain

import "time"

// Chapter is the slice of the content catalog the economy engine needs:
// identity and price. Everything else about chapters lives in the catalog
// service.
type Chapter struct {
	ID        int64     `db:"id" json:"id"`
	ComicID   int64     `db:"comic_id" json:"comic_id"`
	Title     string    `db:"title" json:"title"`
	Price     int64     `db:"price" json:"price"` // coins; 0 = free
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsFree reports whether the chapter needs no unlock purchase.
func (c *Chapter) IsFree() bool {
	return c.Price <= 0
}
